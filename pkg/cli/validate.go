package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/conflint/conflint/pkg/bestpractice"
	"github.com/conflint/conflint/pkg/config"
	"github.com/conflint/conflint/pkg/console"
	"github.com/conflint/conflint/pkg/report"
	"github.com/conflint/conflint/pkg/schema"
)

// ValidateOptions carries the resolved flag values of a validation run.
type ValidateOptions struct {
	ConfigFile   string
	SchemaFile   string
	Format       string // explicit format override, empty = infer
	RulesFile    string // best-practice catalog override, empty = embedded
	Output       string // "text" or "json"
	BestPractice bool
	Verbose      bool
}

// Validate runs a full validation pass: load the configuration file, apply
// the schema when one was supplied, apply the best-practice checks when
// enabled, and aggregate everything into a single report. Fatal problems
// (unreadable files, syntax errors, bad schema or catalog) return an error;
// findings never do.
func Validate(opts ValidateOptions) (*report.Report, error) {
	format, err := config.Detect(opts.ConfigFile, opts.Format)
	if err != nil {
		return nil, err
	}

	var sch *schema.Schema
	if opts.SchemaFile != "" {
		sch, err = schema.Load(opts.SchemaFile)
		if err != nil {
			return nil, err
		}
		verbose(opts, "Loaded schema %s", opts.SchemaFile)
	} else {
		verbose(opts, "No schema file provided, performing basic validation only")
	}

	spin := console.NewSpinner(fmt.Sprintf("Validating %s", console.ToRelativePath(opts.ConfigFile)))
	if opts.Output != "json" && !opts.Verbose {
		spin.Start()
	}
	defer spin.Stop()

	root, err := config.Load(opts.ConfigFile, format)
	if err != nil {
		return nil, err
	}
	verbose(opts, "Loaded configuration file %s (%s)", opts.ConfigFile, format)

	result := report.New()
	result.Append(sch.Validate(root)...)

	if opts.BestPractice {
		catalog, err := loadCatalog(opts)
		if err != nil {
			return nil, err
		}
		result.Append(bestpractice.Run(root, catalog)...)
	} else {
		verbose(opts, "Best-practice validation skipped")
	}

	return result, nil
}

// loadCatalog resolves the best-practice catalog: the embedded default, or
// the user-supplied file when --rules was given.
func loadCatalog(opts ValidateOptions) (*bestpractice.Catalog, error) {
	if opts.RulesFile != "" {
		verbose(opts, "Using rule catalog %s", opts.RulesFile)
		return bestpractice.LoadCatalog(opts.RulesFile)
	}
	return bestpractice.DefaultCatalog()
}

// RenderReport writes the report in the requested output format.
func RenderReport(w io.Writer, opts ValidateOptions, result *report.Report) error {
	if opts.Output == "json" {
		return report.RenderJSON(w, opts.ConfigFile, result)
	}
	return report.RenderText(w, opts.ConfigFile, result)
}

// FormatFatal renders a fatal error for stderr. Parse errors with a known
// position get the full diagnostic treatment with source context.
func FormatFatal(err error) string {
	var parseErr *config.ParseError
	if errors.As(err, &parseErr) && parseErr.Line > 0 && parseErr.Path != "" {
		return console.FormatDiagnostic(console.Diagnostic{
			Position: console.Position{
				File:   parseErr.Path,
				Line:   parseErr.Line,
				Column: parseErr.Column,
			},
			Type:    "error",
			Message: fmt.Sprintf("failed to parse as %s: %s", parseErr.Format, parseErr.Msg),
			Context: contextLines(parseErr.Path, parseErr.Line),
		})
	}
	return console.FormatErrorMessage(err.Error())
}

// contextLines reads the source lines centered around line for diagnostic
// rendering. The window stays centered even near the start of the file
// (leading slots are padded; the renderer skips line numbers below 1).
// Returns nil when the file cannot be read or the line is out of range.
func contextLines(path string, line int) []string {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	lines := strings.Split(string(content), "\n")
	if line < 1 || line > len(lines) {
		return nil
	}

	const window = 2
	context := make([]string, 0, 2*window+1)
	for n := line - window; n <= line+window; n++ {
		if n < 1 || n > len(lines) {
			context = append(context, "")
			continue
		}
		context = append(context, lines[n-1])
	}
	return context
}

func verbose(opts ValidateOptions, format string, args ...any) {
	if !opts.Verbose {
		return
	}
	fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf(format, args...)))
}
