package main

import (
	"fmt"
	"os"

	"github.com/conflint/conflint/pkg/cli"
	"github.com/conflint/conflint/pkg/console"
	"github.com/conflint/conflint/pkg/constants"
	"github.com/spf13/cobra"
)

// Build-time variables set by GoReleaser
var (
	version = "dev"
)

// Global flags
var (
	verbose      bool
	schemaFile   string
	formatName   string
	bestPractice bool
	rulesFile    string
	outputFormat string
)

// validateOutput validates the output flag value
func validateOutput(output string) error {
	if output != "text" && output != "json" {
		return fmt.Errorf("invalid output value '%s'. Must be 'text' or 'json'", output)
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   constants.CLIName + " <config-file>",
	Short: "Validate configuration files against a schema or best-practice rules",
	Long: `Validate a configuration file (YAML, JSON, or INI) against an optional
schema and/or a catalog of best-practice rules.

Without a schema file only basic validation is performed: the file must
parse as well-formed structured data. A schema file may be a simple rule
table mapping field paths to {required, type, enum, min, max}, or a full
JSON Schema document.

Examples:
  ` + constants.CLIName + ` config.yaml
  ` + constants.CLIName + ` config.json --schema_file schema.json
  ` + constants.CLIName + ` config.yaml --best_practice
  ` + constants.CLIName + ` settings.conf --format ini --best_practice

Exit codes: 0 when no error-severity findings were reported, 1 when at
least one error-severity finding exists, 2 on fatal failures (unreadable
file, unknown format, syntax error, bad schema).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateOutput(outputFormat); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(2)
		}

		opts := cli.ValidateOptions{
			ConfigFile:   args[0],
			SchemaFile:   schemaFile,
			Format:       formatName,
			RulesFile:    rulesFile,
			Output:       outputFormat,
			BestPractice: bestPractice,
			Verbose:      verbose,
		}

		result, err := cli.Validate(opts)
		if err != nil {
			fmt.Fprintln(os.Stderr, cli.FormatFatal(err))
			os.Exit(2)
		}

		if err := cli.RenderReport(os.Stdout, opts, result); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(2)
		}

		if result.HasErrors() {
			os.Exit(1)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("%s version %s", constants.CLIName, version)))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output showing each validation stage")

	rootCmd.Flags().StringVar(&schemaFile, "schema_file", "", "Path to a schema document (rule table or JSON Schema); omit for basic validation only")
	rootCmd.Flags().StringVar(&formatName, "format", "", "Configuration file format (yaml, json, ini); inferred from the extension when omitted")
	rootCmd.Flags().BoolVar(&bestPractice, "best_practice", false, "Enable best-practice validation (plaintext secrets, insecure flags, allow-all values)")
	rootCmd.Flags().StringVar(&rulesFile, "rules", "", "Path to a rule catalog replacing the built-in best-practice rules")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Report output format (text, json)")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(2)
	}
}
