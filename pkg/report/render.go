package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/conflint/conflint/pkg/console"
)

// RenderText writes the human-readable form of the report: one diagnostic
// line per finding followed by a per-severity summary table, or a success
// line when the report is empty. Output is deterministic for a given report.
func RenderText(w io.Writer, file string, r *Report) error {
	if r.Len() == 0 {
		_, err := fmt.Fprintln(w, console.FormatSuccessMessage(fmt.Sprintf("%s: no issues found", console.ToRelativePath(file))))
		return err
	}

	for _, f := range r.Findings {
		message := f.Message
		if len(f.Path) > 0 {
			message = fmt.Sprintf("%s (%s)", message, f.Path)
		}
		if f.Rule != "" {
			message = fmt.Sprintf("%s [%s]", message, f.Rule)
		}
		diagnostic := console.Diagnostic{
			Position: console.Position{File: file, Line: f.Pos.Line, Column: f.Pos.Column},
			Type:     f.Severity.String(),
			Message:  message,
		}
		if _, err := fmt.Fprint(w, console.FormatDiagnostic(diagnostic)); err != nil {
			return err
		}
	}

	table := console.RenderTable(console.TableConfig{
		Headers: []string{"severity", "count"},
		Rows: [][]string{
			{"error", strconv.Itoa(r.Count(SeverityError))},
			{"warning", strconv.Itoa(r.Count(SeverityWarning))},
			{"info", strconv.Itoa(r.Count(SeverityInfo))},
		},
	})
	_, err := fmt.Fprint(w, "\n"+table)
	return err
}

// jsonFinding is the wire form of a Finding for --output json.
type jsonFinding struct {
	Path     string `json:"path"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Source   string `json:"source"`
	Rule     string `json:"rule,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

type jsonReport struct {
	File     string        `json:"file"`
	Findings []jsonFinding `json:"findings"`
	Summary  jsonSummary   `json:"summary"`
}

type jsonSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// RenderJSON writes the machine-readable form of the report. Finding order
// matches the text rendering.
func RenderJSON(w io.Writer, file string, r *Report) error {
	out := jsonReport{
		File:     file,
		Findings: make([]jsonFinding, 0, r.Len()),
		Summary: jsonSummary{
			Errors:   r.Count(SeverityError),
			Warnings: r.Count(SeverityWarning),
			Infos:    r.Count(SeverityInfo),
		},
	}
	for _, f := range r.Findings {
		out.Findings = append(out.Findings, jsonFinding{
			Path:     f.Path.String(),
			Severity: f.Severity.String(),
			Message:  f.Message,
			Source:   string(f.Source),
			Rule:     f.Rule,
			Line:     f.Pos.Line,
			Column:   f.Pos.Column,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
