package report

import (
	"github.com/conflint/conflint/pkg/config"
)

// Severity classifies a finding. Higher values are more severe.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Source identifies which validator produced a finding.
type Source string

const (
	SourceSchema       Source = "schema"
	SourceBestPractice Source = "best-practice"
)

// Finding is a single reported issue with location, severity and message.
type Finding struct {
	Path     config.Path
	Severity Severity
	Message  string
	Source   Source
	Rule     string // stable rule identifier, empty for schema findings
	Pos      config.Position
}

// Report is an ordered collection of findings with per-severity counts.
// It is created empty, appended to during validation, and read-only once
// rendered.
type Report struct {
	Findings []Finding
	counts   map[Severity]int
}

// New creates an empty report.
func New() *Report {
	return &Report{counts: make(map[Severity]int)}
}

// Append adds findings to the report, preserving their order.
func (r *Report) Append(findings ...Finding) {
	if r.counts == nil {
		r.counts = make(map[Severity]int)
	}
	for _, f := range findings {
		r.Findings = append(r.Findings, f)
		r.counts[f.Severity]++
	}
}

// Count returns the number of findings with the given severity.
func (r *Report) Count(severity Severity) int {
	return r.counts[severity]
}

// Len returns the total number of findings.
func (r *Report) Len() int {
	return len(r.Findings)
}

// HasErrors reports whether any error-severity finding was recorded.
// Warnings and infos alone never fail a validation run.
func (r *Report) HasErrors() bool {
	return r.counts[SeverityError] > 0
}
