package bestpractice

import (
	"github.com/conflint/conflint/pkg/config"
	"github.com/conflint/conflint/pkg/report"
)

// Check is a single heuristic, a pure function from tree to findings.
// Checks are independent of one another and of evaluation order.
type Check func(root *config.Node, catalog *Catalog) []report.Finding

// Checks returns the registered checks in their fixed execution order.
func Checks() []Check {
	return []Check{
		checkPlaintextSecrets,
		checkInsecureFlags,
		checkPermissiveValues,
		checkPlaceholderSecrets,
	}
}

// Run applies every check against the tree and concatenates the findings.
func Run(root *config.Node, catalog *Catalog) []report.Finding {
	var findings []report.Finding
	for _, check := range Checks() {
		findings = append(findings, check(root, catalog)...)
	}
	return findings
}

// entryPosition picks the best available position for a finding on a
// mapping entry: the value's own position, falling back to the key's.
func entryPosition(entry config.MapEntry) config.Position {
	if !entry.Value.Pos.IsZero() {
		return entry.Value.Pos
	}
	return entry.KeyPos
}
