package bestpractice

import (
	"fmt"
	"strings"

	"github.com/conflint/conflint/pkg/config"
	"github.com/conflint/conflint/pkg/report"
)

// Rule identifiers, stable across releases.
const (
	RulePlaintextSecret    = "plaintext-secret"
	RuleInsecureFlag       = "insecure-flag"
	RuleAllowAll           = "allow-all"
	RuleDefaultPlaceholder = "default-placeholder"
)

// checkPlaintextSecrets flags non-empty string values under secret-named
// keys. Values that reference environment variables are exempt: storing
// "${DB_PASSWORD}" is the practice this check wants to encourage.
func checkPlaintextSecrets(root *config.Node, catalog *Catalog) []report.Finding {
	var findings []report.Finding
	root.Walk(func(path config.Path, entry config.MapEntry) {
		if !catalog.isSecretKey(entry.Key) {
			return
		}
		value := entry.Value
		if value.Kind != config.KindScalar || value.Scalar != config.ScalarString || value.Str == "" {
			return
		}
		if isEnvReference(value.Str) {
			return
		}
		findings = append(findings, report.Finding{
			Path:     path,
			Severity: report.SeverityWarning,
			Message:  "possible plaintext secret",
			Source:   report.SourceBestPractice,
			Rule:     RulePlaintextSecret,
			Pos:      entryPosition(entry),
		})
	})
	return findings
}

// checkInsecureFlags flags known boolean settings set opposite to their
// recommended safe value, e.g. debug: true or verify_ssl: false.
func checkInsecureFlags(root *config.Node, catalog *Catalog) []report.Finding {
	var findings []report.Finding
	root.Walk(func(path config.Path, entry config.MapEntry) {
		flag, ok := catalog.flagFor(entry.Key)
		if !ok {
			return
		}
		value := entry.Value
		if value.Kind != config.KindScalar || value.Scalar != config.ScalarBool {
			return
		}
		if value.Bool == flag.Safe {
			return
		}
		findings = append(findings, report.Finding{
			Path:     path,
			Severity: report.SeverityWarning,
			Message:  fmt.Sprintf("insecure setting: %s should be %t", entry.Key, flag.Safe),
			Source:   report.SourceBestPractice,
			Rule:     RuleInsecureFlag,
			Pos:      entryPosition(entry),
		})
	})
	return findings
}

// checkPermissiveValues flags wildcard and bind-everything values under
// access-control-like keys, both as direct values and as sequence elements.
func checkPermissiveValues(root *config.Node, catalog *Catalog) []report.Finding {
	var findings []report.Finding
	root.Walk(func(path config.Path, entry config.MapEntry) {
		if !catalog.isPermissiveKey(entry.Key) {
			return
		}
		value := entry.Value
		switch value.Kind {
		case config.KindScalar:
			if value.Scalar == config.ScalarString && catalog.isPermissiveValue(value.Str) {
				findings = append(findings, permissiveFinding(path, value.Str, entryPosition(entry)))
			}
		case config.KindSequence:
			for i, item := range value.Items {
				if item.Kind == config.KindScalar && item.Scalar == config.ScalarString && catalog.isPermissiveValue(item.Str) {
					findings = append(findings, permissiveFinding(path.Element(i), item.Str, item.Pos))
				}
			}
		}
	})
	return findings
}

func permissiveFinding(path config.Path, value string, pos config.Position) report.Finding {
	return report.Finding{
		Path:     path,
		Severity: report.SeverityWarning,
		Message:  fmt.Sprintf("overly permissive value '%s'", value),
		Source:   report.SourceBestPractice,
		Rule:     RuleAllowAll,
		Pos:      pos,
	}
}

// checkPlaceholderSecrets flags secret-named keys still holding a
// well-known placeholder such as YOUR_API_KEY or changeme.
func checkPlaceholderSecrets(root *config.Node, catalog *Catalog) []report.Finding {
	var findings []report.Finding
	root.Walk(func(path config.Path, entry config.MapEntry) {
		if !catalog.isSecretKey(entry.Key) {
			return
		}
		value := entry.Value
		if value.Kind != config.KindScalar || value.Scalar != config.ScalarString {
			return
		}
		if !catalog.isPlaceholder(value.Str) {
			return
		}
		findings = append(findings, report.Finding{
			Path:     path,
			Severity: report.SeverityWarning,
			Message:  fmt.Sprintf("secret is set to the placeholder value '%s'", value.Str),
			Source:   report.SourceBestPractice,
			Rule:     RuleDefaultPlaceholder,
			Pos:      entryPosition(entry),
		})
	})
	return findings
}

// isEnvReference reports whether a value defers to the environment rather
// than embedding the secret: "${VAR}", "$VAR" or "{{ var }}" templating.
func isEnvReference(value string) bool {
	if strings.HasPrefix(value, "${") || strings.HasPrefix(value, "{{") {
		return true
	}
	return strings.HasPrefix(value, "$") && len(value) > 1
}
