package schema

import (
	"fmt"
	"strings"

	"github.com/conflint/conflint/pkg/config"
	"github.com/conflint/conflint/pkg/report"
)

// Rule declares the expectations for a single field path.
type Rule struct {
	Path     config.Path
	Required bool
	Type     string // one of ruleTypes, empty means any
	Enum     []string
	Min      *float64
	Max      *float64
}

// RuleSet is an ordered list of rules, in schema declaration order.
type RuleSet []Rule

// ruleTypes are the type names a rule may declare.
var ruleTypes = map[string]bool{
	"string":  true,
	"integer": true,
	"number":  true,
	"boolean": true,
	"array":   true,
	"object":  true,
	"null":    true,
}

// parseRuleSet converts a rule-table mapping into a RuleSet. Field paths may
// be dotted ("server.port"). Malformed rule objects fail schema loading.
func parseRuleSet(doc *config.Node) (RuleSet, error) {
	var rules RuleSet
	for _, entry := range doc.Entries {
		if entry.Value.Kind != config.KindMapping {
			return nil, fmt.Errorf("rule for '%s' must be a mapping, got %s", entry.Key, entry.Value.TypeName())
		}
		rule := Rule{Path: config.ParsePath(entry.Key)}
		for _, attr := range entry.Value.Entries {
			value := attr.Value
			switch attr.Key {
			case "required":
				if value.Kind != config.KindScalar || value.Scalar != config.ScalarBool {
					return nil, fmt.Errorf("rule '%s': required must be a boolean", entry.Key)
				}
				rule.Required = value.Bool
			case "type":
				if value.Kind != config.KindScalar || value.Scalar != config.ScalarString {
					return nil, fmt.Errorf("rule '%s': type must be a string", entry.Key)
				}
				if !ruleTypes[value.Str] {
					return nil, fmt.Errorf("rule '%s': unknown type '%s'", entry.Key, value.Str)
				}
				rule.Type = value.Str
			case "enum":
				if value.Kind != config.KindSequence {
					return nil, fmt.Errorf("rule '%s': enum must be a sequence", entry.Key)
				}
				for _, item := range value.Items {
					if item.Kind != config.KindScalar {
						return nil, fmt.Errorf("rule '%s': enum values must be scalars", entry.Key)
					}
					rule.Enum = append(rule.Enum, item.ScalarString())
				}
			case "min":
				number, err := ruleNumber(entry.Key, "min", value)
				if err != nil {
					return nil, err
				}
				rule.Min = &number
			case "max":
				number, err := ruleNumber(entry.Key, "max", value)
				if err != nil {
					return nil, err
				}
				rule.Max = &number
			default:
				return nil, fmt.Errorf("rule '%s': unknown attribute '%s'", entry.Key, attr.Key)
			}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func ruleNumber(rule, attr string, value *config.Node) (float64, error) {
	if value.Kind == config.KindScalar {
		switch value.Scalar {
		case config.ScalarInt:
			return float64(value.Int), nil
		case config.ScalarFloat:
			return value.Float, nil
		}
	}
	return 0, fmt.Errorf("rule '%s': %s must be a number", rule, attr)
}

// validate applies each rule in declaration order. Fields present in the
// configuration but not declared in the schema are never flagged.
func (rules RuleSet) validate(root *config.Node) []report.Finding {
	var findings []report.Finding
	for _, rule := range rules {
		node, found := root.Lookup(rule.Path)
		if !found {
			if rule.Required {
				findings = append(findings, report.Finding{
					Path:     rule.Path,
					Severity: report.SeverityError,
					Message:  "missing required field",
					Source:   report.SourceSchema,
				})
			}
			continue
		}

		if rule.Type != "" && !typeMatches(rule.Type, node) {
			findings = append(findings, report.Finding{
				Path:     rule.Path,
				Severity: report.SeverityError,
				Message:  fmt.Sprintf("type mismatch: expected %s, got %s", rule.Type, node.TypeName()),
				Source:   report.SourceSchema,
				Pos:      node.Pos,
			})
			// Constraints assume the declared type; skip them on mismatch.
			continue
		}

		if len(rule.Enum) > 0 && !enumContains(rule.Enum, node) {
			findings = append(findings, report.Finding{
				Path:     rule.Path,
				Severity: report.SeverityWarning,
				Message:  fmt.Sprintf("value '%s' is not one of the allowed values (%s)", node.ScalarString(), joinEnum(rule.Enum)),
				Source:   report.SourceSchema,
				Pos:      node.Pos,
			})
		}

		if number, ok := numericValue(node); ok {
			if rule.Min != nil && number < *rule.Min {
				findings = append(findings, report.Finding{
					Path:     rule.Path,
					Severity: report.SeverityWarning,
					Message:  fmt.Sprintf("value %s is below the minimum %v", node.ScalarString(), *rule.Min),
					Source:   report.SourceSchema,
					Pos:      node.Pos,
				})
			}
			if rule.Max != nil && number > *rule.Max {
				findings = append(findings, report.Finding{
					Path:     rule.Path,
					Severity: report.SeverityWarning,
					Message:  fmt.Sprintf("value %s exceeds the maximum %v", node.ScalarString(), *rule.Max),
					Source:   report.SourceSchema,
					Pos:      node.Pos,
				})
			}
		}
	}
	return findings
}

// typeMatches checks a node against a declared rule type. "number" accepts
// integers; "integer" does not accept floats.
func typeMatches(ruleType string, node *config.Node) bool {
	switch ruleType {
	case "object":
		return node.Kind == config.KindMapping
	case "array":
		return node.Kind == config.KindSequence
	case "string":
		return node.Kind == config.KindScalar && node.Scalar == config.ScalarString
	case "integer":
		return node.Kind == config.KindScalar && node.Scalar == config.ScalarInt
	case "number":
		return node.Kind == config.KindScalar && (node.Scalar == config.ScalarInt || node.Scalar == config.ScalarFloat)
	case "boolean":
		return node.Kind == config.KindScalar && node.Scalar == config.ScalarBool
	case "null":
		return node.Kind == config.KindScalar && node.Scalar == config.ScalarNull
	}
	return true
}

func enumContains(enum []string, node *config.Node) bool {
	if node.Kind != config.KindScalar {
		return false
	}
	value := node.ScalarString()
	for _, allowed := range enum {
		if value == allowed {
			return true
		}
	}
	return false
}

func joinEnum(enum []string) string {
	quoted := make([]string, len(enum))
	for i, v := range enum {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}

func numericValue(node *config.Node) (float64, bool) {
	if node.Kind != config.KindScalar {
		return 0, false
	}
	switch node.Scalar {
	case config.ScalarInt:
		return float64(node.Int), true
	case config.ScalarFloat:
		return node.Float, true
	}
	return 0, false
}
