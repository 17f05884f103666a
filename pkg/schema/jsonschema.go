package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/conflint/conflint/pkg/config"
	"github.com/conflint/conflint/pkg/report"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

type compiledSchema = *jsonschema.Schema

// schemaResourceURL is the placeholder URL under which the schema document
// is registered with the compiler.
const schemaResourceURL = "file:///schema.json"

// compileJSONSchema compiles a parsed schema document with the jsonschema
// compiler. The document is normalized through a JSON round trip first so
// the compiler sees plain JSON types.
func compileJSONSchema(doc *config.Node) (compiledSchema, error) {
	normalized, err := jsonRoundTrip(doc.Interface())
	if err != nil {
		return nil, fmt.Errorf("failed to normalize schema document: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResourceURL, normalized); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(schemaResourceURL)
	if err != nil {
		return nil, err
	}
	return compiled, nil
}

// validateCompiled validates the configuration tree against the compiled
// JSON Schema. Each leaf validation cause becomes one error finding whose
// path is the cause's instance location and whose position is resolved
// against the node tree. Findings are emitted in document order.
func (s *Schema) validateCompiled(root *config.Node) []report.Finding {
	instance, err := jsonRoundTrip(root.Interface())
	if err != nil {
		return []report.Finding{{
			Severity: report.SeverityError,
			Message:  fmt.Sprintf("failed to normalize configuration for schema validation: %v", err),
			Source:   report.SourceSchema,
		}}
	}

	err = s.compiled.Validate(instance)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []report.Finding{{
			Severity: report.SeverityError,
			Message:  err.Error(),
			Source:   report.SourceSchema,
		}}
	}

	var findings []report.Finding
	for _, cause := range leafCauses(validationErr) {
		path := config.FromPointer(root, cause.InstanceLocation)
		finding := report.Finding{
			Path:     path,
			Severity: report.SeverityError,
			Message:  cleanCauseMessage(cause),
			Source:   report.SourceSchema,
		}
		if node, ok := root.Lookup(path); ok {
			finding.Pos = node.Pos
		}
		findings = append(findings, finding)
	}

	// The library walks instance maps, so cause order varies between runs.
	// Sort into document order to keep reports identical across runs.
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		return a.Path.String() < b.Path.String()
	})
	return findings
}

// leafCauses flattens a validation error tree into its leaf causes.
func leafCauses(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}
	return leaves
}

// causeLocationPrefix matches the "at '/some/path': " prefix the jsonschema
// library puts on cause messages. The location is reported separately as the
// finding path, so the prefix is noise.
var causeLocationPrefix = regexp.MustCompile(`^(?:- )?at '[^']*':\s*`)

// cleanCauseMessage extracts a single-line human message from a validation
// cause, dropping the library's location prefix and summary lines.
func cleanCauseMessage(cause *jsonschema.ValidationError) string {
	for _, line := range strings.Split(cause.Error(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "jsonschema validation failed") {
			continue
		}
		return causeLocationPrefix.ReplaceAllString(line, "")
	}
	return "schema validation failed"
}

// jsonRoundTrip normalizes a value through JSON marshaling so that schema
// validation sees the same types a JSON decoder would produce.
func jsonRoundTrip(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}
