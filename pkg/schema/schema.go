package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conflint/conflint/pkg/config"
	"github.com/conflint/conflint/pkg/report"
)

// Dialect identifies how a schema document is interpreted.
type Dialect int

const (
	// DialectRules is the rule-table form: each top-level key is a field
	// path mapped to {required, type, enum, min, max}.
	DialectRules Dialect = iota
	// DialectJSONSchema is a standard JSON Schema document, recognized by a
	// top-level $schema, a string-valued type, or a properties mapping.
	DialectJSONSchema
)

// LoadError is returned when a schema document cannot be read, parsed, or
// compiled. Schema load failures are fatal and occur before the target file
// contributes any findings.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Schema is a loaded, ready-to-apply schema document.
type Schema struct {
	Path    string
	Dialect Dialect

	rules    RuleSet
	compiled compiledSchema
}

// Load reads and compiles the schema document at path. Schema files may be
// YAML or JSON; the format is inferred from the extension and defaults to
// JSON.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	format := config.FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = config.FormatYAML
	}

	doc, err := config.Parse(data, format)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if doc.Kind != config.KindMapping {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("schema document must be a mapping, got %s", doc.TypeName())}
	}

	s := &Schema{Path: path}
	if isJSONSchemaDocument(doc) {
		s.Dialect = DialectJSONSchema
		s.compiled, err = compileJSONSchema(doc)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		return s, nil
	}

	s.Dialect = DialectRules
	s.rules, err = parseRuleSet(doc)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return s, nil
}

// isJSONSchemaDocument detects whether a mapping looks like a JSON Schema
// rather than a rule table.
func isJSONSchemaDocument(doc *config.Node) bool {
	if _, ok := doc.Get("$schema"); ok {
		return true
	}
	if t, ok := doc.Get("type"); ok && t.Kind == config.KindScalar && t.Scalar == config.ScalarString {
		return true
	}
	if props, ok := doc.Get("properties"); ok && props.Kind == config.KindMapping {
		return true
	}
	return false
}

// Validate checks the configuration tree against the schema and returns the
// resulting findings in deterministic order. A nil schema (no schema file
// supplied) contributes no findings: well-formedness is already guaranteed
// by the loader.
func (s *Schema) Validate(root *config.Node) []report.Finding {
	if s == nil {
		return nil
	}
	if s.Dialect == DialectJSONSchema {
		return s.validateCompiled(root)
	}
	return s.rules.validate(root)
}
