package schema

import (
	"testing"

	"github.com/conflint/conflint/pkg/report"
)

const testJSONSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["port"],
  "properties": {
    "port": {"type": "integer"},
    "mode": {"enum": ["fast", "safe"]}
  }
}`

func loadJSONSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := Load(writeFile(t, "schema.json", testJSONSchema))
	if err != nil {
		t.Fatal(err)
	}
	if s.Dialect != DialectJSONSchema {
		t.Fatalf("Dialect = %v, want json-schema", s.Dialect)
	}
	return s
}

func TestJSONSchemaValidDocument(t *testing.T) {
	s := loadJSONSchema(t)
	findings := s.Validate(parseYAML(t, "port: 8080\nmode: fast\n"))
	if len(findings) != 0 {
		t.Errorf("got %d findings, want 0: %v", len(findings), findings)
	}
}

func TestJSONSchemaTypeViolation(t *testing.T) {
	s := loadJSONSchema(t)
	findings := s.Validate(parseYAML(t, `port: "8080"`))
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(findings), findings)
	}
	f := findings[0]
	if f.Severity != report.SeverityError {
		t.Errorf("severity = %v, want error", f.Severity)
	}
	if f.Source != report.SourceSchema {
		t.Errorf("source = %v, want schema", f.Source)
	}
	if f.Path.String() != "port" {
		t.Errorf("path = %q, want port", f.Path)
	}
	if f.Message == "" {
		t.Error("message is empty")
	}
	if f.Pos.IsZero() {
		t.Error("position not resolved for existing node")
	}
}

func TestJSONSchemaMissingRequired(t *testing.T) {
	s := loadJSONSchema(t)
	findings := s.Validate(parseYAML(t, "mode: safe\n"))
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(findings), findings)
	}
	if findings[0].Severity != report.SeverityError {
		t.Errorf("severity = %v, want error", findings[0].Severity)
	}
	if findings[0].Message == "" {
		t.Error("message is empty")
	}
}

func TestJSONSchemaFindingOrderIsStable(t *testing.T) {
	schemaDoc := `{
  "type": "object",
  "properties": {
    "a": {"type": "integer"},
    "b": {"type": "integer"},
    "c": {"type": "integer"},
    "d": {"type": "integer"},
    "e": {"type": "integer"}
  }
}`
	s, err := Load(writeFile(t, "schema.json", schemaDoc))
	if err != nil {
		t.Fatal(err)
	}
	root := parseYAML(t, "a: x\nb: x\nc: x\nd: x\ne: x\n")

	want := []string{"a", "b", "c", "d", "e"}
	for run := 0; run < 50; run++ {
		findings := s.Validate(root)
		if len(findings) != len(want) {
			t.Fatalf("run %d: got %d findings, want %d: %v", run, len(findings), len(want), findings)
		}
		for i, path := range want {
			if got := findings[i].Path.String(); got != path {
				t.Fatalf("run %d: findings[%d].Path = %q, want %q (document order)", run, i, got, path)
			}
		}
	}
}

func TestJSONSchemaNumericStringKey(t *testing.T) {
	schemaDoc := `{
  "type": "object",
  "properties": {
    "80": {"type": "integer"}
  }
}`
	s, err := Load(writeFile(t, "schema.json", schemaDoc))
	if err != nil {
		t.Fatal(err)
	}
	findings := s.Validate(parseYAML(t, `"80": http`))
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(findings), findings)
	}
	f := findings[0]
	// The path is the object key "80", not a sequence index [80].
	if got := f.Path.String(); got != "80" {
		t.Errorf("path = %q, want 80", got)
	}
	if f.Pos.IsZero() {
		t.Error("position not resolved for existing node")
	}
}

func TestJSONSchemaCompileError(t *testing.T) {
	_, err := Load(writeFile(t, "schema.json", `{"type": "object", "properties": {"x": {"type": 12}}}`))
	if err == nil {
		t.Fatal("expected compile error")
	}
}

func TestCleanCauseMessageStripsLocation(t *testing.T) {
	s := loadJSONSchema(t)
	findings := s.Validate(parseYAML(t, `port: "8080"`))
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	msg := findings[0].Message
	if len(msg) > 0 && msg[0] == '-' {
		t.Errorf("message still carries list marker: %q", msg)
	}
}
