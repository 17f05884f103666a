package bestpractice

import (
	"testing"

	"github.com/conflint/conflint/pkg/config"
	"github.com/conflint/conflint/pkg/report"
)

func parseYAML(t *testing.T, content string) *config.Node {
	t.Helper()
	node, err := config.Parse([]byte(content), config.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	return node
}

func runChecks(t *testing.T, content string) []report.Finding {
	t.Helper()
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	return Run(parseYAML(t, content), catalog)
}

func findingsByRule(findings []report.Finding, rule string) []report.Finding {
	var matched []report.Finding
	for _, f := range findings {
		if f.Rule == rule {
			matched = append(matched, f)
		}
	}
	return matched
}

func TestPlaintextSecrets(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantPaths []string
	}{
		{
			name:      "literal password",
			content:   "database:\n  password: hunter2\n",
			wantPaths: []string{"database.password"},
		},
		{
			name:      "api key substring match",
			content:   "stripe_api_key: sk_live_abc\n",
			wantPaths: []string{"stripe_api_key"},
		},
		{
			name:      "env reference is exempt",
			content:   "password: ${DB_PASSWORD}\n",
			wantPaths: nil,
		},
		{
			name:      "bare dollar reference is exempt",
			content:   "password: $DB_PASSWORD\n",
			wantPaths: nil,
		},
		{
			name:      "template reference is exempt",
			content:   "token: '{{ vault.token }}'\n",
			wantPaths: nil,
		},
		{
			name:      "empty value is not flagged",
			content:   "password: \"\"\n",
			wantPaths: nil,
		},
		{
			name:      "non-string value is not flagged",
			content:   "token: 12345\n",
			wantPaths: nil,
		},
		{
			name:      "unrelated key is not flagged",
			content:   "hostname: hunter2\n",
			wantPaths: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := findingsByRule(runChecks(t, tt.content), RulePlaintextSecret)
			if len(findings) != len(tt.wantPaths) {
				t.Fatalf("got %d findings, want %d: %v", len(findings), len(tt.wantPaths), findings)
			}
			for i, want := range tt.wantPaths {
				if got := findings[i].Path.String(); got != want {
					t.Errorf("findings[%d].Path = %q, want %q", i, got, want)
				}
				if findings[i].Severity != report.SeverityWarning {
					t.Errorf("findings[%d].Severity = %v, want warning", i, findings[i].Severity)
				}
			}
		})
	}
}

func TestInsecureFlags(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantPath    string
		wantMessage string
	}{
		{
			name:        "debug enabled",
			content:     "debug: true\n",
			wantPath:    "debug",
			wantMessage: "insecure setting: debug should be false",
		},
		{
			name:        "ssl verification disabled",
			content:     "http:\n  verify_ssl: false\n",
			wantPath:    "http.verify_ssl",
			wantMessage: "insecure setting: verify_ssl should be true",
		},
		{
			name:        "anonymous access allowed",
			content:     "allow_anonymous: true\n",
			wantPath:    "allow_anonymous",
			wantMessage: "insecure setting: allow_anonymous should be false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := findingsByRule(runChecks(t, tt.content), RuleInsecureFlag)
			if len(findings) != 1 {
				t.Fatalf("got %d findings, want 1: %v", len(findings), findings)
			}
			if got := findings[0].Path.String(); got != tt.wantPath {
				t.Errorf("Path = %q, want %q", got, tt.wantPath)
			}
			if findings[0].Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", findings[0].Message, tt.wantMessage)
			}
		})
	}
}

func TestInsecureFlagsNotFlagged(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "safe value", content: "debug: false\n"},
		{name: "non-boolean value", content: "debug: maybe\n"},
		{name: "unknown flag", content: "verbose: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if findings := findingsByRule(runChecks(t, tt.content), RuleInsecureFlag); len(findings) != 0 {
				t.Errorf("got %d findings, want 0: %v", len(findings), findings)
			}
		})
	}
}

func TestPermissiveValues(t *testing.T) {
	t.Run("scalar wildcard", func(t *testing.T) {
		findings := findingsByRule(runChecks(t, "cors:\n  origin: '*'\n"), RuleAllowAll)
		if len(findings) != 1 {
			t.Fatalf("got %d findings, want 1: %v", len(findings), findings)
		}
		if got := findings[0].Path.String(); got != "cors.origin" {
			t.Errorf("Path = %q, want cors.origin", got)
		}
	})

	t.Run("bind everything host", func(t *testing.T) {
		findings := findingsByRule(runChecks(t, "host: 0.0.0.0\n"), RuleAllowAll)
		if len(findings) != 1 {
			t.Fatalf("got %d findings, want 1: %v", len(findings), findings)
		}
	})

	t.Run("sequence elements carry indexed paths", func(t *testing.T) {
		findings := findingsByRule(runChecks(t, "origins:\n  - https://example.com\n  - '*'\n"), RuleAllowAll)
		if len(findings) != 1 {
			t.Fatalf("got %d findings, want 1: %v", len(findings), findings)
		}
		if got := findings[0].Path.String(); got != "origins[1]" {
			t.Errorf("Path = %q, want origins[1]", got)
		}
	})

	t.Run("wildcard under unrelated key is not flagged", func(t *testing.T) {
		if findings := findingsByRule(runChecks(t, "glob: '*'\n"), RuleAllowAll); len(findings) != 0 {
			t.Errorf("got %d findings, want 0: %v", len(findings), findings)
		}
	})
}

func TestPlaceholderSecrets(t *testing.T) {
	findings := runChecks(t, "api_key: YOUR_API_KEY\n")

	placeholder := findingsByRule(findings, RuleDefaultPlaceholder)
	if len(placeholder) != 1 {
		t.Fatalf("got %d placeholder findings, want 1: %v", len(placeholder), findings)
	}
	if got := placeholder[0].Path.String(); got != "api_key" {
		t.Errorf("Path = %q, want api_key", got)
	}

	// A placeholder is also a plaintext value; both rules report it.
	if plaintext := findingsByRule(findings, RulePlaintextSecret); len(plaintext) != 1 {
		t.Errorf("got %d plaintext findings, want 1", len(plaintext))
	}
}

func TestCheckOrderIsStable(t *testing.T) {
	content := "api_key: changeme\ndebug: true\nhost: 0.0.0.0\n"
	findings := runChecks(t, content)

	wantRules := []string{RulePlaintextSecret, RuleInsecureFlag, RuleAllowAll, RuleDefaultPlaceholder}
	if len(findings) != len(wantRules) {
		t.Fatalf("got %d findings, want %d: %v", len(findings), len(wantRules), findings)
	}
	for i, want := range wantRules {
		if findings[i].Rule != want {
			t.Errorf("findings[%d].Rule = %q, want %q", i, findings[i].Rule, want)
		}
	}
}

func TestFindingsCarryPositions(t *testing.T) {
	findings := runChecks(t, "server:\n  debug: true\n")
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].Pos.Line != 2 {
		t.Errorf("Pos.Line = %d, want 2", findings[0].Pos.Line)
	}
}
