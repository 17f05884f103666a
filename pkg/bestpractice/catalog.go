package bestpractice

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var defaultCatalogYAML []byte

// FlagRule names a boolean setting and its recommended safe value.
type FlagRule struct {
	Key  string `yaml:"key"`
	Safe bool   `yaml:"safe"`
}

// Catalog holds the data driving the heuristic checks: which key names look
// like secrets, which boolean flags have a known safe value, which keys are
// access-control-like, and which values count as allow-all or placeholder.
type Catalog struct {
	SecretKeys       []string   `yaml:"secret_keys"`
	InsecureFlags    []FlagRule `yaml:"insecure_flags"`
	PermissiveKeys   []string   `yaml:"permissive_keys"`
	PermissiveValues []string   `yaml:"permissive_values"`
	Placeholders     []string   `yaml:"placeholders"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return parseCatalog(defaultCatalogYAML)
}

// LoadCatalog reads a user-supplied catalog file, replacing the default
// rule set entirely.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule catalog: %w", err)
	}
	catalog, err := parseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule catalog %s: %w", path, err)
	}
	return catalog, nil
}

func parseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}
	// Key and value matching is case-insensitive; normalize once.
	for i, key := range catalog.SecretKeys {
		catalog.SecretKeys[i] = strings.ToLower(key)
	}
	for i, flag := range catalog.InsecureFlags {
		catalog.InsecureFlags[i].Key = strings.ToLower(flag.Key)
	}
	for i, key := range catalog.PermissiveKeys {
		catalog.PermissiveKeys[i] = strings.ToLower(key)
	}
	for i, value := range catalog.Placeholders {
		catalog.Placeholders[i] = strings.ToLower(value)
	}
	return &catalog, nil
}

// isSecretKey reports whether a mapping key looks like it names a secret.
// Matching is by substring so "db_password" and "api_token" qualify.
func (c *Catalog) isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, fragment := range c.SecretKeys {
		if strings.Contains(key, fragment) {
			return true
		}
	}
	return false
}

// flagFor returns the insecure-flag rule for a key, if any.
func (c *Catalog) flagFor(key string) (FlagRule, bool) {
	key = strings.ToLower(key)
	for _, flag := range c.InsecureFlags {
		if flag.Key == key {
			return flag, true
		}
	}
	return FlagRule{}, false
}

// isPermissiveKey reports whether a key is access-control-like.
func (c *Catalog) isPermissiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, candidate := range c.PermissiveKeys {
		if candidate == key {
			return true
		}
	}
	return false
}

// isPermissiveValue reports whether a value counts as allow-all.
func (c *Catalog) isPermissiveValue(value string) bool {
	for _, candidate := range c.PermissiveValues {
		if candidate == value {
			return true
		}
	}
	return false
}

// isPlaceholder reports whether a value is a well-known placeholder.
func (c *Catalog) isPlaceholder(value string) bool {
	value = strings.ToLower(value)
	for _, candidate := range c.Placeholders {
		if candidate == value {
			return true
		}
	}
	return false
}
