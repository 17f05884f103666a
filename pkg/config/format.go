package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a supported configuration file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatINI  Format = "ini"
)

// UnknownFormatError is returned when a file's format can neither be
// inferred from its extension nor was given explicitly.
type UnknownFormatError struct {
	Path   string
	Format string // the rejected explicit format, empty when inference failed
}

func (e *UnknownFormatError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("unsupported format '%s' (must be yaml, json, or ini)", e.Format)
	}
	return fmt.Sprintf("could not determine format of %s from its extension, specify one with --format", e.Path)
}

// ParseError is returned when a configuration document is syntactically
// malformed. Line and Column are 1-based and zero when the underlying
// parser provides no position.
type ParseError struct {
	Path   string
	Format Format
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s as %s at line %d, column %d: %s", e.Path, e.Format, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("failed to parse %s as %s: %s", e.Path, e.Format, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// parsers maps each supported format to its parsing function.
var parsers = map[Format]func([]byte) (*Node, error){
	FormatYAML: parseYAML,
	FormatJSON: parseJSON,
	FormatINI:  parseINI,
}

// extensions maps known file extensions to formats.
var extensions = map[string]Format{
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatJSON,
	".ini":  FormatINI,
}

// Detect resolves the format for path. An explicit override wins; otherwise
// the format is inferred from the file extension.
func Detect(path, override string) (Format, error) {
	if override != "" {
		format := Format(strings.ToLower(override))
		if _, ok := parsers[format]; !ok {
			return "", &UnknownFormatError{Path: path, Format: override}
		}
		return format, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if format, ok := extensions[ext]; ok {
		return format, nil
	}
	return "", &UnknownFormatError{Path: path}
}

// Load reads and parses the configuration file at path.
func Load(path string, format Format) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	node, err := Parse(data, format)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = path
		}
		return nil, err
	}
	return node, nil
}

// Parse parses raw document bytes in the given format into a node tree.
func Parse(data []byte, format Format) (*Node, error) {
	parse, ok := parsers[format]
	if !ok {
		return nil, &UnknownFormatError{Format: string(format)}
	}
	return parse(data)
}
