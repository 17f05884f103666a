package config

import (
	"bytes"
	"encoding/json"
)

// parseJSON parses JSON bytes into a node tree. Syntax is checked with
// encoding/json so malformed documents fail with a precise position; the
// tree itself is then built through the YAML AST parser, which accepts all
// JSON and preserves source positions (YAML is a JSON superset).
func parseJSON(data []byte) (*Node, error) {
	// Unlike YAML, an empty document is not valid JSON.
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Format: FormatJSON, Msg: "unexpected end of JSON input"}
	}

	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		line, column := jsonErrorPosition(data, err)
		return nil, &ParseError{Format: FormatJSON, Line: line, Column: column, Msg: firstLine(err.Error()), Err: err}
	}

	node, err := parseYAML(data)
	if err != nil {
		if parseErr, ok := err.(*ParseError); ok {
			parseErr.Format = FormatJSON
		}
		return nil, err
	}
	return node, nil
}

// jsonErrorPosition converts the byte offset of an encoding/json error into
// a 1-based line and column.
func jsonErrorPosition(data []byte, err error) (line int, column int) {
	var offset int64
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
	case *json.UnmarshalTypeError:
		offset = e.Offset
	default:
		return 0, 0
	}
	if offset <= 0 || offset > int64(len(data)) {
		return 0, 0
	}
	before := data[:offset]
	line = bytes.Count(before, []byte{'\n'}) + 1
	if lastNewline := bytes.LastIndexByte(before, '\n'); lastNewline >= 0 {
		column = int(offset) - lastNewline
	} else {
		column = int(offset)
	}
	return line, column
}
