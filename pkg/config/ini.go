package config

import (
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// parseINI parses INI bytes into a node tree. Keys of the default section
// appear at the top level; every named section becomes a nested mapping.
// The INI reader exposes no source positions, so nodes carry none.
func parseINI(data []byte) (*Node, error) {
	file, err := ini.LoadSources(ini.LoadOptions{}, data)
	if err != nil {
		return nil, &ParseError{Format: FormatINI, Msg: err.Error(), Err: err}
	}

	root := &Node{Kind: KindMapping}
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			for _, key := range section.Keys() {
				root.Entries = append(root.Entries, MapEntry{Key: key.Name(), Value: iniScalar(key.Value())})
			}
			continue
		}
		sectionNode := &Node{Kind: KindMapping}
		for _, key := range section.Keys() {
			sectionNode.Entries = append(sectionNode.Entries, MapEntry{Key: key.Name(), Value: iniScalar(key.Value())})
		}
		root.Entries = append(root.Entries, MapEntry{Key: section.Name(), Value: sectionNode})
	}
	return root, nil
}

// iniScalar coerces an INI value string the way YAML would: booleans and
// numbers become typed scalars, everything else stays a string.
func iniScalar(value string) *Node {
	switch strings.ToLower(value) {
	case "true":
		return &Node{Kind: KindScalar, Scalar: ScalarBool, Bool: true}
	case "false":
		return &Node{Kind: KindScalar, Scalar: ScalarBool, Bool: false}
	case "null", "":
		if value == "" {
			return &Node{Kind: KindScalar, Scalar: ScalarString, Str: ""}
		}
		return &Node{Kind: KindScalar, Scalar: ScalarNull}
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return &Node{Kind: KindScalar, Scalar: ScalarInt, Int: i}
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return &Node{Kind: KindScalar, Scalar: ScalarFloat, Float: f}
	}
	return &Node{Kind: KindScalar, Scalar: ScalarString, Str: value}
}
