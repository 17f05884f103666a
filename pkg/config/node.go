package config

import (
	"strconv"
)

// Kind discriminates the three shapes a configuration value can take.
type Kind int

const (
	KindMapping Kind = iota
	KindSequence
	KindScalar
)

// ScalarType discriminates scalar values within a KindScalar node.
type ScalarType int

const (
	ScalarString ScalarType = iota
	ScalarInt
	ScalarFloat
	ScalarBool
	ScalarNull
)

// Position is a 1-based location in the source document.
// A zero Position means the parser could not provide one (e.g. INI).
type Position struct {
	Line   int
	Column int
}

// IsZero reports whether no source location is available.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// MapEntry is a single key/value pair of a mapping node.
// Entries preserve document order.
type MapEntry struct {
	Key    string
	KeyPos Position
	Value  *Node
}

// Node is a parsed configuration value. Trees are built once by a format
// parser and never mutated afterwards.
type Node struct {
	Kind    Kind
	Entries []MapEntry // KindMapping
	Items   []*Node    // KindSequence

	Scalar ScalarType // KindScalar
	Str    string
	Int    int64
	Float  float64
	Bool   bool

	Pos Position
}

// Get returns the value for key in a mapping node.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != KindMapping {
		return nil, false
	}
	for _, e := range n.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Lookup resolves a path from this node. Keys resolve only against mappings
// and indices only against sequences.
func (n *Node) Lookup(path Path) (*Node, bool) {
	current := n
	for _, step := range path {
		if current == nil {
			return nil, false
		}
		if step.IsIndex {
			if current.Kind != KindSequence || step.Index < 0 || step.Index >= len(current.Items) {
				return nil, false
			}
			current = current.Items[step.Index]
			continue
		}
		value, ok := current.Get(step.Key)
		if !ok {
			return nil, false
		}
		current = value
	}
	return current, current != nil
}

// Walk visits every mapping entry in the subtree depth-first, passing the
// entry's full path. Sequence elements contribute an index step to the path
// of entries nested beneath them.
func (n *Node) Walk(visit func(path Path, entry MapEntry)) {
	n.walk(nil, visit)
}

func (n *Node) walk(path Path, visit func(path Path, entry MapEntry)) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindMapping:
		for _, entry := range n.Entries {
			entryPath := path.Child(entry.Key)
			visit(entryPath, entry)
			entry.Value.walk(entryPath, visit)
		}
	case KindSequence:
		for i, item := range n.Items {
			item.walk(path.Element(i), visit)
		}
	}
}

// TypeName returns the schema-facing type name of the node.
func (n *Node) TypeName() string {
	switch n.Kind {
	case KindMapping:
		return "object"
	case KindSequence:
		return "array"
	default:
		switch n.Scalar {
		case ScalarInt:
			return "integer"
		case ScalarFloat:
			return "number"
		case ScalarBool:
			return "boolean"
		case ScalarNull:
			return "null"
		default:
			return "string"
		}
	}
}

// ScalarString renders a scalar node in its canonical text form.
// Non-scalar nodes render as an empty string.
func (n *Node) ScalarString() string {
	if n == nil || n.Kind != KindScalar {
		return ""
	}
	switch n.Scalar {
	case ScalarInt:
		return strconv.FormatInt(n.Int, 10)
	case ScalarFloat:
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	case ScalarBool:
		return strconv.FormatBool(n.Bool)
	case ScalarNull:
		return "null"
	default:
		return n.Str
	}
}

// Interface converts the subtree into plain Go values (map[string]any,
// []any and scalars) suitable for JSON marshaling and schema validation.
// Duplicate mapping keys keep the last value, matching JSON semantics.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindMapping:
		m := make(map[string]any, len(n.Entries))
		for _, e := range n.Entries {
			m[e.Key] = e.Value.Interface()
		}
		return m
	case KindSequence:
		s := make([]any, 0, len(n.Items))
		for _, item := range n.Items {
			s = append(s, item.Interface())
		}
		return s
	default:
		switch n.Scalar {
		case ScalarInt:
			return n.Int
		case ScalarFloat:
			return n.Float
		case ScalarBool:
			return n.Bool
		case ScalarNull:
			return nil
		default:
			return n.Str
		}
	}
}
