package config

import (
	"fmt"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// parseYAML parses YAML bytes into a node tree using the goccy AST so that
// every node carries its source position.
func parseYAML(data []byte) (*Node, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		line, column, msg := extractYAMLErrorPosition(err)
		return nil, &ParseError{Format: FormatYAML, Line: line, Column: column, Msg: msg, Err: err}
	}
	if file == nil || len(file.Docs) == 0 || file.Docs[0].Body == nil {
		// Empty document parses as null.
		return &Node{Kind: KindScalar, Scalar: ScalarNull}, nil
	}

	builder := &yamlBuilder{anchors: make(map[string]*Node)}
	node, err := builder.build(file.Docs[0].Body)
	if err != nil {
		return nil, &ParseError{Format: FormatYAML, Msg: err.Error(), Err: err}
	}
	return node, nil
}

// yamlBuilder converts goccy AST nodes into config nodes, resolving
// anchors and aliases along the way.
type yamlBuilder struct {
	anchors map[string]*Node
}

func (b *yamlBuilder) build(n ast.Node) (*Node, error) {
	switch v := n.(type) {
	case *ast.MappingNode:
		node := &Node{Kind: KindMapping, Pos: nodePosition(v)}
		for _, pair := range v.Values {
			entry, err := b.buildEntry(pair)
			if err != nil {
				return nil, err
			}
			node.Entries = append(node.Entries, entry)
		}
		return node, nil

	case *ast.MappingValueNode:
		// A mapping with a single pair parses to a bare MappingValueNode.
		entry, err := b.buildEntry(v)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindMapping, Entries: []MapEntry{entry}, Pos: nodePosition(v)}, nil

	case *ast.SequenceNode:
		node := &Node{Kind: KindSequence, Pos: nodePosition(v)}
		for _, item := range v.Values {
			child, err := b.build(item)
			if err != nil {
				return nil, err
			}
			node.Items = append(node.Items, child)
		}
		return node, nil

	case *ast.StringNode:
		return &Node{Kind: KindScalar, Scalar: ScalarString, Str: v.Value, Pos: nodePosition(v)}, nil

	case *ast.LiteralNode:
		value := ""
		if v.Value != nil {
			value = v.Value.Value
		}
		return &Node{Kind: KindScalar, Scalar: ScalarString, Str: value, Pos: nodePosition(v)}, nil

	case *ast.IntegerNode:
		node := &Node{Kind: KindScalar, Scalar: ScalarInt, Pos: nodePosition(v)}
		switch i := v.Value.(type) {
		case int64:
			node.Int = i
		case uint64:
			node.Int = int64(i)
		case int:
			node.Int = int64(i)
		default:
			return nil, fmt.Errorf("unexpected integer representation %T", v.Value)
		}
		return node, nil

	case *ast.FloatNode:
		return &Node{Kind: KindScalar, Scalar: ScalarFloat, Float: v.Value, Pos: nodePosition(v)}, nil

	case *ast.BoolNode:
		return &Node{Kind: KindScalar, Scalar: ScalarBool, Bool: v.Value, Pos: nodePosition(v)}, nil

	case *ast.NullNode:
		return &Node{Kind: KindScalar, Scalar: ScalarNull, Pos: nodePosition(v)}, nil

	case *ast.AnchorNode:
		child, err := b.build(v.Value)
		if err != nil {
			return nil, err
		}
		if name, ok := v.Name.(*ast.StringNode); ok {
			b.anchors[name.Value] = child
		}
		return child, nil

	case *ast.AliasNode:
		name, ok := v.Value.(*ast.StringNode)
		if !ok {
			return nil, fmt.Errorf("malformed alias node")
		}
		target, ok := b.anchors[name.Value]
		if !ok {
			return nil, fmt.Errorf("unknown anchor '%s'", name.Value)
		}
		return target, nil

	case *ast.TagNode:
		return b.build(v.Value)

	default:
		return nil, fmt.Errorf("unsupported YAML construct %T", n)
	}
}

func (b *yamlBuilder) buildEntry(pair *ast.MappingValueNode) (MapEntry, error) {
	key := yamlKeyString(pair.Key)
	value, err := b.build(pair.Value)
	if err != nil {
		return MapEntry{}, err
	}
	return MapEntry{Key: key, KeyPos: nodePosition(pair.Key), Value: value}, nil
}

// yamlKeyString extracts the textual form of a mapping key.
func yamlKeyString(n ast.Node) string {
	switch v := n.(type) {
	case *ast.StringNode:
		return v.Value
	case *ast.IntegerNode:
		return fmt.Sprintf("%v", v.Value)
	case *ast.FloatNode:
		return fmt.Sprintf("%g", v.Value)
	case *ast.BoolNode:
		return fmt.Sprintf("%t", v.Value)
	case *ast.NullNode:
		return "null"
	default:
		if tok := n.GetToken(); tok != nil {
			return tok.Value
		}
		return ""
	}
}

// nodePosition reads the source position from an AST node's token.
func nodePosition(n ast.Node) Position {
	tok := n.GetToken()
	if tok == nil || tok.Position == nil {
		return Position{}
	}
	return Position{Line: tok.Position.Line, Column: tok.Position.Column}
}
