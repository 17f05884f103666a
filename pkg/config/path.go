package config

import (
	"regexp"
	"strconv"
	"strings"
)

// Step is one segment of a Path: either a mapping key or a sequence index.
type Step struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path addresses a node within a configuration tree.
type Path []Step

// Child returns a new path extended with a mapping key.
func (p Path) Child(key string) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, Step{Key: key})
}

// Element returns a new path extended with a sequence index.
func (p Path) Element(index int) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, Step{Index: index, IsIndex: true})
}

// String renders the path in dotted form with bracketed indices,
// e.g. "server.hosts[0]". The empty path renders as "".
func (p Path) String() string {
	var sb strings.Builder
	for _, step := range p {
		if step.IsIndex {
			sb.WriteString("[" + strconv.Itoa(step.Index) + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(step.Key)
	}
	return sb.String()
}

// pathPattern splits dotted paths with bracketed indices,
// e.g. "server.hosts[0].name" -> "server", "hosts", "[0]", "name".
var pathPattern = regexp.MustCompile(`([^.\[\]]+)|\[([^\]]+)\]`)

// ParsePath parses a dotted path expression into a Path. Bracketed segments
// holding an integer become sequence indices; anything else is a key.
func ParsePath(expr string) Path {
	var path Path
	for _, match := range pathPattern.FindAllStringSubmatch(expr, -1) {
		switch {
		case match[1] != "":
			path = append(path, Step{Key: match[1]})
		case match[2] != "":
			if index, err := strconv.Atoi(match[2]); err == nil {
				path = append(path, Step{Index: index, IsIndex: true})
			} else {
				path = append(path, Step{Key: match[2]})
			}
		}
	}
	return path
}

// FromPointer converts JSON pointer style segments (as produced by
// jsonschema instance locations) into a Path, resolving against the tree.
// A digit segment becomes a sequence index only when the node it applies to
// is a sequence; objects with numeric string keys keep key steps.
func FromPointer(root *Node, segments []string) Path {
	path := make(Path, 0, len(segments))
	current := root
	for _, segment := range segments {
		if current != nil && current.Kind == KindSequence {
			if index, err := strconv.Atoi(segment); err == nil {
				path = append(path, Step{Index: index, IsIndex: true})
				if index >= 0 && index < len(current.Items) {
					current = current.Items[index]
				} else {
					current = nil
				}
				continue
			}
		}
		path = append(path, Step{Key: segment})
		if current == nil {
			continue
		}
		if next, ok := current.Get(segment); ok {
			current = next
		} else {
			current = nil
		}
	}
	return path
}
