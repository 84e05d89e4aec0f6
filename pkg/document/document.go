// Package document parses YAML files into an order-preserving tree and
// rejects duplicate mapping keys at any nesting level. Duplicate keys are a
// hard parse error: a parameter file that silently clobbers an earlier key
// is exactly the bug this tool exists to catch.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument signals a file that parses to an absent or null root.
// Callers report it as an issue, not a crash.
var ErrEmptyDocument = errors.New("YAML file is empty")

// ParseError describes a syntax or structural problem in a YAML document.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Mapping is a YAML mapping node. Keys are semantically unordered but
// insertion order is preserved so tree walks and issue output stay
// deterministic.
type Mapping struct {
	keys   []string
	values map[string]any
}

// Len returns the number of keys.
func (m *Mapping) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string { return m.keys }

// Get returns the value for key and whether it is present.
func (m *Mapping) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Interface converts the tree rooted at m into plain map[string]any /
// []any values, the shape the JSON Schema evaluator expects.
func (m *Mapping) Interface() any {
	return toInterface(m)
}

func toInterface(v any) any {
	switch t := v.(type) {
	case *Mapping:
		out := make(map[string]any, len(t.keys))
		for _, k := range t.keys {
			out[k] = toInterface(t.values[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toInterface(e)
		}
		return out
	default:
		return v
	}
}

// Interface converts any document tree into plain map/slice/scalar values.
func Interface(root any) any {
	return toInterface(root)
}

// ParseFile reads and parses path. See Parse.
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML content into a tree of *Mapping, []any and scalar
// values (string, int, float64, bool, nil). It returns ErrEmptyDocument for
// an absent or null root and *ParseError for syntax problems, duplicate
// mapping keys or multi-document streams. A stream with more than one
// document is rejected outright: anything after the first separator would
// otherwise escape every check.
func Parse(data []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, &ParseError{Message: err.Error()}
	}

	var extra yaml.Node
	switch err := dec.Decode(&extra); {
	case err == nil:
		return nil, &ParseError{
			Line:    extra.Line,
			Column:  extra.Column,
			Message: "expected a single document in the stream",
		}
	case !errors.Is(err, io.EOF):
		return nil, &ParseError{Message: err.Error()}
	}

	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, ErrEmptyDocument
	}
	tree, err := build(root.Content[0])
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, ErrEmptyDocument
	}
	return tree, nil
}

func build(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		m := &Mapping{values: make(map[string]any, len(n.Content)/2)}
		firstLine := make(map[string]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				// Complex keys have no Value to compare duplicates on, and
				// nothing in the launch/config formats uses them.
				return nil, &ParseError{
					Line:    keyNode.Line,
					Column:  keyNode.Column,
					Message: "mapping key is not a scalar",
				}
			}
			key := keyNode.Value
			if prev, dup := firstLine[key]; dup {
				return nil, &ParseError{
					Line:    keyNode.Line,
					Column:  keyNode.Column,
					Message: fmt.Sprintf("duplicate key %q (first defined at line %d)", key, prev),
				}
			}
			firstLine[key] = keyNode.Line
			val, err := build(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.keys = append(m.keys, key)
			m.values[key] = val
		}
		return m, nil
	case yaml.SequenceNode:
		seq := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := build(c)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, &ParseError{
				Line:    n.Line,
				Column:  n.Column,
				Message: fmt.Sprintf("bad scalar: %v", err),
			}
		}
		return v, nil
	case yaml.AliasNode:
		return build(n.Alias)
	default:
		return nil, &ParseError{
			Line:    n.Line,
			Column:  n.Column,
			Message: fmt.Sprintf("unsupported YAML node kind %d", n.Kind),
		}
	}
}

// Strings collects every string scalar in the tree, depth-first in document
// order.
func Strings(root any) []string {
	var out []string
	walkStrings(root, &out)
	return out
}

func walkStrings(v any, out *[]string) {
	switch t := v.(type) {
	case *Mapping:
		for _, k := range t.keys {
			walkStrings(t.values[k], out)
		}
	case []any:
		for _, e := range t {
			walkStrings(e, out)
		}
	case string:
		*out = append(*out, t)
	}
}

// ContainsKey reports whether any mapping at any depth, including mappings
// nested inside sequences, has the given key.
func ContainsKey(root any, key string) bool {
	switch t := root.(type) {
	case *Mapping:
		if t.Has(key) {
			return true
		}
		for _, k := range t.keys {
			if ContainsKey(t.values[k], key) {
				return true
			}
		}
	case []any:
		for _, e := range t {
			if ContainsKey(e, key) {
				return true
			}
		}
	}
	return false
}
