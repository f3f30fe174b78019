// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package runconf

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	mergeTag     = "!!merge"
	timestampTag = "!!timestamp"
)

// ParseYAML decodes a configuration document into a Mapping, keeping the
// document's key order. An empty document yields an empty Mapping; any other
// top-level node that is not a mapping is rejected with [ErrMalformedConfig].
func ParseYAML(data []byte) (*Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConfig, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return NewMapping(), nil
	}

	root := doc.Content[0]
	for root.Kind == yaml.AliasNode {
		root = root.Alias
	}
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return NewMapping(), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping, got %s", ErrMalformedConfig, root.Tag)
	}

	return mappingFromNode(root)
}

// WriteYAML writes m to w as a YAML document indented by two spaces.
func WriteYAML(w io.Writer, m *Mapping) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

// FormatYAML is WriteYAML into a byte slice.
func FormatYAML(m *Mapping) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler and emits keys in insertion order.
func (m *Mapping) MarshalYAML() (any, error) {
	return m.node()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	for node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: expected a mapping at line %d, got %s", ErrMalformedConfig, node.Line, node.Tag)
	}

	decoded, err := mappingFromNode(node)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

func (m *Mapping) node() (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if m == nil {
		return n, nil
	}
	for _, k := range m.keys {
		vn, err := valueNode(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", k, err)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, vn)
	}
	return n, nil
}

func valueNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Mapping:
		return t.node()
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			in, err := valueNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, in)
		}
		return seq, nil
	case string:
		// a date-like string is written back plain, as it was read
		plain := &yaml.Node{Kind: yaml.ScalarNode, Value: t}
		if plain.ShortTag() == timestampTag {
			plain.Tag = timestampTag
			return plain, nil
		}
		n := new(yaml.Node)
		if err := n.Encode(t); err != nil {
			return nil, err
		}
		return n, nil
	default:
		n := new(yaml.Node)
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

func mappingFromNode(n *yaml.Node) (*Mapping, error) {
	own := NewMapping()
	var inherited []*Mapping

	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]
		if kn.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: non-scalar key at line %d", ErrMalformedConfig, kn.Line)
		}

		if kn.Tag == mergeTag {
			merged, err := mergeKeySources(vn)
			if err != nil {
				return nil, err
			}
			inherited = append(inherited, merged...)
			continue
		}

		v, err := valueFromNode(vn)
		if err != nil {
			return nil, err
		}
		own.Set(kn.Value, v)
	}

	if len(inherited) == 0 {
		return own, nil
	}

	// earlier merge sources take precedence over later ones, explicit keys over all
	base := NewMapping()
	for i := len(inherited) - 1; i >= 0; i-- {
		base = Merge(base, inherited[i])
	}
	return Merge(base, own), nil
}

func mergeKeySources(n *yaml.Node) ([]*Mapping, error) {
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		m, err := mappingFromNode(n)
		if err != nil {
			return nil, err
		}
		return []*Mapping{m}, nil
	case yaml.SequenceNode:
		var out []*Mapping
		for _, item := range n.Content {
			ms, err := mergeKeySources(item)
			if err != nil {
				return nil, err
			}
			out = append(out, ms...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: merge key at line %d must reference a mapping", ErrMalformedConfig, n.Line)
	}
}

func valueFromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return valueFromNode(n.Alias)
	case yaml.MappingNode:
		return mappingFromNode(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := valueFromNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		// dates stay text: the value model has no time type
		if n.ShortTag() == timestampTag {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedConfig, n.Line, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: unexpected node at line %d", ErrMalformedConfig, n.Line)
	}
}
