// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package runconf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Mapping is an ordered, string-keyed configuration tree.
//
// Values are scalars (string, bool, int, float64, nil), nested *Mapping
// values, or []any sequences of those. Keys keep the order in which they were
// first set, so a mapping decoded from YAML re-encodes in document order.
//
// A Mapping returned by [Merge], [ParseYAML], [ParseArgs] or the loaders is
// owned by the caller and shares no mutable state with its inputs.
type Mapping struct {
	keys   []string
	values map[string]any
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]any)}
}

// Set stores value under key. A new key is appended to the key order; an
// existing key keeps its position.
func (m *Mapping) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored directly under key.
func (m *Mapping) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Len returns the number of top-level keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Lookup walks a dotted path ("optimizer.lr") through nested mappings.
func (m *Mapping) Lookup(path string) (any, bool) {
	cur := m
	parts := strings.Split(path, ".")
	for i, part := range parts {
		v, ok := cur.Get(part)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(*Mapping)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// GetString looks up path and reports whether it holds a string.
func (m *Mapping) GetString(path string) (string, bool) {
	v, ok := m.Lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetBool looks up path and reports whether it holds a bool.
func (m *Mapping) GetBool(path string) (bool, bool) {
	v, ok := m.Lookup(path)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Clone returns a deep copy of m.
func (m *Mapping) Clone() *Mapping {
	out := NewMapping()
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		out.Set(k, cloneValue(m.values[k]))
	}
	return out
}

// ToMap converts m into plain nested map[string]any / []any values.
func (m *Mapping) ToMap() map[string]any {
	out := make(map[string]any, m.Len())
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		out[k] = plainValue(m.values[k])
	}
	return out
}

// MarshalJSON encodes m as a JSON object with keys in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, k := range m.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(m.values[k])
			if err != nil {
				return nil, fmt.Errorf("encoding %q: %w", k, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Merge combines mappings left to right into a new Mapping. On a key conflict
// the right-hand value wins; when both sides hold a mapping they are merged
// recursively. Sequences are replaced as a whole. Nil arguments are skipped
// and no argument is modified.
func Merge(mappings ...*Mapping) *Mapping {
	out := NewMapping()
	for _, m := range mappings {
		mergeInto(out, m)
	}
	return out
}

// mergeInto folds src into dst. dst must own every nested mapping it holds.
func mergeInto(dst, src *Mapping) {
	if src == nil {
		return
	}
	for _, k := range src.keys {
		sv := src.values[k]
		if sm, ok := sv.(*Mapping); ok {
			if dm, ok := dst.values[k].(*Mapping); ok {
				mergeInto(dm, sm)
				continue
			}
		}
		dst.Set(k, cloneValue(sv))
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Mapping:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *Mapping:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}
