// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package runconf

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseArgs turns command-line override tokens into a Mapping.
//
// Every token has its leading '-' characters stripped, so "--lr=0.1", "-lr=0.1"
// and "lr=0.1" are equivalent. The key is a dotted path ("optimizer.lr")
// that produces nested mappings; the value is read as a YAML flow value, so
// "3" is an int, "true" a bool, "[1, 2]" a sequence and an empty value null.
// Later tokens override earlier ones.
//
// args must not include the program name. ParseArgs does not read or modify
// any process-wide state.
func ParseArgs(args []string) (*Mapping, error) {
	out := NewMapping()
	for _, arg := range args {
		token := strings.TrimLeft(arg, "-")
		key, raw, ok := strings.Cut(token, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q: expected key=value", ErrInvalidArgument, arg)
		}

		value, err := parseArgValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidArgument, arg, err)
		}
		if err := setPath(out, key, value); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidArgument, arg, err)
		}
	}
	return out, nil
}

func parseArgValue(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	return valueFromNode(doc.Content[0])
}

func setPath(m *Mapping, path string, value any) error {
	parts := strings.Split(path, ".")
	for _, part := range parts {
		if part == "" {
			return fmt.Errorf("empty segment in key %q", path)
		}
	}

	cur := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur.values[part].(*Mapping)
		if !ok {
			next = NewMapping()
			cur.Set(part, next)
		}
		cur = next
	}
	cur.Set(parts[len(parts)-1], value)
	return nil
}
