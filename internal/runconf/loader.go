// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package runconf

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MKhiriev/cartesius/internal/logger"
)

// ParentKey is the reserved key through which a configuration file names the
// file it inherits from.
const ParentKey = "parent_config"

// Resolved is a fully inherited configuration together with the origins of
// the files that produced it, root ancestor first.
type Resolved struct {
	Config *Mapping
	Chain  []string
}

// Loader loads configuration files and resolves their parent_config chains.
// It keeps no state between calls: every Load re-reads every file.
type Loader struct {
	resolver *PathResolver
	logger   *logger.Logger
}

// NewLoader constructs a Loader reading files through resolver. A nil log
// discards output.
func NewLoader(resolver *PathResolver, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{resolver: resolver, logger: log}
}

// Load returns the configuration named name with all of its ancestors merged
// underneath it.
func (l *Loader) Load(name string) (*Mapping, error) {
	res, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// Resolve is Load that also reports the inheritance chain.
//
// Ancestors are merged root first, so every descendant overrides the keys it
// shares with its ancestors and the requested file has the last word. A chain
// that reaches a file already on it fails with [ErrInheritanceCycle]; a
// missing or malformed ancestor fails the whole resolution.
func (l *Loader) Resolve(name string) (*Resolved, error) {
	return l.resolve(name, nil)
}

func (l *Loader) resolve(name string, visiting []string) (*Resolved, error) {
	conf, origin, err := l.resolver.Load(name)
	if err != nil {
		return nil, err
	}

	if slices.Contains(visiting, origin) {
		chain := append(slices.Clone(visiting), origin)
		return nil, fmt.Errorf("%w: %s", ErrInheritanceCycle, strings.Join(chain, " -> "))
	}

	l.logger.Debug().
		Str("name", name).
		Str("origin", origin).
		Int("depth", len(visiting)).
		Msg("loaded configuration file")

	parent, err := parentName(conf, origin)
	if err != nil {
		return nil, err
	}
	if parent == "" {
		return &Resolved{Config: conf, Chain: []string{origin}}, nil
	}

	ancestors, err := l.resolve(parent, append(slices.Clip(visiting), origin))
	if err != nil {
		return nil, fmt.Errorf("resolving parent of %s: %w", origin, err)
	}

	return &Resolved{
		Config: Merge(ancestors.Config, conf),
		Chain:  append(ancestors.Chain, origin),
	}, nil
}

func parentName(conf *Mapping, origin string) (string, error) {
	v, ok := conf.Get(ParentKey)
	if !ok || v == nil {
		return "", nil
	}

	name, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s: %s must be a file name, got %T", ErrMalformedConfig, origin, ParentKey, v)
	}
	return name, nil
}
