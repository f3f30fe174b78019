// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package runconf

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/cartesius/internal/config"
	"github.com/MKhiriev/cartesius/internal/logger"
)

const (
	// ConfigKey selects the configuration file to load.
	ConfigKey = "config"

	// DefaultConfigName is loaded when no override names another file.
	DefaultConfigName = "default.yaml"
)

// DefaultMapping returns the built-in defaults, the lowest-priority source.
func DefaultMapping() *Mapping {
	m := NewMapping()
	m.Set(ConfigKey, DefaultConfigName)
	return m
}

// Builder produces the final run configuration from the built-in defaults,
// the file-resolved configuration and command-line overrides.
type Builder struct {
	loader *Loader
	logger *logger.Logger
}

// NewBuilder constructs a Builder loading files through loader. A nil log
// discards output.
func NewBuilder(loader *Loader, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{loader: loader, logger: log}
}

// Build resolves the run configuration for args (without the program name).
//
// The file to load is read from the "config" key of the defaults merged with
// the overrides, so "config=other.yaml" switches files. The result is
// Merge(defaults, file, overrides): overrides beat the file, the file beats
// the defaults.
func (b *Builder) Build(args []string) (*Mapping, error) {
	res, err := b.BuildResolved(args)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// BuildResolved is Build that also reports the file inheritance chain.
func (b *Builder) BuildResolved(args []string) (*Resolved, error) {
	res, err := newRunConfigBuilder(b.loader).
		withDefaults().
		withArgs(args).
		withFile().
		build()
	if err != nil {
		return nil, err
	}

	b.logger.Debug().Strs("chain", res.Chain).Msg("run configuration resolved")
	return res, nil
}

// LoadConf resolves the run configuration for args using the standard
// lookup locations derived from settings.
func LoadConf(args []string, settings *config.Settings, log *logger.Logger) (*Resolved, error) {
	resolver := NewPathResolver(DefaultCandidates(settings.ConfigDir)...)
	return NewBuilder(NewLoader(resolver, log), log).BuildResolved(args)
}

type runConfigBuilder struct {
	loader *Loader

	defaults *Mapping
	cli      *Mapping
	file     *Mapping
	chain    []string

	err error
}

func newRunConfigBuilder(loader *Loader) *runConfigBuilder {
	return &runConfigBuilder{loader: loader}
}

func (b *runConfigBuilder) build() (*Resolved, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building run config: %w", b.err)
	}

	return &Resolved{
		Config: Merge(b.defaults, b.file, b.cli),
		Chain:  b.chain,
	}, nil
}

func (b *runConfigBuilder) withDefaults() *runConfigBuilder {
	b.defaults = DefaultMapping()
	return b
}

func (b *runConfigBuilder) withArgs(args []string) *runConfigBuilder {
	cli, err := ParseArgs(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.cli = cli
	return b
}

func (b *runConfigBuilder) withFile() *runConfigBuilder {
	// the file name may come from the overrides, which failed to parse
	if b.err != nil {
		return b
	}

	name, err := configName(Merge(b.defaults, b.cli))
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	res, err := b.loader.Resolve(name)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.file = res.Config
	b.chain = res.Chain
	return b
}

func configName(m *Mapping) (string, error) {
	v, _ := m.Get(ConfigKey)
	name, ok := v.(string)
	if !ok || name == "" {
		return "", fmt.Errorf("%w: %s must name a configuration file, got %v", ErrMalformedConfig, ConfigKey, v)
	}
	return name, nil
}
