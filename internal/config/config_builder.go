// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"slices"

	"dario.cat/mergo"
)

type settingsBuilder struct {
	configs []*Settings
	err     error
}

func newSettingsBuilder() *settingsBuilder {
	return &settingsBuilder{
		configs: make([]*Settings, 0, 3),
	}
}

// build merges the collected sources in order; a non-zero field of a later
// source overrides the same field of an earlier one.
func (b *settingsBuilder) build() (*Settings, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building settings: %w", b.err)
	}

	settings := new(Settings)
	for _, cfg := range b.configs {
		if err := mergo.Merge(settings, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging settings: %w", err)
		}
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (b *settingsBuilder) withDefaults() *settingsBuilder {
	b.configs = append(b.configs, &Settings{
		LogLevel: DefaultLogLevel,
		Tracker: Tracker{
			Timeout: DefaultTrackerTimeout,
		},
	})
	return b
}

func (b *settingsBuilder) withEnv() *settingsBuilder {
	envCfg := &Settings{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

// withJSON loads the settings file named by an already collected source and
// ranks it directly below that source.
func (b *settingsBuilder) withJSON() *settingsBuilder {
	at := -1
	for i, cfg := range b.configs {
		if cfg.SettingsFile != "" {
			at = i
		}
	}
	if at < 0 {
		return b
	}

	jsonCfg, err := parseJSON(b.configs[at].SettingsFile)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = slices.Insert(b.configs, at, jsonCfg)
	return b
}
