// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/rs/zerolog"
)

// EnvPrefix is prepended to every environment variable read into [Settings].
const EnvPrefix = "CARTESIUS_"

// Default values applied before any other source.
const (
	DefaultLogLevel       = "info"
	DefaultTrackerTimeout = 10 * time.Second
)

// Settings is the top-level container for the process settings of the
// cartesius command.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — environment variable name, relative to [EnvPrefix].
//   - json      — key in the optional JSON settings file.
type Settings struct {
	// ConfigDir replaces the embedded bundled configuration directory with a
	// directory on disk. Empty means the embedded bundle.
	// Env: CARTESIUS_CONFIG_DIR
	ConfigDir string `env:"CONFIG_DIR" json:"config_dir"`

	// LogLevel is a zerolog level name (debug, info, warn, error, ...).
	// Env: CARTESIUS_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL" json:"log_level"`

	// Tracker holds the run registry settings.
	Tracker Tracker `envPrefix:"TRACKER_" json:"tracker"`

	// SettingsFile is the optional path to a JSON settings file. It is only
	// read from the environment.
	// Env: CARTESIUS_SETTINGS_FILE
	SettingsFile string `env:"SETTINGS_FILE" json:"-"`
}

// Tracker holds the run registry settings.
type Tracker struct {
	// DSN selects the registry database: a postgres:// URL, or a SQLite file
	// path. Empty disables run recording.
	// Env: CARTESIUS_TRACKER_DSN
	DSN string `env:"DSN" json:"dsn"`

	// Timeout bounds connecting to the registry and recording one run.
	// Env: CARTESIUS_TRACKER_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT" json:"timeout"`
}

// Level returns the parsed log level. It falls back to info for a value that
// did not pass validation.
func (s *Settings) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// GetSettings loads, merges, and validates the process settings from all
// available sources in the following priority order (last source wins for
// non-zero fields):
//  1. Hardcoded defaults
//  2. JSON settings file (path resolved from the environment)
//  3. Environment variables
func GetSettings() (*Settings, error) {
	return newSettingsBuilder().
		withDefaults().
		withEnv().
		withJSON().
		build()
}
