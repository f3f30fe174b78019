// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [Settings.validate] when the merged settings
// are unusable.
var (
	// ErrInvalidLogLevel indicates a log level zerolog does not know.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfigDir indicates that the configured bundled
	// configuration directory does not exist or is not a directory.
	ErrInvalidConfigDir = errors.New("invalid configuration directory")
	// ErrInvalidTrackerSettings indicates invalid run tracker settings
	// (for example, a non-positive timeout).
	ErrInvalidTrackerSettings = errors.New("invalid tracker settings")
)
