// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// validate checks that the final merged [Settings] can be used at startup.
func (s *Settings) validate() error {
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, s.LogLevel)
	}

	if s.ConfigDir != "" {
		info, err := os.Stat(s.ConfigDir)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfigDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrInvalidConfigDir, s.ConfigDir)
		}
	}

	if s.Tracker.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidTrackerSettings, s.Tracker.Timeout)
	}

	return nil
}
