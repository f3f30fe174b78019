// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	return &Settings{LogLevel: "info", Tracker: Tracker{Timeout: time.Second}}
}

func TestValidate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr error
	}{
		{name: "valid", mutate: func(*Settings) {}},
		{name: "existing config dir", mutate: func(s *Settings) { s.ConfigDir = t.TempDir() }},
		{name: "unknown level", mutate: func(s *Settings) { s.LogLevel = "chatty" }, wantErr: ErrInvalidLogLevel},
		{name: "missing config dir", mutate: func(s *Settings) { s.ConfigDir = "/does/not/exist" }, wantErr: ErrInvalidConfigDir},
		{name: "config dir is a file", mutate: func(s *Settings) { s.ConfigDir = file }, wantErr: ErrInvalidConfigDir},
		{name: "zero timeout", mutate: func(s *Settings) { s.Tracker.Timeout = 0 }, wantErr: ErrInvalidTrackerSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)

			err := s.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSettingsLevel(t *testing.T) {
	s := &Settings{LogLevel: "warn"}
	assert.Equal(t, zerolog.WarnLevel, s.Level())

	s.LogLevel = "bogus"
	assert.Equal(t, zerolog.InfoLevel, s.Level())
}
