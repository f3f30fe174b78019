// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// settingsJSON mirrors [Settings] with JSON-friendly duration values.
type settingsJSON struct {
	ConfigDir string `json:"config_dir"`
	LogLevel  string `json:"log_level"`

	Tracker struct {
		DSN     string   `json:"dsn"`
		Timeout Duration `json:"timeout"`
	} `json:"tracker"`
}

func parseJSON(jsonFilePath string) (*Settings, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg settingsJSON
	decoder := json.NewDecoder(jsonFile)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json settings: %w", err)
	}

	return &Settings{
		ConfigDir: jsonCfg.ConfigDir,
		LogLevel:  jsonCfg.LogLevel,
		Tracker: Tracker{
			DSN:     jsonCfg.Tracker.DSN,
			Timeout: time.Duration(jsonCfg.Tracker.Timeout),
		},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as from nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
