// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/cartesius/internal/checkpoint"
	"github.com/MKhiriev/cartesius/internal/config"
	"github.com/MKhiriev/cartesius/internal/logger"
	"github.com/MKhiriev/cartesius/internal/runconf"
	"github.com/MKhiriev/cartesius/internal/tracker"
)

func TestRunPrintsResolvedConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	var out bytes.Buffer

	err := run(context.Background(), []string{"--config=tiny.yaml", "seed=3"}, &config.Settings{}, &out, logger.Nop())
	require.NoError(t, err)

	conf, err := runconf.ParseYAML(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "tiny.yaml", conf.ToMap()["config"])
	assert.Equal(t, "transformer-tiny", conf.ToMap()["model_name"])
	assert.Equal(t, 3, conf.ToMap()["seed"])
	assert.Equal(t, "config", conf.Keys()[0])
}

func TestRunFailsOnMissingConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	var out bytes.Buffer

	err := run(context.Background(), []string{"config=missing.yaml"}, &config.Settings{}, &out, logger.Nop())
	assert.ErrorIs(t, err, runconf.ErrConfigNotFound)
	assert.Zero(t, out.Len())
}

func TestRunLoadsEncoderCheckpoint(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	f, err := os.Create(filepath.Join(dir, "enc.ckpt"))
	require.NoError(t, err)
	require.NoError(t, checkpoint.Encode(f, map[string]any{"encoder.w": 1.5}, checkpoint.CompressionLZ4))
	require.NoError(t, f.Close())

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"encoder_ckpt=enc.ckpt"}, &config.Settings{}, &out, logger.Nop()))

	err = run(context.Background(), []string{"encoder_ckpt=gone.ckpt"}, &config.Settings{}, &out, logger.Nop())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunRecordsRun(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dsn := filepath.Join(dir, "runs.db")
	settings := &config.Settings{Tracker: config.Tracker{DSN: dsn, Timeout: 10 * time.Second}}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"config=test_only.yaml"}, settings, &out, logger.Nop()))

	db, err := tracker.Open(context.Background(), dsn, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	runs, err := tracker.NewRunRepository(db, logger.Nop()).ListRunsByTag(context.Background(), runconf.TestOnlyTag)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "test_only.yaml", runs[0].ConfigName)
	assert.Equal(t, []string{"bundled:default.yaml", "bundled:test_only.yaml"}, runs[0].Chain)
	assert.Equal(t, out.String(), runs[0].Config)
}

func TestRunRecordsEveryInvocation(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dsn := filepath.Join(dir, "runs.db")
	settings := &config.Settings{Tracker: config.Tracker{DSN: dsn, Timeout: 10 * time.Second}}

	for range 2 {
		var out bytes.Buffer
		require.NoError(t, run(context.Background(), []string{"config=graph.yaml"}, settings, &out, logger.Nop()))
	}

	db, err := tracker.Open(context.Background(), dsn, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	runs, err := tracker.NewService(tracker.NewRunRepository(db, logger.Nop()), logger.Nop()).
		ListByTag(context.Background(), "graph")
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
