// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package runconf

import (
	"testing"

	"github.com/MKhiriev/cartesius/internal/config"
	"github.com/MKhiriev/cartesius/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var builderFiles = map[string]string{
	"default.yaml": "model_name: transformer\ntrain: true\ntest: true\nseed: 0\nmodel:\n  d_model: 256\n  n_layers: 6\n",
	"tiny.yaml":    "parent_config: default.yaml\nmodel_name: tiny\nmodel:\n  d_model: 32\n",
	"renamed.yaml": "config: ignored.yaml\nseed: 5\n",
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	return NewBuilder(newTestLoader(t, builderFiles), logger.Nop())
}

// ── newRunConfigBuilder ───────────────────────────────────────────────────────

func TestNewRunConfigBuilder_InitialState(t *testing.T) {
	b := newRunConfigBuilder(nil)
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Nil(t, b.defaults)
	assert.Nil(t, b.cli)
	assert.Nil(t, b.file)
}

func TestRunConfigBuilder_StepsReturnBuilder(t *testing.T) {
	b := newRunConfigBuilder(nil)
	assert.Same(t, b, b.withDefaults())
	assert.Same(t, b, b.withArgs(nil))
}

func TestRunConfigBuilder_WithFileSkippedAfterArgError(t *testing.T) {
	b := newRunConfigBuilder(nil).withDefaults().withArgs([]string{"not-an-override"})
	require.ErrorIs(t, b.err, ErrInvalidArgument)

	// the nil loader would panic if withFile tried to load
	b.withFile()

	_, err := b.build()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// ── Build ─────────────────────────────────────────────────────────────────────

func TestBuildUsesDefaultFile(t *testing.T) {
	got, err := newTestBuilder(t).Build(nil)
	require.NoError(t, err)

	assert.Equal(t, "default.yaml", got.ToMap()["config"])
	assert.Equal(t, "transformer", got.ToMap()["model_name"])
	assert.Equal(t, []string{"config", "model_name", "train", "test", "seed", "model"}, got.Keys())
}

func TestBuildCLIOverridesFile(t *testing.T) {
	got, err := newTestBuilder(t).Build([]string{"--seed=7", "model.n_layers=2", "train=false"})
	require.NoError(t, err)

	m := got.ToMap()
	assert.Equal(t, 7, m["seed"])
	assert.Equal(t, false, m["train"])
	assert.Equal(t, map[string]any{"d_model": 256, "n_layers": 2}, m["model"])
}

func TestBuildCLISelectsFile(t *testing.T) {
	res, err := newTestBuilder(t).BuildResolved([]string{"config=tiny.yaml"})
	require.NoError(t, err)

	m := res.Config.ToMap()
	assert.Equal(t, "tiny.yaml", m["config"])
	assert.Equal(t, "tiny", m["model_name"])
	assert.Equal(t, map[string]any{"d_model": 32, "n_layers": 6}, m["model"])
	assert.Equal(t, []string{"bundled:default.yaml", "bundled:tiny.yaml"}, res.Chain)
}

func TestBuildFileOverridesDefaults(t *testing.T) {
	// a file may set config itself; it beats the built-in default but does
	// not change which file was loaded
	got, err := newTestBuilder(t).Build([]string{"config=renamed.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "renamed.yaml", got.ToMap()["config"], "the CLI still wins over the file")

	b := newTestBuilder(t)
	b.loader = newTestLoader(t, map[string]string{"default.yaml": "config: other.yaml\n"})
	got, err = b.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, "other.yaml", got.ToMap()["config"])
}

func TestBuildMissingFile(t *testing.T) {
	got, err := newTestBuilder(t).Build([]string{"config=nope.yaml"})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestBuildInvalidConfigKey(t *testing.T) {
	for _, args := range [][]string{{"config="}, {"config=3"}, {"config.name=x"}} {
		_, err := newTestBuilder(t).Build(args)
		assert.ErrorIs(t, err, ErrMalformedConfig, "args %q", args)
	}
}

func TestBuildInvalidArgument(t *testing.T) {
	_, err := newTestBuilder(t).Build([]string{"seed"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBuildDoesNotShareStateBetweenCalls(t *testing.T) {
	b := newTestBuilder(t)

	first, err := b.Build([]string{"seed=1"})
	require.NoError(t, err)
	first.Set("seed", 100)

	second, err := b.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ToMap()["seed"])
}

func TestLoadConfUsesBundledConfigs(t *testing.T) {
	t.Chdir(t.TempDir())

	res, err := LoadConf([]string{"--config=test_only.yaml"}, &config.Settings{}, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, []string{"bundled:default.yaml", "bundled:test_only.yaml"}, res.Chain)
	assert.Equal(t, []string{"transformer", TestOnlyTag}, CreateTags(res.Config))
}

func TestLoadConfUsesConfigDir(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	writeFile(t, dir, "default.yaml", "model_name: custom\n")

	got, err := LoadConf(nil, &config.Settings{ConfigDir: dir}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "custom", got.Config.ToMap()["model_name"])
}

func TestBuildWithoutLogger(t *testing.T) {
	t.Chdir(t.TempDir())
	loader := NewLoader(NewPathResolver(BundledCandidate(bundle(builderFiles))), nil)

	got, err := NewBuilder(loader, nil).Build([]string{"config=tiny.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "tiny", got.ToMap()["model_name"])
}
