package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONSettings(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "settings-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newSettingsBuilder ────────────────────────────────────────────────────────

// TestNewSettingsBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewSettingsBuilder_InitialState(t *testing.T) {
	b := newSettingsBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil settings.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newSettingsBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterSourceWins verifies that a non-zero field of a later source
// overrides the same field of an earlier one.
func TestBuild_LaterSourceWins(t *testing.T) {
	b := newSettingsBuilder().withDefaults()
	b.configs = append(b.configs, &Settings{LogLevel: "debug"})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultTrackerTimeout, cfg.Tracker.Timeout)
}

// TestBuild_ZeroFieldsDoNotOverride verifies that empty fields of a later
// source keep the earlier value.
func TestBuild_ZeroFieldsDoNotOverride(t *testing.T) {
	b := newSettingsBuilder().withDefaults()
	b.configs = append(b.configs, &Settings{Tracker: Tracker{DSN: "runs.db"}})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, "runs.db", cfg.Tracker.DSN)
}

// TestBuild_ValidatesResult verifies that an invalid merged result is rejected.
func TestBuild_ValidatesResult(t *testing.T) {
	b := newSettingsBuilder().withDefaults()
	b.configs = append(b.configs, &Settings{LogLevel: "loud"})

	_, err := b.build()
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newSettingsBuilder()
	assert.Same(t, b, b.withEnv())
}

// TestWithEnv_SetsErrorOnBadDuration verifies that an unparsable duration
// sets b.err.
func TestWithEnv_SetsErrorOnBadDuration(t *testing.T) {
	t.Setenv("CARTESIUS_TRACKER_TIMEOUT", "soon")

	b := newSettingsBuilder().withEnv()
	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_NoOp_WhenNoPathSet verifies that withJSON does nothing when
// no source names a settings file.
func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newSettingsBuilder().withDefaults()
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithJSON_RanksBelowItsSource verifies that the file is inserted before
// the source that named it, so that source keeps priority.
func TestWithJSON_RanksBelowItsSource(t *testing.T) {
	path := writeTempJSONSettings(t, map[string]any{
		"log_level": "warn",
		"tracker":   map[string]any{"dsn": "file.db", "timeout": "3s"},
	})

	b := newSettingsBuilder().withDefaults()
	b.configs = append(b.configs, &Settings{SettingsFile: path, LogLevel: "error"})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 3)
	assert.Equal(t, "file.db", b.configs[1].Tracker.DSN)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "file.db", cfg.Tracker.DSN)
	assert.Equal(t, 3*time.Second, cfg.Tracker.Timeout)
}

// TestWithJSON_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newSettingsBuilder()
	b.configs = append(b.configs, &Settings{SettingsFile: "/nonexistent/settings.json"})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_SetsError_WhenUnknownField verifies that unknown keys in the
// settings file are rejected.
func TestWithJSON_SetsError_WhenUnknownField(t *testing.T) {
	path := writeTempJSONSettings(t, map[string]any{"colour": "blue"})

	b := newSettingsBuilder()
	b.configs = append(b.configs, &Settings{SettingsFile: path})
	b.withJSON()

	assert.Error(t, b.err)
}

// ── GetSettings ───────────────────────────────────────────────────────────────

// TestGetSettings_Defaults verifies the result with no environment set.
func TestGetSettings_Defaults(t *testing.T) {
	cfg, err := GetSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultTrackerTimeout, cfg.Tracker.Timeout)
	assert.Empty(t, cfg.ConfigDir)
	assert.Empty(t, cfg.Tracker.DSN)
}

// TestGetSettings_EnvBeatsFile verifies the full priority order.
func TestGetSettings_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSONSettings(t, map[string]any{
		"config_dir": dir,
		"log_level":  "warn",
	})
	t.Setenv("CARTESIUS_SETTINGS_FILE", path)
	t.Setenv("CARTESIUS_LOG_LEVEL", "debug")

	cfg, err := GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, dir, cfg.ConfigDir)
}
