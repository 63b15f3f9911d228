package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "0.0.0.0", cfg.Addr)
	require.Equal(t, 8893, cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": 9000, "log_level": "debug"}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "0.0.0.0", cfg.Addr) // untouched field keeps its default
}

func TestValidateRejectsMissingDirs(t *testing.T) {
	cfg := Default()
	cfg.MusicDir = filepath.Join(t.TempDir(), "nope")
	cfg.DataDir = t.TempDir()
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.MusicDir = dir
	cfg.DataDir = dir
	cfg.LogLevel = "not-a-level"
	require.Error(t, cfg.Validate())
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.MusicDir = dir
	cfg.DataDir = dir
	require.NoError(t, cfg.Validate())
}
