package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 24*time.Hour, cfg.ApprovalTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.ReportsEnabled)
}

func TestLoader_fileOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `approval_timeout = "2h"
log_level = "debug"
reports_enabled = false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.ApprovalTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.ReportsEnabled)
}

func TestLoader_partialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`log_level = "warn"`), 0o644))

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.ApprovalTimeout)
	assert.True(t, cfg.ReportsEnabled, "omitted key must not disable reports")
}

func TestLoader_envOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`log_level = "warn"`), 0o644))
	t.Setenv("TASKGATE_LOG_LEVEL", "error")
	t.Setenv("TASKGATE_APPROVAL_TIMEOUT", "30m")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.ApprovalTimeout)
}

func TestLoader_envDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKGATE_DATA_DIR", dir)

	cfg, err := NewLoader("").Load()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
}

func TestLoader_invalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("not toml ["), 0o644))

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"error", "ERROR"},
		{"bogus", "INFO"},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		assert.Equal(t, tt.want, cfg.SlogLevel().String(), tt.level)
	}
}
