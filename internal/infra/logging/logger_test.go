package logging

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgate/taskgate/internal/domain"
)

func TestLogger_Info(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("auth__plan", "task", "test message")

	content, err := os.ReadFile(domain.GlobalLogPath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO]")
	assert.Contains(t, string(content), "[task-auth__plan]")
	assert.Contains(t, string(content), "[task]")
	assert.Contains(t, string(content), "test message")

	taskContent, err := os.ReadFile(domain.TaskLogPath(dataDir, "auth__plan"))
	require.NoError(t, err)
	assert.Contains(t, string(taskContent), "[INFO]")
	assert.Contains(t, string(taskContent), "test message")
}

func TestLogger_globalOnlyWithoutTaskID(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Warn("", "store", "cache invalidated")

	content, err := os.ReadFile(domain.GlobalLogPath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[WARN]")
	assert.Contains(t, string(content), "[global]")

	entries, err := os.ReadDir(dataDir + "/logs")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLogger_levelFiltering(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelWarn)
	defer func() { _ = logger.Close() }()

	logger.Debug("", "store", "dropped")
	logger.Info("", "store", "dropped too")

	_, err := os.ReadFile(domain.GlobalLogPath(dataDir))
	assert.ErrorIs(t, err, os.ErrNotExist)

	logger.Error("", "store", "kept")
	content, err := os.ReadFile(domain.GlobalLogPath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "kept")
	assert.NotContains(t, string(content), "dropped")
}

func TestLogger_disabledWithEmptyDir(t *testing.T) {
	logger := New("", slog.LevelDebug)
	// Must not panic or create files anywhere.
	logger.Info("auth", "task", "ignored")
	assert.NoError(t, logger.Close())
}
