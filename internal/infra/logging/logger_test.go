package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLogger_Info(t *testing.T) {
	// Setup
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	// Execute
	logger.Info("task_1", "task", "test message")

	// Verify global log
	content, err := os.ReadFile(GlobalLogPath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO]")
	assert.Contains(t, string(content), "[task_1]")
	assert.Contains(t, string(content), "[task]")
	assert.Contains(t, string(content), "test message")

	// Verify task log
	taskContent, err := os.ReadFile(TaskLogPath(dataDir, "task_1"))
	require.NoError(t, err)
	assert.Contains(t, string(taskContent), "test message")
}

func TestLogger_GlobalLogOnly(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("", "sync", "global message")

	content, err := os.ReadFile(GlobalLogPath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[global]")
	assert.Contains(t, string(content), "global message")

	_, err = os.Stat(filepath.Join(dataDir, "logs", "tasks"))
	assert.True(t, os.IsNotExist(err))
}

func TestLogger_LevelFiltering(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelWarn) // Only warn and above
	defer func() { _ = logger.Close() }()

	logger.Debug("task_1", "task", "debug message")
	logger.Info("task_1", "task", "info message")
	logger.Warn("task_1", "task", "warn message")
	logger.Error("task_1", "task", "error message")

	content, err := os.ReadFile(GlobalLogPath(dataDir))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "debug message")
	assert.NotContains(t, string(content), "info message")
	assert.Contains(t, string(content), "warn message")
	assert.Contains(t, string(content), "error message")
}

func TestLogger_DisabledWhenEmptyDataDir(t *testing.T) {
	logger := New("", slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	// Should not panic
	logger.Info("task_1", "task", "test message")
	logger.Error("", "task", "error message")
}

func TestLogger_Echo(t *testing.T) {
	var buf bytes.Buffer
	logger := New("", slog.LevelInfo)
	logger.SetEcho(&buf)

	logger.Debug("", "http", "hidden")
	logger.Warn("", "http", "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[WARN] [global] [http] shown")
}

func TestLogger_LogFormat(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("task_42", "usecase", `task created: "my task"`)

	content, err := os.ReadFile(GlobalLogPath(dataDir))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)

	// Verify format: [timestamp] [INFO] [task_42] [usecase] message
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[INFO\] \[task_42\] \[usecase\] task created: "my task"$`, lines[0])
}

func TestLogger_MultipleTaskFiles(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("task_1", "task", "message for task 1")
	logger.Info("task_2", "task", "message for task 2")

	task1, err := os.ReadFile(TaskLogPath(dataDir, "task_1"))
	require.NoError(t, err)
	assert.Contains(t, string(task1), "message for task 1")
	assert.NotContains(t, string(task1), "message for task 2")

	require.NoError(t, logger.Close())
	assert.FileExists(t, TaskLogPath(dataDir, "task_2"))
}

func TestTaskLogPath_StaysInLogDir(t *testing.T) {
	path := TaskLogPath("/data", "../../etc/passwd")

	assert.True(t, strings.HasPrefix(path, "/data/logs/tasks/"), path)
}
