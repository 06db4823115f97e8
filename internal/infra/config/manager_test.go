package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

func TestManager_GetDataConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		dataDir := t.TempDir()
		writeConfig(t, dataDir, "[log]\nlevel = \"debug\"")

		info := NewManagerWithGlobalDir(dataDir, "").GetDataConfigInfo()

		assert.Equal(t, filepath.Join(dataDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, "[log]\nlevel = \"debug\"", info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		dataDir := t.TempDir()

		info := NewManagerWithGlobalDir(dataDir, "").GetDataConfigInfo()

		assert.Equal(t, filepath.Join(dataDir, domain.ConfigFileName), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo_NoDir(t *testing.T) {
	info := NewManagerWithGlobalDir(t.TempDir(), "").GetGlobalConfigInfo()

	assert.Empty(t, info.Path)
	assert.False(t, info.Exists)
}

func TestManager_InitDataConfig(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	m := NewManagerWithGlobalDir(dataDir, "")

	require.NoError(t, m.InitDataConfig())

	content, err := os.ReadFile(domain.DataConfigPath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[store]")
	assert.ErrorIs(t, m.InitDataConfig(), domain.ErrConfigExists)
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates directory and file", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), "todo-this-week")
		m := NewManagerWithGlobalDir(t.TempDir(), globalDir)

		require.NoError(t, m.InitGlobalConfig())

		info := m.GetGlobalConfigInfo()
		assert.True(t, info.Exists)
		assert.Contains(t, info.Content, "auto_sync = true")
	})

	t.Run("fails without a global directory", func(t *testing.T) {
		m := NewManagerWithGlobalDir(t.TempDir(), "")

		assert.Error(t, m.InitGlobalConfig())
	})
}
