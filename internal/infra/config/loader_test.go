package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o644))
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader := NewLoaderWithGlobalDir(t.TempDir(), t.TempDir())

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_DataConfigOnly(t *testing.T) {
	// Setup
	dataDir := t.TempDir()
	writeConfig(t, dataDir, `
[store]
backend = "git"
git_namespace = "mine"

[remote]
endpoint = "https://tables.example.com"
collection = "week"
auto_sync = false

[log]
level = "debug"
`)

	// Execute
	cfg, err := NewLoaderWithGlobalDir(dataDir, t.TempDir()).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.BackendGit, cfg.Store.Backend)
	assert.Equal(t, "mine", cfg.Store.GitNamespace)
	assert.Equal(t, "https://tables.example.com", cfg.Remote.Endpoint)
	assert.Equal(t, "week", cfg.Remote.Collection)
	assert.False(t, cfg.Remote.AutoSync)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, domain.DefaultServerAddr, cfg.Server.Addr)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_DataOverridesGlobal(t *testing.T) {
	// Setup
	dataDir := t.TempDir()
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `
[remote]
token = "global-token"
auto_sync = false

[log]
level = "warn"
`)
	writeConfig(t, dataDir, `
[remote]
auto_sync = true

[log]
level = "error"
`)

	// Execute
	cfg, err := NewLoaderWithGlobalDir(dataDir, globalDir).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "global-token", cfg.Remote.Token)
	assert.True(t, cfg.Remote.AutoSync)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoader_Load_Warnings(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, `
[store]
backend = "postgres"
colour = "blue"

[remote]
auto_sync = "yes"

[workers]
default = "x"
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, "").Load()

	require.NoError(t, err)
	assert.Equal(t, domain.BackendJSON, cfg.Store.Backend)
	assert.True(t, cfg.Remote.AutoSync)
	assert.Equal(t, []string{
		"invalid value type in [remote]: auto_sync",
		"unknown key in [store]: colour",
		"unknown section: workers",
		`unknown store backend "postgres", using json`,
	}, cfg.Warnings)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, "[store\nbackend = ")

	_, err := NewLoaderWithGlobalDir(dataDir, "").Load()

	assert.Error(t, err)
}

func TestLoader_LoadGlobal_NoDir(t *testing.T) {
	_, err := NewLoaderWithGlobalDir(t.TempDir(), "").LoadGlobal()

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_Load_RenderedTemplate(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, domain.RenderConfigTemplate(domain.NewDefaultConfig()))

	cfg, err := NewLoaderWithGlobalDir(dataDir, "").Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, domain.BackendJSON, cfg.Store.Backend)
	assert.True(t, cfg.Remote.AutoSync)
}

func TestDefaultDataDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv(domain.DataDirEnv, "/tmp/todo-data")
		dir, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/todo-data", dir)
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv(domain.DataDirEnv, "")
		t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
		dir, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/tmp/xdg", domain.AppDirName), dir)
	})
}
