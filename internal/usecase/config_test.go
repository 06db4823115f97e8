package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/testutil"
)

func TestShowConfig_Execute(t *testing.T) {
	manager := testutil.NewMockConfigManager()
	manager.DataConfigInfo.Exists = true
	manager.DataConfigInfo.Content = "[log]\nlevel = \"debug\"\n"
	loader := testutil.NewMockConfigLoader()
	loader.Config.Log.Level = "debug"

	out, err := NewShowConfig(manager, loader).Execute(context.Background(), ShowConfigInput{})

	require.NoError(t, err)
	assert.Equal(t, "debug", out.Effective.Log.Level)
	assert.True(t, out.DataConfig.Exists)
	assert.False(t, out.GlobalConfig.Exists)
	assert.Equal(t, "/home/test/.config/todo-this-week/config.toml", out.GlobalConfig.Path)
}

func TestShowConfig_Execute_LoadError(t *testing.T) {
	loader := testutil.NewMockConfigLoader()
	loader.LoadErr = errors.New("bad toml")

	_, err := NewShowConfig(testutil.NewMockConfigManager(), loader).Execute(context.Background(), ShowConfigInput{})

	require.Error(t, err)
}

func TestInitConfig_Execute(t *testing.T) {
	t.Run("creates data config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()

		out, err := NewInitConfig(manager).Execute(context.Background(), InitConfigInput{})

		require.NoError(t, err)
		assert.Equal(t, "/data/todo-this-week/config.toml", out.Path)
		assert.True(t, manager.InitDataCalled)
		assert.False(t, manager.InitGlobalCalled)
	})

	t.Run("creates global config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()

		out, err := NewInitConfig(manager).Execute(context.Background(), InitConfigInput{Global: true})

		require.NoError(t, err)
		assert.Equal(t, "/home/test/.config/todo-this-week/config.toml", out.Path)
		assert.True(t, manager.InitGlobalCalled)
	})

	t.Run("existing file", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.InitDataErr = domain.ErrConfigExists

		_, err := NewInitConfig(manager).Execute(context.Background(), InitConfigInput{})

		require.ErrorIs(t, err, domain.ErrConfigExists)
	})
}

func TestShowConfigTemplate_Execute(t *testing.T) {
	out, err := NewShowConfigTemplate().Execute(context.Background(), ShowConfigTemplateInput{})

	require.NoError(t, err)
	assert.Contains(t, out.Template, `backend = "json"`)
	assert.Contains(t, out.Template, "auto_sync = true")
	assert.Contains(t, out.Template, `addr = "127.0.0.1:8420"`)
}
