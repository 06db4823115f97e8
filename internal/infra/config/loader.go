// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	dataDir       string // Path to the data directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/todo-this-week)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// DefaultDataDir returns the data directory: $TODO_DATA_DIR, else
// $XDG_DATA_HOME/todo-this-week, else ~/.local/share/todo-this-week.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv(domain.DataDirEnv); dir != "" {
		return dir, nil
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, domain.AppDirName), nil
}

// Load returns the merged configuration (data dir + global).
// Data directory config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	local, err := l.loadFile(domain.DataConfigPath(l.dataDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Merge: default <- global <- data dir (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if local != nil {
		base = mergeConfigs(base, local)
	}
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
// Absent booleans stay nil so they do not override lower layers.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string
	unknown := func(section, key string) {
		warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, key))
	}
	badType := func(section, key string) {
		warnings = append(warnings, fmt.Sprintf("invalid value type in [%s]: %s", section, key))
	}
	str := func(section, key string, v any, dst *string) {
		if s, ok := v.(string); ok {
			*dst = s
			return
		}
		badType(section, key)
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		switch section {
		case "store":
			for k, v := range m {
				switch k {
				case "backend":
					str(section, k, v, &res.Store.Backend)
				case "path":
					str(section, k, v, &res.Store.Path)
				case "git_namespace":
					str(section, k, v, &res.Store.GitNamespace)
				case "encryption_key":
					str(section, k, v, &res.Store.EncryptionKey)
				default:
					unknown(section, k)
				}
			}
		case "remote":
			for k, v := range m {
				switch k {
				case "endpoint":
					str(section, k, v, &res.Remote.Endpoint)
				case "token":
					str(section, k, v, &res.Remote.Token)
				case "collection":
					str(section, k, v, &res.Remote.Collection)
				case "auto_sync":
					if b, ok := v.(bool); ok {
						res.Remote.AutoSync = b
						res.Remote.AutoSyncSet = true
					} else {
						badType(section, k)
					}
				default:
					unknown(section, k)
				}
			}
		case "blocks":
			for k, v := range m {
				switch k {
				case "file":
					str(section, k, v, &res.Blocks.File)
				default:
					unknown(section, k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					str(section, k, v, &res.Log.Level)
				default:
					unknown(section, k)
				}
			}
		case "server":
			for k, v := range m {
				switch k {
				case "addr":
					str(section, k, v, &res.Server.Addr)
				case "table_db":
					str(section, k, v, &res.Server.TableDB)
				case "table_token":
					str(section, k, v, &res.Server.TableToken)
				default:
					unknown(section, k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	if res.Store.Backend != "" {
		switch res.Store.Backend {
		case domain.BackendJSON, domain.BackendSQLite, domain.BackendGit:
		default:
			warnings = append(warnings, fmt.Sprintf("unknown store backend %q, using %s", res.Store.Backend, domain.BackendJSON))
			res.Store.Backend = ""
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)

	setString(&result.Store.Backend, override.Store.Backend)
	setString(&result.Store.Path, override.Store.Path)
	setString(&result.Store.GitNamespace, override.Store.GitNamespace)
	setString(&result.Store.EncryptionKey, override.Store.EncryptionKey)
	setString(&result.Remote.Endpoint, override.Remote.Endpoint)
	setString(&result.Remote.Token, override.Remote.Token)
	setString(&result.Remote.Collection, override.Remote.Collection)
	if override.Remote.AutoSyncSet {
		result.Remote.AutoSync = override.Remote.AutoSync
		result.Remote.AutoSyncSet = true
	}
	setString(&result.Blocks.File, override.Blocks.File)
	setString(&result.Log.Level, override.Log.Level)
	setString(&result.Server.Addr, override.Server.Addr)
	setString(&result.Server.TableDB, override.Server.TableDB)
	setString(&result.Server.TableToken, override.Server.TableToken)

	return &result
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
