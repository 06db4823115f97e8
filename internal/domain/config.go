package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string     `toml:"-"`
	Store    StoreConfig  `toml:"store"`
	Remote   RemoteConfig `toml:"remote"`
	Blocks   BlocksConfig `toml:"blocks"`
	Log      LogConfig    `toml:"log"`
	Server   ServerConfig `toml:"server"`
}

// Store backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendGit    = "git"
)

// StoreConfig holds settings for task storage from [store] section.
type StoreConfig struct {
	Backend       string `toml:"backend,omitempty"`        // "json" (default), "sqlite" or "git"
	Path          string `toml:"path,omitempty"`           // Store file or repository path
	GitNamespace  string `toml:"git_namespace,omitempty"`  // Ref namespace for the git backend
	EncryptionKey string `toml:"encryption_key,omitempty"` // Hex AES-256 key for the git backend
}

// RemoteConfig holds defaults for connecting the tabular mirror from [remote] section.
type RemoteConfig struct {
	Endpoint   string `toml:"endpoint,omitempty"`
	Token      string `toml:"token,omitempty"`
	Collection string `toml:"collection,omitempty"`
	AutoSync   bool   `toml:"auto_sync"`
	// AutoSyncSet records that a file set auto_sync, so a false value still overrides.
	AutoSyncSet bool `toml:"-"`
}

// BlocksConfig holds the time block catalog source from [blocks] section.
type BlocksConfig struct {
	File string `toml:"file,omitempty"`
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// ServerConfig holds HTTP server settings from [server] section.
type ServerConfig struct {
	Addr       string `toml:"addr,omitempty"`
	TableDB    string `toml:"table_db,omitempty"`    // Database backing the table service
	TableToken string `toml:"table_token,omitempty"` // Bearer token required by the table service
}

// Default configuration values.
const (
	DefaultLogLevel     = "info"
	DefaultGitNamespace = "todo"
	DefaultServerAddr   = "127.0.0.1:8420"
)

// File and directory names.
const (
	AppDirName     = "todo-this-week" // Directory name for app data
	ConfigFileName = "config.toml"    // Config file name
	SessionFile    = "session.json"   // Persisted sync session
	LogDirName     = "logs"
	LogFileName    = "todo.log"
	DataDirEnv     = "TODO_DATA_DIR" // Overrides the data directory
)

// GlobalConfigDir returns the global config directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// DataConfigPath returns the config path inside a data directory.
func DataConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// SessionPath returns the sync session file inside a data directory.
func SessionPath(dataDir string) string {
	return filepath.Join(dataDir, SessionFile)
}

// LogDir returns the log directory inside a data directory.
func LogDir(dataDir string) string {
	return filepath.Join(dataDir, LogDirName)
}

// DefaultStorePath returns the store location for a backend inside a data directory.
func DefaultStorePath(dataDir, backend string) string {
	switch backend {
	case BackendSQLite:
		return filepath.Join(dataDir, "tasks.db")
	case BackendGit:
		return filepath.Join(dataDir, "store.git")
	default:
		return filepath.Join(dataDir, "tasks.json")
	}
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:      BackendJSON,
			GitNamespace: DefaultGitNamespace,
		},
		Remote: RemoteConfig{AutoSync: true},
		Log:    LogConfig{Level: DefaultLogLevel},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// StorePath returns the configured store path, or the backend default under dataDir.
func (c *Config) StorePath(dataDir string) string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return DefaultStorePath(dataDir, c.Store.Backend)
}

// RenderConfigTemplate renders a commented config file from the given Config.
func RenderConfigTemplate(cfg *Config) string {
	data := struct {
		Backend      string
		GitNamespace string
		LogLevel     string
		ServerAddr   string
		AutoSync     bool
	}{
		Backend:      cfg.Store.Backend,
		GitNamespace: cfg.Store.GitNamespace,
		LogLevel:     cfg.Log.Level,
		ServerAddr:   cfg.Server.Addr,
		AutoSync:     cfg.Remote.AutoSync,
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
