package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error
}

// KVStore persists opaque values under string keys.
// The task collection lives under a single key and is always written whole.
type KVStore interface {
	// Get returns the value for key, or nil with no error if it was never set.
	Get(key string) ([]byte, error)

	// Set replaces the value for key. A failed Set leaves the previous value intact.
	Set(key string, value []byte) error
}

// TaskCollectionKey is the KV key holding the task collection.
const TaskCollectionKey = "tasks"

// RemoteTable is a spreadsheet-like service holding rows of string cells in named
// collections (sheets) inside one document. Row numbers are 1-based and count the
// header row.
type RemoteTable interface {
	// Title returns the document title.
	Title(ctx context.Context, collectionID string) (string, error)

	// EnsureSheets creates any missing sheet with its header row and returns refs in the order given.
	EnsureSheets(ctx context.Context, collectionID string, specs []SheetSpec) ([]SheetRef, error)

	// GetAllRows returns every row of the sheet, header included.
	GetAllRows(ctx context.Context, collectionID string, sheet SheetRef) ([][]string, error)

	// AppendRow adds a row after the last one.
	AppendRow(ctx context.Context, collectionID string, sheet SheetRef, values []string) error

	// OverwriteRow replaces row number row.
	OverwriteRow(ctx context.Context, collectionID string, sheet SheetRef, row int, values []string) error

	// DeleteRow removes row number row, shifting later rows up.
	DeleteRow(ctx context.Context, collectionID string, sheet SheetRef, row int) error

	// ClearAndKeepHeader removes every row and writes header as row 1.
	ClearAndKeepHeader(ctx context.Context, collectionID string, sheet SheetRef, header []string) error

	// WriteRows writes rows as a block starting at row number startRow.
	WriteRows(ctx context.Context, collectionID string, sheet SheetRef, startRow int, rows [][]string) error
}

// RemoteDialer opens a RemoteTable for an endpoint using a bearer token.
type RemoteDialer interface {
	Dial(ctx context.Context, endpoint, token string) (RemoteTable, error)
}

// SessionStore persists the sync session between invocations.
type SessionStore interface {
	// Load returns the saved session, or nil with no error if there is none.
	Load() (*SyncSession, error)

	// Save replaces the saved session.
	Save(s *SyncSession) error

	// Clear removes the saved session.
	Clear() error
}

// Logger provides task-aware file logging.
type Logger interface {
	// Info logs an info message. taskID empty means global.
	Info(taskID, category, msg string)

	// Debug logs a debug message.
	Debug(taskID, category, msg string)

	// Warn logs a warning message.
	Warn(taskID, category, msg string)

	// Error logs an error message.
	Error(taskID, category, msg string)
}

// NotifyLevel is the severity of a user-visible status notification.
type NotifyLevel string

// NotifyLevel values.
const (
	NotifySuccess NotifyLevel = "success"
	NotifyInfo    NotifyLevel = "info"
	NotifyWarn    NotifyLevel = "warn"
	NotifyError   NotifyLevel = "error"
)

// Notification is a user-visible status message.
type Notification struct {
	Time    time.Time   `json:"time"`
	Level   NotifyLevel `json:"level"`
	TaskID  string      `json:"taskId,omitempty"`
	Message string      `json:"message"`
}

// Notifier delivers status notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (data dir + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigInfo describes one config file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager inspects and creates config files.
type ConfigManager interface {
	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// GetDataConfigInfo returns information about the data directory config file.
	GetDataConfigInfo() ConfigInfo

	// InitGlobalConfig writes the default template to the global config path.
	InitGlobalConfig() error

	// InitDataConfig writes the default template to the data directory config path.
	InitDataConfig() error
}

// IDGenerator creates task ids.
type IDGenerator interface {
	NewID() string
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
