// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// SequenceIDs is a test double for domain.IDGenerator producing task_1, task_2, ...
type SequenceIDs struct {
	mu sync.Mutex
	n  int
}

// NewID returns the next id in sequence.
func (s *SequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("task_%d", s.n)
}

// MockKVStore is an in-memory domain.KVStore.
// Fields are ordered to minimize memory padding.
type MockKVStore struct {
	Data     map[string][]byte
	GetErr   error
	SetErr   error
	SetCalls int
	mu       sync.Mutex
}

// NewMockKVStore creates an empty MockKVStore.
func NewMockKVStore() *MockKVStore {
	return &MockKVStore{Data: make(map[string][]byte)}
}

// Ensure MockKVStore implements domain.KVStore interface.
var _ domain.KVStore = (*MockKVStore)(nil)

// Get returns the stored value.
func (m *MockKVStore) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	v, ok := m.Data[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

// Set stores value unless SetErr is configured.
func (m *MockKVStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = slices.Clone(value)
	return nil
}

// LogEntry is one line recorded by MockLogger.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// MockLogger records log calls.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// Ensure MockLogger implements domain.Logger interface.
var _ domain.Logger = (*MockLogger)(nil)

func (m *MockLogger) add(level, taskID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Info records an info entry.
func (m *MockLogger) Info(taskID, category, msg string) { m.add("info", taskID, category, msg) }

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID, category, msg string) { m.add("debug", taskID, category, msg) }

// Warn records a warn entry.
func (m *MockLogger) Warn(taskID, category, msg string) { m.add("warn", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID, category, msg string) { m.add("error", taskID, category, msg) }

// Count returns the number of entries at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockNotifier records notifications.
type MockNotifier struct {
	Notifications []domain.Notification
	mu            sync.Mutex
}

// Ensure MockNotifier implements domain.Notifier interface.
var _ domain.Notifier = (*MockNotifier)(nil)

// Notify records n.
func (m *MockNotifier) Notify(n domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, n)
}

// Levels returns the recorded levels in order.
func (m *MockNotifier) Levels() []domain.NotifyLevel {
	m.mu.Lock()
	defer m.mu.Unlock()
	levels := make([]domain.NotifyLevel, 0, len(m.Notifications))
	for _, n := range m.Notifications {
		levels = append(levels, n.Level)
	}
	return levels
}

// MockSessionStore is a test double for domain.SessionStore.
// Fields are ordered to minimize memory padding.
type MockSessionStore struct {
	Session *domain.SyncSession
	LoadErr error
	SaveErr error
	Cleared bool
}

// Ensure MockSessionStore implements domain.SessionStore interface.
var _ domain.SessionStore = (*MockSessionStore)(nil)

// Load returns the stored session.
func (m *MockSessionStore) Load() (*domain.SyncSession, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Session, nil
}

// Save stores s.
func (m *MockSessionStore) Save(s *domain.SyncSession) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	c := *s
	m.Session = &c
	return nil
}

// Clear removes the session.
func (m *MockSessionStore) Clear() error {
	m.Session = nil
	m.Cleared = true
	return nil
}

// RemoteCall records one MockRemoteTable call.
type RemoteCall struct {
	Op    string
	Sheet string
	Row   int
}

// MockRemoteTable is an in-memory domain.RemoteTable with call recording.
// Errs is keyed by "Op" or "Op:SheetTitle"; the sheet-specific key wins.
// Fields are ordered to minimize memory padding.
type MockRemoteTable struct {
	Sheets    map[string][][]string
	Errs      map[string]error
	SheetIDs  map[string]int64
	TitleText string
	Calls     []RemoteCall
	nextID    int64
	mu        sync.Mutex
}

// NewMockRemoteTable creates a MockRemoteTable with no sheets.
func NewMockRemoteTable() *MockRemoteTable {
	return &MockRemoteTable{
		Sheets:    make(map[string][][]string),
		Errs:      make(map[string]error),
		SheetIDs:  make(map[string]int64),
		TitleText: "Weekly Tasks",
	}
}

// Ensure MockRemoteTable implements domain.RemoteTable interface.
var _ domain.RemoteTable = (*MockRemoteTable)(nil)

// CallCount returns how many times op was called.
func (m *MockRemoteTable) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Rows returns a copy of a sheet's rows.
func (m *MockRemoteTable) Rows(title string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneRows(m.Sheets[title])
}

func (m *MockRemoteTable) record(op, sheet string, row int) error {
	m.Calls = append(m.Calls, RemoteCall{Op: op, Sheet: sheet, Row: row})
	if err, ok := m.Errs[op+":"+sheet]; ok {
		return err
	}
	return m.Errs[op]
}

// Title returns TitleText.
func (m *MockRemoteTable) Title(_ context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Title", "", 0); err != nil {
		return "", err
	}
	return m.TitleText, nil
}

// EnsureSheets creates missing sheets with their header rows.
func (m *MockRemoteTable) EnsureSheets(_ context.Context, _ string, specs []domain.SheetSpec) ([]domain.SheetRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("EnsureSheets", "", 0); err != nil {
		return nil, err
	}
	refs := make([]domain.SheetRef, 0, len(specs))
	for _, s := range specs {
		if _, ok := m.Sheets[s.Title]; !ok {
			m.Sheets[s.Title] = [][]string{slices.Clone(s.Header)}
			m.nextID++
			m.SheetIDs[s.Title] = m.nextID
		}
		refs = append(refs, domain.SheetRef{Title: s.Title, ID: m.SheetIDs[s.Title]})
	}
	return refs, nil
}

// GetAllRows returns the sheet's rows.
func (m *MockRemoteTable) GetAllRows(_ context.Context, _ string, sheet domain.SheetRef) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetAllRows", sheet.Title, 0); err != nil {
		return nil, err
	}
	return cloneRows(m.Sheets[sheet.Title]), nil
}

// AppendRow appends values to the sheet.
func (m *MockRemoteTable) AppendRow(_ context.Context, _ string, sheet domain.SheetRef, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("AppendRow", sheet.Title, 0); err != nil {
		return err
	}
	m.Sheets[sheet.Title] = append(m.Sheets[sheet.Title], slices.Clone(values))
	return nil
}

// OverwriteRow replaces a 1-based row.
func (m *MockRemoteTable) OverwriteRow(_ context.Context, _ string, sheet domain.SheetRef, row int, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("OverwriteRow", sheet.Title, row); err != nil {
		return err
	}
	rows := m.Sheets[sheet.Title]
	if row < 1 || row > len(rows) {
		return domain.ErrRowNotFound
	}
	rows[row-1] = slices.Clone(values)
	return nil
}

// DeleteRow removes a 1-based row.
func (m *MockRemoteTable) DeleteRow(_ context.Context, _ string, sheet domain.SheetRef, row int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteRow", sheet.Title, row); err != nil {
		return err
	}
	rows := m.Sheets[sheet.Title]
	if row < 1 || row > len(rows) {
		return domain.ErrRowNotFound
	}
	m.Sheets[sheet.Title] = append(rows[:row-1:row-1], rows[row:]...)
	return nil
}

// ClearAndKeepHeader resets the sheet to just header.
func (m *MockRemoteTable) ClearAndKeepHeader(_ context.Context, _ string, sheet domain.SheetRef, header []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ClearAndKeepHeader", sheet.Title, 0); err != nil {
		return err
	}
	m.Sheets[sheet.Title] = [][]string{slices.Clone(header)}
	return nil
}

// WriteRows writes rows starting at the 1-based startRow, growing the sheet as needed.
func (m *MockRemoteTable) WriteRows(_ context.Context, _ string, sheet domain.SheetRef, startRow int, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("WriteRows", sheet.Title, startRow); err != nil {
		return err
	}
	existing := m.Sheets[sheet.Title]
	for i, r := range rows {
		at := startRow - 1 + i
		for len(existing) <= at {
			existing = append(existing, []string{})
		}
		existing[at] = slices.Clone(r)
	}
	m.Sheets[sheet.Title] = existing
	return nil
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out
}

// MockDialer is a test double for domain.RemoteDialer.
// Fields are ordered to minimize memory padding.
type MockDialer struct {
	Table    domain.RemoteTable
	Err      error
	Endpoint string
	Token    string
	Dials    int
}

// Ensure MockDialer implements domain.RemoteDialer interface.
var _ domain.RemoteDialer = (*MockDialer)(nil)

// Dial records the endpoint and token and returns Table.
func (m *MockDialer) Dial(_ context.Context, endpoint, token string) (domain.RemoteTable, error) {
	m.Dials++
	m.Endpoint, m.Token = endpoint, token
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Table, nil
}

// ConnectedSession returns a ready session pointing at the mock's default sheets.
func ConnectedSession() *domain.SyncSession {
	return &domain.SyncSession{
		Authorized:     true,
		AuthToken:      "token",
		Endpoint:       "mock://remote",
		CollectionID:   "doc-1",
		ActiveSheet:    domain.SheetRef{Title: domain.ActiveSheetTitle, ID: 1},
		DeletedSheet:   domain.SheetRef{Title: domain.DeletedSheetTitle, ID: 2},
		ActiveHeaders:  domain.ActiveHeaders(),
		DeletedHeaders: domain.DeletedHeaders(),
	}
}

// SeedSheets creates the active and deleted sheets with their header rows.
func (m *MockRemoteTable) SeedSheets() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sheets[domain.ActiveSheetTitle] = [][]string{domain.ActiveHeaders()}
	m.Sheets[domain.DeletedSheetTitle] = [][]string{domain.DeletedHeaders()}
	m.SheetIDs[domain.ActiveSheetTitle] = 1
	m.SheetIDs[domain.DeletedSheetTitle] = 2
	m.nextID = 2
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitDataErr      error
	InitGlobalErr    error
	DataConfigInfo   domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitDataCalled   bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		DataConfigInfo: domain.ConfigInfo{
			Path: "/data/todo-this-week/config.toml",
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path: "/home/test/.config/todo-this-week/config.toml",
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetDataConfigInfo returns the configured data config info.
func (m *MockConfigManager) GetDataConfigInfo() domain.ConfigInfo {
	return m.DataConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitDataConfig records the call and returns configured error.
func (m *MockConfigManager) InitDataConfig() error {
	m.InitDataCalled = true
	return m.InitDataErr
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig() error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}
