// Package session persists the remote sync session between invocations.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

// FileStore implements domain.SessionStore as a JSON file readable only by the owner.
type FileStore struct {
	path string
}

// Ensure FileStore implements domain.SessionStore interface.
var _ domain.SessionStore = (*FileStore)(nil)

// NewFileStore creates a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the saved session, or nil if none was saved.
func (s *FileStore) Load() (*domain.SyncSession, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess domain.SyncSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &sess, nil
}

// Save writes the session through a temp file and rename.
func (s *FileStore) Save(sess *domain.SyncSession) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename session: %w", err)
	}
	return nil
}

// Clear removes the saved session. Clearing a missing session is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
