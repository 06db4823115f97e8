package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	DataDir string // Data directory to create (empty = leave as is)
}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	Tasks int // Tasks found in the store after initialization
}

// InitStore prepares the data directory and the task store.
type InitStore struct {
	storeInit domain.StoreInitializer
	store     *shared.TaskStore
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer, store *shared.TaskStore) *InitStore {
	return &InitStore{storeInit: storeInit, store: store}
}

// Execute creates the data directory and an empty store if needed.
// Running it again is harmless; records written by older versions are
// migrated on the first read.
func (uc *InitStore) Execute(_ context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	if in.DataDir != "" {
		if err := os.MkdirAll(domain.LogDir(in.DataDir), 0o750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	if uc.storeInit != nil {
		if err := uc.storeInit.Initialize(); err != nil {
			return nil, fmt.Errorf("initialize store: %w", err)
		}
	}
	tasks, err := uc.store.GetAll()
	if err != nil {
		return nil, err
	}
	return &InitStoreOutput{Tasks: len(tasks)}, nil
}
