package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// MigrateStoreInput contains parameters for MigrateStore.
type MigrateStoreInput struct {
	// DryRun reports what would be copied without writing.
	DryRun bool
}

// MigrateStoreOutput contains migration results.
type MigrateStoreOutput struct {
	Total    int
	Migrated int
	Skipped  int
}

// MigrateStore copies every task from another storage backend into the current one.
type MigrateStore struct {
	source   *shared.TaskStore
	dest     *shared.TaskStore
	destInit domain.StoreInitializer
}

// NewMigrateStore creates a new MigrateStore use case.
func NewMigrateStore(source, dest *shared.TaskStore, destInit domain.StoreInitializer) *MigrateStore {
	return &MigrateStore{source: source, dest: dest, destInit: destInit}
}

// Execute appends the source tasks to the destination collection.
// Tasks already present and identical are skipped; any other id clash fails before writing.
func (uc *MigrateStore) Execute(_ context.Context, in MigrateStoreInput) (*MigrateStoreOutput, error) {
	if uc.source == nil || uc.dest == nil {
		return nil, errors.New("source or destination store is nil")
	}
	if uc.destInit != nil && !in.DryRun {
		if err := uc.destInit.Initialize(); err != nil {
			return nil, fmt.Errorf("initialize destination store: %w", err)
		}
	}

	tasks, err := uc.source.GetAll()
	if err != nil {
		return nil, fmt.Errorf("list source tasks: %w", err)
	}
	existing, err := uc.dest.GetAll()
	if err != nil {
		return nil, fmt.Errorf("list destination tasks: %w", err)
	}

	byID := make(map[string]domain.Task, len(existing))
	for _, t := range existing {
		byID[t.ID] = t
	}

	out := &MigrateStoreOutput{Total: len(tasks)}
	merged := existing
	for _, task := range tasks {
		if have, ok := byID[task.ID]; ok {
			if !reflect.DeepEqual(have.Clone(), task.Clone()) {
				return nil, fmt.Errorf("%w: task %s", domain.ErrMigrationConflict, task.ID)
			}
			out.Skipped++
			continue
		}
		merged = append(merged, task.Clone())
		byID[task.ID] = task
		out.Migrated++
	}

	if in.DryRun || out.Migrated == 0 {
		return out, nil
	}
	if err := uc.dest.ReplaceAll(merged); err != nil {
		return nil, fmt.Errorf("save destination tasks: %w", err)
	}
	return out, nil
}
