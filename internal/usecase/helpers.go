package usecase

import (
	"context"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// find returns a pointer into tasks for id, or domain.ErrTaskNotFound.
func find(tasks []domain.Task, id string) (*domain.Task, error) {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

// dispatchUpdates mirrors every changed task in the background.
func dispatchUpdates(ctx context.Context, sync *shared.SyncEngine, changed []domain.Task) {
	for _, t := range changed {
		sync.Dispatch(ctx, shared.SyncOpUpdate, t)
	}
}
