package usecase

import (
	"context"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// UpdateTaskInput contains the full replacement task.
type UpdateTaskInput struct {
	Task domain.Task
}

// UpdateTaskOutput contains the stored task.
type UpdateTaskOutput struct {
	Task *domain.Task
}

// UpdateTask is the use case for replacing a task.
type UpdateTask struct {
	store *shared.TaskStore
	sync  *shared.SyncEngine
	grid  *domain.ScheduleGrid
}

// NewUpdateTask creates a new UpdateTask use case.
func NewUpdateTask(store *shared.TaskStore, sync *shared.SyncEngine, grid *domain.ScheduleGrid) *UpdateTask {
	return &UpdateTask{store: store, sync: sync, grid: grid}
}

// Execute replaces the task and mirrors it in the background when a session is active.
// A deadline on a task outside the CRITICAL lane is dropped. Newly held slots
// must respect their block's capacity.
func (uc *UpdateTask) Execute(ctx context.Context, in UpdateTaskInput) (*UpdateTaskOutput, error) {
	task := in.Task.Clone()
	task.NormalizeDeadline()

	updated, err := uc.store.UpdateChecked(task, uc.grid.CheckReplacement)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	uc.sync.Dispatch(ctx, shared.SyncOpUpdate, *updated)
	return &UpdateTaskOutput{Task: updated}, nil
}
