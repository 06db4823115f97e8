package usecase

import (
	"context"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string
}

// DeleteTaskOutput contains the removed task.
type DeleteTaskOutput struct {
	Task *domain.Task
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	store *shared.TaskStore
	sync  *shared.SyncEngine
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(store *shared.TaskStore, sync *shared.SyncEngine) *DeleteTask {
	return &DeleteTask{store: store, sync: sync}
}

// Execute removes the task and archives it remotely in the background when a session is active.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := uc.store.Delete(in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}

	uc.sync.Dispatch(ctx, shared.SyncOpDelete, *task)
	return &DeleteTaskOutput{Task: task}, nil
}
