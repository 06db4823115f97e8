package usecase

import (
	"context"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string
}

// ShowTaskOutput contains the task.
type ShowTaskOutput struct {
	Task *domain.Task
}

// ShowTask is the use case for fetching one task.
type ShowTask struct {
	store *shared.TaskStore
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(store *shared.TaskStore) *ShowTask {
	return &ShowTask{store: store}
}

// Execute returns the task or domain.ErrTaskNotFound.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := uc.store.GetByID(in.TaskID)
	if err != nil {
		return nil, err
	}
	return &ShowTaskOutput{Task: task}, nil
}
