package usecase

import (
	"context"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// EditTaskInput contains the fields to change. Nil fields are left as they are.
// Fields are ordered to minimize memory padding.
type EditTaskInput struct {
	Title    *string
	URL      *string
	Priority *domain.Priority
	Deadline *string
	Type     *domain.TaskType
	Energy   *domain.Energy
	TaskID   string
}

// EditTaskOutput contains the stored task.
type EditTaskOutput struct {
	Task *domain.Task
}

// EditTask changes selected fields of a task through UpdateTask.
type EditTask struct {
	store  *shared.TaskStore
	update *UpdateTask
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(store *shared.TaskStore, sync *shared.SyncEngine, grid *domain.ScheduleGrid) *EditTask {
	return &EditTask{store: store, update: NewUpdateTask(store, sync, grid)}
}

// Execute applies the changes and stores the result.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	current, err := uc.store.GetByID(in.TaskID)
	if err != nil {
		return nil, err
	}
	task := current.Clone()

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.URL != nil {
		task.URL = *in.URL
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Deadline != nil {
		task.Deadline = *in.Deadline
	}
	if in.Type != nil {
		task.Type = *in.Type
	}
	if in.Energy != nil {
		task.Energy = *in.Energy
	}

	out, err := uc.update.Execute(ctx, UpdateTaskInput{Task: task})
	if err != nil {
		return nil, err
	}
	return &EditTaskOutput{Task: out.Task}, nil
}
