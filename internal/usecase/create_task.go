package usecase

import (
	"context"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// CreateTaskInput contains the parameters for creating a task.
type CreateTaskInput struct {
	Title    string          // Task title (required)
	URL      string          // Related link (optional)
	Priority domain.Priority // Lane (empty = SOMEDAY)
	Deadline string          // YYYY-MM-DD, kept only for CRITICAL
	Type     domain.TaskType // home or work (empty = home)
	Energy   domain.Energy   // low or high (empty = low)
}

// CreateTaskOutput contains the result of creating a task.
type CreateTaskOutput struct {
	Task *domain.Task
}

// CreateTask is the use case for creating a task.
type CreateTask struct {
	store *shared.TaskStore
	sync  *shared.SyncEngine
}

// NewCreateTask creates a new CreateTask use case.
func NewCreateTask(store *shared.TaskStore, sync *shared.SyncEngine) *CreateTask {
	return &CreateTask{store: store, sync: sync}
}

// Execute stores the task and mirrors it in the background when a session is active.
func (uc *CreateTask) Execute(ctx context.Context, in CreateTaskInput) (*CreateTaskOutput, error) {
	deadline := in.Deadline
	if in.Priority != domain.PriorityCritical {
		deadline = ""
	}
	task, err := uc.store.Create(domain.TaskFields{
		Title:    in.Title,
		URL:      in.URL,
		Priority: in.Priority,
		Deadline: deadline,
		Type:     in.Type,
		Energy:   in.Energy,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	uc.sync.Dispatch(ctx, shared.SyncOpCreate, *task)
	return &CreateTaskOutput{Task: task}, nil
}
