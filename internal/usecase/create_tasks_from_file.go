package usecase

import (
	"context"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// CreateTasksFromFileInput contains the parameters for creating tasks from a file.
type CreateTasksFromFileInput struct {
	Content string // YAML documents, one task each
	DryRun  bool   // If true, parse and validate without creating tasks
}

// CreateTasksFromFileOutput contains the result of creating tasks from a file.
type CreateTasksFromFileOutput struct {
	Tasks []domain.Task // Created tasks (ids are empty in dry-run mode)
}

// CreateTasksFromFile is the use case for adding several tasks at once.
type CreateTasksFromFile struct {
	store  *shared.TaskStore
	sync   *shared.SyncEngine
	logger domain.Logger
}

// NewCreateTasksFromFile creates a new CreateTasksFromFile use case.
func NewCreateTasksFromFile(store *shared.TaskStore, sync *shared.SyncEngine, logger domain.Logger) *CreateTasksFromFile {
	return &CreateTasksFromFile{store: store, sync: sync, logger: logger}
}

// Execute validates every draft before creating any task.
func (uc *CreateTasksFromFile) Execute(ctx context.Context, in CreateTasksFromFileInput) (*CreateTasksFromFileOutput, error) {
	drafts, err := domain.ParseTaskDrafts(in.Content)
	if err != nil {
		return nil, err
	}

	fields := make([]domain.TaskFields, 0, len(drafts))
	for i, d := range drafts {
		f, err := d.Fields()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		fields = append(fields, f)
	}

	out := &CreateTasksFromFileOutput{Tasks: make([]domain.Task, 0, len(fields))}
	if in.DryRun {
		for _, f := range fields {
			out.Tasks = append(out.Tasks, domain.Task{
				Title:    f.Title,
				URL:      f.URL,
				Priority: f.Priority,
				Deadline: f.Deadline,
				Type:     f.Type,
				Energy:   f.Energy,
				Schedule: []domain.Assignment{},
			})
		}
		return out, nil
	}

	for i, f := range fields {
		task, err := uc.store.Create(f)
		if err != nil {
			return out, fmt.Errorf("task %d: %w", i+1, err)
		}
		if uc.logger != nil {
			uc.logger.Info(task.ID, "task", "created from file")
		}
		uc.sync.Dispatch(ctx, shared.SyncOpCreate, *task)
		out.Tasks = append(out.Tasks, *task)
	}
	return out, nil
}
