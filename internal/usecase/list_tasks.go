package usecase

import (
	"context"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// ListTasksInput contains the parameters for listing tasks.
// Fields are ordered to minimize memory padding.
type ListTasksInput struct {
	Priority      domain.Priority // Only this lane (empty = all)
	Type          domain.TaskType // Only this type (empty = all)
	HideCompleted bool            // Drop completed tasks
	Unscheduled   bool            // Only tasks with an empty schedule
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks []domain.Task // Ordered by lane, then display order
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	store *shared.TaskStore
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(store *shared.TaskStore) *ListTasks {
	return &ListTasks{store: store}
}

// Execute lists tasks matching the filter.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	all, err := uc.store.GetAll()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(all))
	for _, t := range all {
		if in.Priority != "" && t.Priority != in.Priority {
			continue
		}
		if in.Type != "" && t.Type != in.Type {
			continue
		}
		if in.HideCompleted && t.Completed {
			continue
		}
		if in.Unscheduled && len(t.Schedule) > 0 {
			continue
		}
		tasks = append(tasks, t)
	}
	domain.SortByLane(tasks)

	return &ListTasksOutput{Tasks: tasks}, nil
}
