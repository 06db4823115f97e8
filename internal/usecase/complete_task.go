package usecase

import (
	"context"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// CompleteTaskInput contains the parameters for (un)completing a task.
type CompleteTaskInput struct {
	TaskID    string
	Completed bool
}

// CompleteTaskOutput contains the stored task.
type CompleteTaskOutput struct {
	Task *domain.Task
}

// CompleteTask sets a task's completion and cascades it to every assignment.
type CompleteTask struct {
	store *shared.TaskStore
	sync  *shared.SyncEngine
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(store *shared.TaskStore, sync *shared.SyncEngine) *CompleteTask {
	return &CompleteTask{store: store, sync: sync}
}

// Execute sets the completion flag.
func (uc *CompleteTask) Execute(ctx context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	changed, err := uc.store.Modify(func(tasks []domain.Task) ([]string, error) {
		task, err := find(tasks, in.TaskID)
		if err != nil {
			return nil, err
		}
		task.SetCompleted(in.Completed)
		return []string{task.ID}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}

	dispatchUpdates(ctx, uc.sync, changed)
	return &CompleteTaskOutput{Task: &changed[0]}, nil
}

// CompleteAssignmentInput contains the parameters for (un)completing one assignment.
type CompleteAssignmentInput struct {
	TaskID    string
	Day       domain.Day
	BlockID   string
	Completed bool
}

// CompleteAssignmentOutput contains the stored task.
type CompleteAssignmentOutput struct {
	Task *domain.Task
}

// CompleteAssignment sets one assignment's completion and derives the task's.
type CompleteAssignment struct {
	store *shared.TaskStore
	sync  *shared.SyncEngine
}

// NewCompleteAssignment creates a new CompleteAssignment use case.
func NewCompleteAssignment(store *shared.TaskStore, sync *shared.SyncEngine) *CompleteAssignment {
	return &CompleteAssignment{store: store, sync: sync}
}

// Execute sets the assignment's completion flag.
func (uc *CompleteAssignment) Execute(ctx context.Context, in CompleteAssignmentInput) (*CompleteAssignmentOutput, error) {
	changed, err := uc.store.Modify(func(tasks []domain.Task) ([]string, error) {
		task, err := find(tasks, in.TaskID)
		if err != nil {
			return nil, err
		}
		if err := task.SetAssignmentCompleted(domain.Slot{Day: in.Day, BlockID: in.BlockID}, in.Completed); err != nil {
			return nil, err
		}
		return []string{task.ID}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("complete assignment: %w", err)
	}

	dispatchUpdates(ctx, uc.sync, changed)
	return &CompleteAssignmentOutput{Task: &changed[0]}, nil
}
