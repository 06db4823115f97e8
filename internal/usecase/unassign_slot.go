package usecase

import (
	"context"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// UnassignSlotInput contains the parameters for removing an assignment.
type UnassignSlotInput struct {
	TaskID  string
	Day     domain.Day
	BlockID string
}

// UnassignSlotOutput contains the stored task.
type UnassignSlotOutput struct {
	Task *domain.Task
}

// UnassignSlot is the use case for removing a task from a slot.
type UnassignSlot struct {
	store *shared.TaskStore
	sync  *shared.SyncEngine
	grid  *domain.ScheduleGrid
}

// NewUnassignSlot creates a new UnassignSlot use case.
func NewUnassignSlot(store *shared.TaskStore, sync *shared.SyncEngine, grid *domain.ScheduleGrid) *UnassignSlot {
	return &UnassignSlot{store: store, sync: sync, grid: grid}
}

// Execute removes the assignment. The task is complete when every remaining assignment is.
func (uc *UnassignSlot) Execute(ctx context.Context, in UnassignSlotInput) (*UnassignSlotOutput, error) {
	changed, err := uc.store.Modify(func(tasks []domain.Task) ([]string, error) {
		task, err := find(tasks, in.TaskID)
		if err != nil {
			return nil, err
		}
		if err := uc.grid.Unassign(task, in.Day, in.BlockID); err != nil {
			return nil, err
		}
		return []string{task.ID}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("unassign slot: %w", err)
	}

	dispatchUpdates(ctx, uc.sync, changed)
	return &UnassignSlotOutput{Task: &changed[0]}, nil
}

// UnassignAllOutput contains the tasks whose schedule was cleared.
type UnassignAllOutput struct {
	Tasks []domain.Task
}

// UnassignAll clears the whole weekly grid in one write.
type UnassignAll struct {
	store *shared.TaskStore
	sync  *shared.SyncEngine
	grid  *domain.ScheduleGrid
}

// NewUnassignAll creates a new UnassignAll use case.
func NewUnassignAll(store *shared.TaskStore, sync *shared.SyncEngine, grid *domain.ScheduleGrid) *UnassignAll {
	return &UnassignAll{store: store, sync: sync, grid: grid}
}

// Execute clears every schedule.
func (uc *UnassignAll) Execute(ctx context.Context) (*UnassignAllOutput, error) {
	changed, err := uc.store.Modify(func(tasks []domain.Task) ([]string, error) {
		return uc.grid.UnassignAll(tasks), nil
	})
	if err != nil {
		return nil, fmt.Errorf("unassign all: %w", err)
	}

	dispatchUpdates(ctx, uc.sync, changed)
	return &UnassignAllOutput{Tasks: changed}, nil
}
