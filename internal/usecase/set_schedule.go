package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// SetScheduleInput contains the complete set of slots a task should hold.
type SetScheduleInput struct {
	TaskID string
	Slots  []domain.Slot
}

// SetScheduleOutput contains the stored task.
type SetScheduleOutput struct {
	Task *domain.Task
}

// SetSchedule replaces a task's schedule from a set of checked slots.
// Slots the task already held keep their completion; new slots start incomplete.
type SetSchedule struct {
	store *shared.TaskStore
	sync  *shared.SyncEngine
	grid  *domain.ScheduleGrid
}

// NewSetSchedule creates a new SetSchedule use case.
func NewSetSchedule(store *shared.TaskStore, sync *shared.SyncEngine, grid *domain.ScheduleGrid) *SetSchedule {
	return &SetSchedule{store: store, sync: sync, grid: grid}
}

// Execute checks every new slot against capacity and writes the schedule in one step.
func (uc *SetSchedule) Execute(ctx context.Context, in SetScheduleInput) (*SetScheduleOutput, error) {
	changed, err := uc.store.Modify(func(tasks []domain.Task) ([]string, error) {
		task, err := find(tasks, in.TaskID)
		if err != nil {
			return nil, err
		}

		previous := make(map[domain.Slot]bool, len(task.Schedule))
		for _, a := range task.Schedule {
			previous[a.Slot()] = a.Completed
		}
		task.Schedule = []domain.Assignment{}
		for _, slot := range in.Slots {
			if err := uc.grid.Assign(tasks, task, slot.Day, slot.BlockID); err != nil {
				if errors.Is(err, domain.ErrAlreadyAssigned) {
					continue
				}
				return nil, err
			}
			if done, ok := previous[slot]; ok {
				task.Schedule[len(task.Schedule)-1].Completed = done
			}
		}
		domain.ReconcileCompletion(nil, task)
		return []string{task.ID}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("set schedule: %w", err)
	}

	dispatchUpdates(ctx, uc.sync, changed)
	return &SetScheduleOutput{Task: &changed[0]}, nil
}
