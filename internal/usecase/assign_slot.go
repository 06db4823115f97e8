package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// AssignSlotInput contains the parameters for placing a task into a slot.
type AssignSlotInput struct {
	TaskID  string
	Day     domain.Day
	BlockID string
}

// AssignSlotOutput contains the result of an assignment.
type AssignSlotOutput struct {
	Task    *domain.Task // Stored task; nil when nothing changed
	Changed bool         // False when the task already held the slot
}

// AssignSlot is the use case for placing a task into a (day, block) slot.
type AssignSlot struct {
	store *shared.TaskStore
	sync  *shared.SyncEngine
	grid  *domain.ScheduleGrid
}

// NewAssignSlot creates a new AssignSlot use case.
func NewAssignSlot(store *shared.TaskStore, sync *shared.SyncEngine, grid *domain.ScheduleGrid) *AssignSlot {
	return &AssignSlot{store: store, sync: sync, grid: grid}
}

// Execute assigns the slot. A repeat assignment is reported with Changed=false and no error;
// capacity rejections are returned as *domain.SlotError.
func (uc *AssignSlot) Execute(ctx context.Context, in AssignSlotInput) (*AssignSlotOutput, error) {
	changed, err := uc.store.Modify(func(tasks []domain.Task) ([]string, error) {
		task, err := find(tasks, in.TaskID)
		if err != nil {
			return nil, err
		}
		if err := uc.grid.Assign(tasks, task, in.Day, in.BlockID); err != nil {
			if errors.Is(err, domain.ErrAlreadyAssigned) {
				return nil, nil
			}
			return nil, err
		}
		domain.ReconcileCompletion(nil, task)
		return []string{task.ID}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("assign slot: %w", err)
	}
	if len(changed) == 0 {
		return &AssignSlotOutput{}, nil
	}

	dispatchUpdates(ctx, uc.sync, changed)
	return &AssignSlotOutput{Task: &changed[0], Changed: true}, nil
}
