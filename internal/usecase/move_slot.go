package usecase

import (
	"context"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// MoveSlotInput contains the parameters for moving an assignment.
// Fields are ordered to minimize memory padding.
type MoveSlotInput struct {
	TaskID    string
	FromDay   domain.Day
	FromBlock string
	ToDay     domain.Day
	ToBlock   string
}

// MoveSlotOutput contains the result of a move.
type MoveSlotOutput struct {
	Task    *domain.Task // Stored task; nil when nothing changed
	Changed bool         // False when source and destination are the same slot
}

// MoveSlot is the use case for dragging an assignment to another slot.
type MoveSlot struct {
	store *shared.TaskStore
	sync  *shared.SyncEngine
	grid  *domain.ScheduleGrid
}

// NewMoveSlot creates a new MoveSlot use case.
func NewMoveSlot(store *shared.TaskStore, sync *shared.SyncEngine, grid *domain.ScheduleGrid) *MoveSlot {
	return &MoveSlot{store: store, sync: sync, grid: grid}
}

// Execute moves the assignment. A rejected destination leaves the source in place.
func (uc *MoveSlot) Execute(ctx context.Context, in MoveSlotInput) (*MoveSlotOutput, error) {
	if in.FromDay == in.ToDay && in.FromBlock == in.ToBlock {
		return &MoveSlotOutput{}, nil
	}
	changed, err := uc.store.Modify(func(tasks []domain.Task) ([]string, error) {
		task, err := find(tasks, in.TaskID)
		if err != nil {
			return nil, err
		}
		if err := uc.grid.Move(tasks, task, in.FromDay, in.FromBlock, in.ToDay, in.ToBlock); err != nil {
			return nil, err
		}
		domain.ReconcileCompletion(nil, task)
		return []string{task.ID}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("move slot: %w", err)
	}

	dispatchUpdates(ctx, uc.sync, changed)
	return &MoveSlotOutput{Task: &changed[0], Changed: true}, nil
}
