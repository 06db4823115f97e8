package usecase

import (
	"context"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// ReorderLaneInput contains the desired order of a lane.
type ReorderLaneInput struct {
	Lane    domain.Priority
	TaskIDs []string
}

// ReorderLaneOutput contains the tasks whose order or lane changed.
type ReorderLaneOutput struct {
	Changed []domain.Task
}

// ReorderLane sets a lane's order, moving listed tasks from other lanes into it.
type ReorderLane struct {
	store *shared.TaskStore
	sync  *shared.SyncEngine
}

// NewReorderLane creates a new ReorderLane use case.
func NewReorderLane(store *shared.TaskStore, sync *shared.SyncEngine) *ReorderLane {
	return &ReorderLane{store: store, sync: sync}
}

// Execute applies the order.
func (uc *ReorderLane) Execute(ctx context.Context, in ReorderLaneInput) (*ReorderLaneOutput, error) {
	changed, err := uc.store.Modify(func(tasks []domain.Task) ([]string, error) {
		return domain.ReorderByPosition(tasks, in.Lane, in.TaskIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("reorder %s: %w", in.Lane, err)
	}

	dispatchUpdates(ctx, uc.sync, changed)
	return &ReorderLaneOutput{Changed: changed}, nil
}
