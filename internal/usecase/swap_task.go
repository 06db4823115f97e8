package usecase

import (
	"context"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// SwapTaskInput contains the parameters for moving a task within its lane.
type SwapTaskInput struct {
	TaskID    string
	Direction domain.Direction
}

// SwapTaskOutput contains the outcome of the swap.
type SwapTaskOutput struct {
	Result  domain.SwapResult
	Changed []domain.Task
}

// SwapTask moves a task one position up or down in its lane.
type SwapTask struct {
	store *shared.TaskStore
	sync  *shared.SyncEngine
}

// NewSwapTask creates a new SwapTask use case.
func NewSwapTask(store *shared.TaskStore, sync *shared.SyncEngine) *SwapTask {
	return &SwapTask{store: store, sync: sync}
}

// Execute swaps display order with the neighbour. Both tasks are written together,
// so a failed write leaves both orders unchanged.
func (uc *SwapTask) Execute(ctx context.Context, in SwapTaskInput) (*SwapTaskOutput, error) {
	var result domain.SwapResult
	changed, err := uc.store.Modify(func(tasks []domain.Task) ([]string, error) {
		res, ids, err := domain.SwapWithNeighbor(tasks, in.TaskID, in.Direction)
		result = res
		return ids, err
	})
	if err != nil {
		return nil, fmt.Errorf("move task %s: %w", in.Direction, err)
	}

	dispatchUpdates(ctx, uc.sync, changed)
	return &SwapTaskOutput{Result: result, Changed: changed}, nil
}
