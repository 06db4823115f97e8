package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

func TestAssignSlot_Execute_SingleCapacity(t *testing.T) {
	// Setup
	f := newFixture()
	f.seed(t, task("x", "Write", domain.PriorityImportant, 0), task("y", "Read", domain.PriorityImportant, 1))
	uc := NewAssignSlot(f.store, f.sync, f.grid)

	// Execute
	out, err := uc.Execute(context.Background(), AssignSlotInput{TaskID: "x", Day: domain.Monday, BlockID: "deep-work-1"})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Len(t, out.Task.Schedule, 1)

	_, err = uc.Execute(context.Background(), AssignSlotInput{TaskID: "y", Day: domain.Monday, BlockID: "deep-work-1"})

	// Assert
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.True(t, domain.IsCapacityRejected(err))
	var se *domain.SlotError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "x", se.Holder)
	assert.Empty(t, f.get(t, "y").Schedule)
}

func TestAssignSlot_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		day     domain.Day
		block   string
		wantErr error
	}{
		{"zero capacity", domain.Monday, "lunch", domain.ErrCapacityZero},
		{"unknown block", domain.Monday, "siesta", domain.ErrUnknownBlock},
		{"invalid day", domain.Day("funday"), "admin", domain.ErrInvalidDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.seed(t, task("x", "Write", domain.PriorityImportant, 0))
			uc := NewAssignSlot(f.store, f.sync, f.grid)
			writes := f.kv.SetCalls

			_, err := uc.Execute(context.Background(), AssignSlotInput{TaskID: "x", Day: tt.day, BlockID: tt.block})

			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, writes, f.kv.SetCalls)
		})
	}
}

func TestAssignSlot_Execute_MultipleCapacity(t *testing.T) {
	f := newFixture()
	f.seed(t, task("x", "Mail", domain.PrioritySomeday, 0), task("y", "Call", domain.PrioritySomeday, 1))
	uc := NewAssignSlot(f.store, f.sync, f.grid)

	for _, id := range []string{"x", "y"} {
		_, err := uc.Execute(context.Background(), AssignSlotInput{TaskID: id, Day: domain.Friday, BlockID: "admin"})
		require.NoError(t, err)
	}

	all, err := f.store.GetAll()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x", "y"}, f.grid.Occupants(all, domain.Slot{Day: domain.Friday, BlockID: "admin"}))
}

func TestAssignSlot_Execute_RepeatIsNoOp(t *testing.T) {
	f := newFixture()
	x := task("x", "Write", domain.PriorityImportant, 0)
	x.Schedule = assignments(domain.Slot{Day: domain.Monday, BlockID: "admin"})
	f.seed(t, x)
	uc := NewAssignSlot(f.store, f.sync, f.grid)
	writes := f.kv.SetCalls

	out, err := uc.Execute(context.Background(), AssignSlotInput{TaskID: "x", Day: domain.Monday, BlockID: "admin"})

	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Equal(t, writes, f.kv.SetCalls)
	assert.Len(t, f.get(t, "x").Schedule, 1)
}

func TestAssignSlot_Execute_NewSlotReopensCompletedTask(t *testing.T) {
	f := newFixture()
	x := task("x", "Write", domain.PriorityImportant, 0)
	x.Schedule = []domain.Assignment{{Day: domain.Monday, BlockID: "admin", Completed: true}}
	x.Completed = true
	f.seed(t, x)
	uc := NewAssignSlot(f.store, f.sync, f.grid)

	out, err := uc.Execute(context.Background(), AssignSlotInput{TaskID: "x", Day: domain.Tuesday, BlockID: "admin"})

	require.NoError(t, err)
	assert.False(t, out.Task.Completed)
}

func TestUnassignSlot_Execute(t *testing.T) {
	f := newFixture()
	x := task("x", "Write", domain.PriorityImportant, 0)
	x.Schedule = assignments(monPersonal, tuePersonal)
	f.seed(t, x)
	uc := NewUnassignSlot(f.store, f.sync, f.grid)

	out, err := uc.Execute(context.Background(), UnassignSlotInput{TaskID: "x", Day: domain.Monday, BlockID: "personal"})
	require.NoError(t, err)
	require.Len(t, out.Task.Schedule, 1)
	assert.Equal(t, tuePersonal, out.Task.Schedule[0].Slot())

	_, err = uc.Execute(context.Background(), UnassignSlotInput{TaskID: "x", Day: domain.Monday, BlockID: "personal"})
	require.ErrorIs(t, err, domain.ErrNotAssigned)
}

func TestUnassignSlot_Execute_CompletesWhenRestIsDone(t *testing.T) {
	// Setup
	f := newFixture()
	x := task("x", "Write", domain.PriorityImportant, 0)
	x.Schedule = []domain.Assignment{
		{Day: domain.Monday, BlockID: "admin", Completed: true},
		{Day: domain.Tuesday, BlockID: "admin"},
	}
	f.seed(t, x)
	uc := NewUnassignSlot(f.store, f.sync, f.grid)

	// Execute
	out, err := uc.Execute(context.Background(), UnassignSlotInput{TaskID: "x", Day: domain.Tuesday, BlockID: "admin"})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.Task.Completed)
	assert.True(t, f.get(t, "x").Completed)
}

func TestUnassignAll_Execute(t *testing.T) {
	f := newFixture()
	x := task("x", "Write", domain.PriorityImportant, 0)
	x.Schedule = assignments(monPersonal)
	f.seed(t, x, task("y", "Idle", domain.PrioritySomeday, 0))
	uc := NewUnassignAll(f.store, f.sync, f.grid)

	out, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ids(out.Tasks))
	assert.Empty(t, f.get(t, "x").Schedule)
}

func TestMoveSlot_Execute(t *testing.T) {
	f := newFixture()
	x := task("x", "Write", domain.PriorityImportant, 0)
	x.Schedule = assignments(domain.Slot{Day: domain.Monday, BlockID: "deep-work-1"})
	y := task("y", "Read", domain.PriorityImportant, 1)
	y.Schedule = assignments(domain.Slot{Day: domain.Tuesday, BlockID: "deep-work-1"})
	f.seed(t, x, y)
	uc := NewMoveSlot(f.store, f.sync, f.grid)

	t.Run("rejected destination keeps source", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), MoveSlotInput{
			TaskID: "x", FromDay: domain.Monday, FromBlock: "deep-work-1", ToDay: domain.Tuesday, ToBlock: "deep-work-1",
		})
		require.ErrorIs(t, err, domain.ErrCapacityExceeded)
		x := f.get(t, "x")
		assert.True(t, x.HasSlot(domain.Slot{Day: domain.Monday, BlockID: "deep-work-1"}))
	})

	t.Run("same slot is a no-op", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), MoveSlotInput{
			TaskID: "x", FromDay: domain.Monday, FromBlock: "deep-work-1", ToDay: domain.Monday, ToBlock: "deep-work-1",
		})
		require.NoError(t, err)
		assert.False(t, out.Changed)
	})

	t.Run("moves", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), MoveSlotInput{
			TaskID: "x", FromDay: domain.Monday, FromBlock: "deep-work-1", ToDay: domain.Wednesday, ToBlock: "deep-work-2",
		})
		require.NoError(t, err)
		assert.True(t, out.Changed)
		require.Len(t, out.Task.Schedule, 1)
		assert.Equal(t, domain.Slot{Day: domain.Wednesday, BlockID: "deep-work-2"}, out.Task.Schedule[0].Slot())
	})

	t.Run("source not assigned", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), MoveSlotInput{
			TaskID: "x", FromDay: domain.Monday, FromBlock: "deep-work-1", ToDay: domain.Friday, ToBlock: "admin",
		})
		require.ErrorIs(t, err, domain.ErrNotAssigned)
	})
}

func TestSetSchedule_Execute(t *testing.T) {
	f := newFixture()
	x := task("x", "Write", domain.PriorityImportant, 0)
	x.Schedule = []domain.Assignment{
		{Day: domain.Monday, BlockID: "personal", Completed: true},
		{Day: domain.Tuesday, BlockID: "personal"},
	}
	f.seed(t, x)
	uc := NewSetSchedule(f.store, f.sync, f.grid)

	out, err := uc.Execute(context.Background(), SetScheduleInput{
		TaskID: "x",
		Slots: []domain.Slot{
			monPersonal,
			{Day: domain.Thursday, BlockID: "admin"},
			{Day: domain.Thursday, BlockID: "admin"},
		},
	})

	require.NoError(t, err)
	require.Len(t, out.Task.Schedule, 2)
	assert.True(t, out.Task.Schedule[0].Completed)
	assert.False(t, out.Task.Schedule[1].Completed)
	assert.False(t, out.Task.Completed)
}

func TestSetSchedule_Execute_RejectionWritesNothing(t *testing.T) {
	f := newFixture()
	x := task("x", "Write", domain.PriorityImportant, 0)
	x.Schedule = assignments(monPersonal)
	y := task("y", "Holder", domain.PriorityImportant, 1)
	y.Schedule = assignments(domain.Slot{Day: domain.Friday, BlockID: "deep-work-2"})
	f.seed(t, x, y)
	uc := NewSetSchedule(f.store, f.sync, f.grid)

	_, err := uc.Execute(context.Background(), SetScheduleInput{
		TaskID: "x",
		Slots:  []domain.Slot{{Day: domain.Friday, BlockID: "deep-work-2"}},
	})

	require.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Equal(t, []domain.Assignment{{Day: domain.Monday, BlockID: "personal"}}, f.get(t, "x").Schedule)
}

func TestSetSchedule_Execute_Clear(t *testing.T) {
	f := newFixture()
	x := task("x", "Write", domain.PriorityImportant, 0)
	x.Schedule = assignments(monPersonal)
	f.seed(t, x)
	uc := NewSetSchedule(f.store, f.sync, f.grid)

	out, err := uc.Execute(context.Background(), SetScheduleInput{TaskID: "x"})

	require.NoError(t, err)
	assert.Empty(t, out.Task.Schedule)
}
