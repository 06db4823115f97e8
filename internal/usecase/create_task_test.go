package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

func TestCreateTask_Execute_Defaults(t *testing.T) {
	// Setup
	f := newFixture()
	uc := NewCreateTask(f.store, f.sync)

	// Execute
	out, err := uc.Execute(context.Background(), CreateTaskInput{Title: "  Buy milk  "})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "task_1", out.Task.ID)
	assert.Equal(t, "Buy milk", out.Task.Title)
	assert.Equal(t, domain.PrioritySomeday, out.Task.Priority)
	assert.Equal(t, domain.TypeHome, out.Task.Type)
	assert.Equal(t, domain.EnergyLow, out.Task.Energy)
	assert.Empty(t, out.Task.Schedule)
	assert.NotNil(t, out.Task.Schedule)
	assert.False(t, out.Task.Completed)
}

func TestCreateTask_Execute_LaneOrderInCreationOrder(t *testing.T) {
	f := newFixture()
	uc := NewCreateTask(f.store, f.sync)

	for i, title := range []string{"one", "two", "three"} {
		out, err := uc.Execute(context.Background(), CreateTaskInput{Title: title, Priority: domain.PriorityImportant})
		require.NoError(t, err)
		assert.Equal(t, i, out.Task.DisplayOrder)
	}
}

func TestCreateTask_Execute_DeadlineRules(t *testing.T) {
	tests := []struct {
		name     string
		in       CreateTaskInput
		deadline string
		wantErr  error
	}{
		{
			name:     "critical keeps deadline",
			in:       CreateTaskInput{Title: "x", Priority: domain.PriorityCritical, Deadline: "2025-02-01"},
			deadline: "2025-02-01",
		},
		{
			name: "deadline dropped outside critical",
			in:   CreateTaskInput{Title: "x", Priority: domain.PriorityImportant, Deadline: "2025-02-01"},
		},
		{
			name:    "critical without deadline",
			in:      CreateTaskInput{Title: "x", Priority: domain.PriorityCritical},
			wantErr: domain.ErrDeadlineRequired,
		},
		{
			name:    "malformed deadline",
			in:      CreateTaskInput{Title: "x", Priority: domain.PriorityCritical, Deadline: "02/01/2025"},
			wantErr: domain.ErrInvalidDeadline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			uc := NewCreateTask(f.store, f.sync)

			out, err := uc.Execute(context.Background(), tt.in)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, domain.IsValidation(err))
				assert.Zero(t, f.kv.SetCalls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.deadline, out.Task.Deadline)
		})
	}
}

func TestCreateTask_Execute_EmptyTitle(t *testing.T) {
	f := newFixture()
	uc := NewCreateTask(f.store, f.sync)

	_, err := uc.Execute(context.Background(), CreateTaskInput{Title: "   "})

	require.ErrorIs(t, err, domain.ErrEmptyTitle)
	assert.Zero(t, f.kv.SetCalls)
}

func TestCreateTask_Execute_MirrorsWhenConnected(t *testing.T) {
	f := newFixture()
	f.connect()
	uc := NewCreateTask(f.store, f.sync)

	out, err := uc.Execute(context.Background(), CreateTaskInput{Title: "Mirror me", Priority: domain.PriorityImportant})
	require.NoError(t, err)
	f.sync.Wait()

	rows := f.table.Rows(domain.ActiveSheetTitle)
	require.Len(t, rows, 2)
	assert.Equal(t, out.Task.ID, rows[1][0])
	assert.Equal(t, []domain.NotifyLevel{domain.NotifySuccess}, f.notifier.Levels())
}

func TestCreateTask_Execute_RemoteFailureKeepsLocalTask(t *testing.T) {
	f := newFixture()
	f.connect()
	f.table.Errs["AppendRow"] = errors.New("quota exceeded")
	uc := NewCreateTask(f.store, f.sync)

	out, err := uc.Execute(context.Background(), CreateTaskInput{Title: "Local first"})
	require.NoError(t, err)
	f.sync.Wait()

	assert.Equal(t, "Local first", f.get(t, out.Task.ID).Title)
	assert.Equal(t, []domain.NotifyLevel{domain.NotifyError}, f.notifier.Levels())
}

func TestCreateTask_Execute_WriteFailure(t *testing.T) {
	f := newFixture()
	f.kv.SetErr = errors.New("disk full")
	uc := NewCreateTask(f.store, f.sync)

	_, err := uc.Execute(context.Background(), CreateTaskInput{Title: "x"})

	require.ErrorIs(t, err, domain.ErrStorageWrite)
	assert.Empty(t, f.kv.Data)
}
