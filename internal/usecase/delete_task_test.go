package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

func TestDeleteTask_Execute(t *testing.T) {
	f := newFixture()
	f.seed(t, task("a", "Keep", domain.PrioritySomeday, 0), task("b", "Drop", domain.PrioritySomeday, 1))
	uc := NewDeleteTask(f.store, f.sync)

	out, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "b"})

	require.NoError(t, err)
	assert.Equal(t, "Drop", out.Task.Title)
	all, err := f.store.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a", all[0].ID)
}

func TestDeleteTask_Execute_NotFound(t *testing.T) {
	f := newFixture()
	uc := NewDeleteTask(f.store, f.sync)

	_, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "nope"})

	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteTask_Execute_ArchivesRemotely(t *testing.T) {
	f := newFixture()
	f.seed(t, task("a", "Archive me", domain.PrioritySomeday, 0))
	f.connect()
	require.NoError(t, f.sync.SyncCreate(context.Background(), f.get(t, "a")))
	uc := NewDeleteTask(f.store, f.sync)

	_, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "a"})
	require.NoError(t, err)
	f.sync.Wait()

	assert.Len(t, f.table.Rows(domain.ActiveSheetTitle), 1)
	deleted := f.table.Rows(domain.DeletedSheetTitle)
	require.Len(t, deleted, 2)
	assert.Equal(t, "a", deleted[1][0])
}

func TestDeleteTask_Execute_PartialSyncIsWarned(t *testing.T) {
	f := newFixture()
	f.seed(t, task("a", "Half done", domain.PrioritySomeday, 0))
	f.connect()
	f.table.Errs["GetAllRows:"+domain.ActiveSheetTitle] = errors.New("timeout")
	uc := NewDeleteTask(f.store, f.sync)

	_, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "a"})
	require.NoError(t, err)
	f.sync.Wait()

	assert.Len(t, f.table.Rows(domain.DeletedSheetTitle), 2)
	assert.Equal(t, []domain.NotifyLevel{domain.NotifyWarn}, f.notifier.Levels())
}
