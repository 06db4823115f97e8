package shared

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/testutil"
)

type engineFixture struct {
	engine   *SyncEngine
	table    *testutil.MockRemoteTable
	logger   *testutil.MockLogger
	notifier *testutil.MockNotifier
}

func newEngineFixture(connected bool) engineFixture {
	table := testutil.NewMockRemoteTable()
	table.SeedSheets()
	logger := &testutil.MockLogger{}
	notifier := &testutil.MockNotifier{}
	clock := &testutil.MockClock{NowTime: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	engine := NewSyncEngine(&testutil.MockDialer{Table: table}, clock, logger, notifier)
	if connected {
		engine.SetSession(testutil.ConnectedSession(), table)
	}
	return engineFixture{engine: engine, table: table, logger: logger, notifier: notifier}
}

func syncTask(id, title string) domain.Task {
	return domain.Task{
		ID: id, Title: title, Priority: domain.PriorityImportant, Type: domain.TypeWork,
		Energy: domain.EnergyLow, Schedule: []domain.Assignment{},
	}
}

func TestSyncEngine_CreateAppendsThenOverwrites(t *testing.T) {
	f := newEngineFixture(true)
	ctx := context.Background()

	require.NoError(t, f.engine.SyncCreate(ctx, syncTask("t1", "First")))
	require.NoError(t, f.engine.SyncCreate(ctx, syncTask("t1", "First again")))

	rows := f.table.Rows(domain.ActiveSheetTitle)
	require.Len(t, rows, 2, "header plus one data row")
	assert.Equal(t, "First again", rows[1][1])
	assert.Equal(t, 1, f.table.CallCount("AppendRow"))
	assert.Equal(t, 1, f.table.CallCount("OverwriteRow"))
}

func TestSyncEngine_UpdateOfAbsentTaskCreates(t *testing.T) {
	f := newEngineFixture(true)
	_, err := f.engine.Title(context.Background())
	require.NoError(t, err)
	reads := f.table.CallCount("GetAllRows")

	require.NoError(t, f.engine.SyncUpdate(context.Background(), syncTask("t9", "Late arrival")))

	assert.Equal(t, reads+1, f.table.CallCount("GetAllRows"), "one lookup before appending")
	assert.Equal(t, 1, f.table.CallCount("AppendRow"))
	assert.Zero(t, f.table.CallCount("OverwriteRow"))
	assert.Len(t, f.table.Rows(domain.ActiveSheetTitle), 2)
}

func TestSyncEngine_UpdateOverwritesExistingRow(t *testing.T) {
	f := newEngineFixture(true)
	ctx := context.Background()
	require.NoError(t, f.engine.SyncCreate(ctx, syncTask("a", "A")))
	require.NoError(t, f.engine.SyncCreate(ctx, syncTask("b", "B")))

	updated := syncTask("b", "B2")
	updated.Completed = true
	require.NoError(t, f.engine.SyncUpdate(ctx, updated))

	rows := f.table.Rows(domain.ActiveSheetTitle)
	assert.Equal(t, "B2", rows[2][1])
	assert.Equal(t, "true", rows[2][6])
}

func TestSyncEngine_DeleteArchivesThenRemoves(t *testing.T) {
	f := newEngineFixture(true)
	ctx := context.Background()
	task := syncTask("d1", "Gone")
	require.NoError(t, f.engine.SyncCreate(ctx, task))

	require.NoError(t, f.engine.SyncDelete(ctx, task))

	assert.Len(t, f.table.Rows(domain.ActiveSheetTitle), 1)
	deleted := f.table.Rows(domain.DeletedSheetTitle)
	require.Len(t, deleted, 2)
	assert.Equal(t, "d1", deleted[1][0])
	assert.Equal(t, "2026-10-15T09:00:00.000Z", deleted[1][len(deleted[1])-1])
}

func TestSyncEngine_DeletePartialFailure(t *testing.T) {
	f := newEngineFixture(true)
	f.table.Errs["GetAllRows:"+domain.ActiveSheetTitle] = errors.New("quota exceeded")

	err := f.engine.SyncDelete(context.Background(), syncTask("d2", "Half gone"))

	var partial *domain.PartialSyncError
	require.ErrorAs(t, err, &partial)
	assert.NoError(t, partial.AppendErr)
	assert.Error(t, partial.RemoveErr)
	assert.Len(t, f.table.Rows(domain.DeletedSheetTitle), 2, "archive succeeded")
}

func TestSyncEngine_DeleteStillRemovesWhenArchiveFails(t *testing.T) {
	f := newEngineFixture(true)
	ctx := context.Background()
	task := syncTask("d3", "Stubborn")
	require.NoError(t, f.engine.SyncCreate(ctx, task))
	f.table.Errs["AppendRow:"+domain.DeletedSheetTitle] = errors.New("forbidden")

	err := f.engine.SyncDelete(ctx, task)

	var partial *domain.PartialSyncError
	require.ErrorAs(t, err, &partial)
	assert.Error(t, partial.AppendErr)
	assert.NoError(t, partial.RemoveErr)
	assert.Len(t, f.table.Rows(domain.ActiveSheetTitle), 1)
}

func TestSyncEngine_NoSessionIsNoOp(t *testing.T) {
	f := newEngineFixture(false)

	assert.NoError(t, f.engine.SyncCreate(context.Background(), syncTask("t", "T")))
	assert.NoError(t, f.engine.SyncDelete(context.Background(), syncTask("t", "T")))
	assert.Empty(t, f.table.Calls)
	assert.Equal(t, 2, f.logger.Count("warn"))

	_, err := f.engine.FullImport(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestSyncEngine_ExportImportRoundTrip(t *testing.T) {
	f := newEngineFixture(true)
	ctx := context.Background()
	a := syncTask("a", "Alpha")
	a.DisplayOrder = 3
	b := syncTask("b", "Beta")
	b.Priority = domain.PriorityCritical
	b.Deadline = "2026-10-31"
	b.Completed = true

	n, err := f.engine.FullExport(ctx, []domain.Task{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, f.table.CallCount("WriteRows"))

	first, err := f.engine.FullImport(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Task{a, b}, first)

	_, err = f.engine.FullExport(ctx, first)
	require.NoError(t, err)
	second, err := f.engine.FullImport(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSyncEngine_ImportBackfillsOrderAndSkipsHeader(t *testing.T) {
	f := newEngineFixture(true)
	f.table.Sheets[domain.ActiveSheetTitle] = [][]string{
		domain.ActiveHeaders(),
		{"x", "No order", "", "SOMEDAY", "", "home", "false", ""},
		{"", "", "", "", "", "", "", ""},
		{"y", "Has order", "", "IMPORTANT", "", "work", "True", "9"},
	}

	tasks, err := f.engine.FullImport(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 0, tasks[0].DisplayOrder)
	assert.Equal(t, 9, tasks[1].DisplayOrder)
	assert.True(t, tasks[1].Completed)
}

func TestSyncEngine_ExportEmptyCollectionKeepsHeader(t *testing.T) {
	f := newEngineFixture(true)
	require.NoError(t, f.engine.SyncCreate(context.Background(), syncTask("a", "A")))

	n, err := f.engine.FullExport(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, [][]string{domain.ActiveHeaders()}, f.table.Rows(domain.ActiveSheetTitle))
}

func TestSyncEngine_DispatchReportsOutcome(t *testing.T) {
	f := newEngineFixture(true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.engine.Dispatch(ctx, SyncOpCreate, syncTask("a", "A"))
	f.engine.Wait()
	assert.Equal(t, []domain.NotifyLevel{domain.NotifySuccess}, f.notifier.Levels(), "cancelled caller context does not cancel the sync")

	f.table.Errs["AppendRow"] = errors.New("boom")
	f.engine.Dispatch(context.Background(), SyncOpCreate, syncTask("b", "B"))
	f.engine.Wait()
	assert.Equal(t, []domain.NotifyLevel{domain.NotifySuccess, domain.NotifyError}, f.notifier.Levels())
	assert.Equal(t, 2, f.table.CallCount("AppendRow"), "failed call is not retried")
}

func TestSyncEngine_DispatchWithoutSession(t *testing.T) {
	f := newEngineFixture(false)
	f.engine.Dispatch(context.Background(), SyncOpUpdate, syncTask("a", "A"))
	f.engine.Wait()

	assert.Empty(t, f.notifier.Notifications)
	assert.Equal(t, 1, f.logger.Count("warn"))
}

func TestSyncEngine_DialsLazily(t *testing.T) {
	table := testutil.NewMockRemoteTable()
	table.SeedSheets()
	dialer := &testutil.MockDialer{Table: table}
	engine := NewSyncEngine(dialer, &testutil.MockClock{}, &testutil.MockLogger{}, &testutil.MockNotifier{})
	engine.SetSession(testutil.ConnectedSession(), nil)

	require.NoError(t, engine.SyncCreate(context.Background(), syncTask("a", "A")))
	require.NoError(t, engine.SyncCreate(context.Background(), syncTask("b", "B")))
	assert.Equal(t, 1, dialer.Dials)
	assert.Equal(t, "token", dialer.Token)
}

func TestSyncEngine_AutoSyncOff(t *testing.T) {
	f := newEngineFixture(true)
	f.engine.SetAutoSync(false)

	f.engine.Dispatch(context.Background(), SyncOpCreate, syncTask("a", "A"))
	f.engine.Wait()

	assert.Empty(t, f.table.Calls)
	assert.Empty(t, f.notifier.Notifications)
}
