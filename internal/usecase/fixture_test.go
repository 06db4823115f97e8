package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/testutil"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// fixture wires a TaskStore and SyncEngine over in-memory doubles.
type fixture struct {
	kv       *testutil.MockKVStore
	ids      *testutil.SequenceIDs
	logger   *testutil.MockLogger
	notifier *testutil.MockNotifier
	clock    *testutil.MockClock
	table    *testutil.MockRemoteTable
	dialer   *testutil.MockDialer
	store    *shared.TaskStore
	sync     *shared.SyncEngine
	grid     *domain.ScheduleGrid
}

// testNow is a Wednesday.
var testNow = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		kv:       testutil.NewMockKVStore(),
		ids:      &testutil.SequenceIDs{},
		logger:   &testutil.MockLogger{},
		notifier: &testutil.MockNotifier{},
		clock:    &testutil.MockClock{NowTime: testNow},
		table:    testutil.NewMockRemoteTable(),
		grid:     domain.NewScheduleGrid(domain.DefaultCatalog()),
	}
	f.dialer = &testutil.MockDialer{Table: f.table}
	f.store = shared.NewTaskStore(f.kv, f.ids, f.logger)
	f.sync = shared.NewSyncEngine(f.dialer, f.clock, f.logger, f.notifier)
	return f
}

// connect installs a ready session over the mock table.
func (f *fixture) connect() {
	f.table.SeedSheets()
	f.sync.SetSession(testutil.ConnectedSession(), f.table)
}

func (f *fixture) seed(t *testing.T, tasks ...domain.Task) {
	t.Helper()
	for i := range tasks {
		if tasks[i].Schedule == nil {
			tasks[i].Schedule = []domain.Assignment{}
		}
		if tasks[i].Type == "" {
			tasks[i].Type = domain.TypeHome
		}
		if tasks[i].Energy == "" {
			tasks[i].Energy = domain.EnergyLow
		}
	}
	require.NoError(t, f.store.ReplaceAll(tasks))
}

func (f *fixture) get(t *testing.T, id string) domain.Task {
	t.Helper()
	task, err := f.store.GetByID(id)
	require.NoError(t, err)
	return *task
}

func task(id, title string, p domain.Priority, order int) domain.Task {
	t := domain.Task{ID: id, Title: title, Priority: p, DisplayOrder: order}
	if p == domain.PriorityCritical {
		t.Deadline = "2025-01-31"
	}
	return t
}

func assignments(slots ...domain.Slot) []domain.Assignment {
	out := make([]domain.Assignment, 0, len(slots))
	for _, s := range slots {
		out = append(out, domain.Assignment{Day: s.Day, BlockID: s.BlockID})
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
