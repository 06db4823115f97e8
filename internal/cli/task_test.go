package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/app"
	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/testutil"
)

// newTestContainer creates an app.Container with mock dependencies.
func newTestContainer(t *testing.T) *app.Container {
	t.Helper()
	c := app.NewWithDeps(app.Config{}, app.Deps{
		KV:         testutil.NewMockKVStore(),
		Clock:      &testutil.MockClock{NowTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		IDs:        &testutil.SequenceIDs{},
		Dialer:     &testutil.MockDialer{Table: testutil.NewMockRemoteTable()},
		Sessions:   &testutil.MockSessionStore{},
		Notifier:   &testutil.MockNotifier{},
		TaskLogger: &testutil.MockLogger{},
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// runCommand executes cmd with args and returns its stdout.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// mustAdd creates a task through the add command.
func mustAdd(t *testing.T, c *app.Container, args ...string) {
	t.Helper()
	_, err := runCommand(t, newAddCommand(c), args...)
	require.NoError(t, err)
}

// =============================================================================
// Add Command Tests
// =============================================================================

func TestAddCommand_CreateTask(t *testing.T) {
	// Setup
	c := newTestContainer(t)

	// Execute
	out, err := runCommand(t, newAddCommand(c), "Water plants")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Created task task_1")
	task, err := c.Store.GetByID("task_1")
	require.NoError(t, err)
	assert.Equal(t, "Water plants", task.Title)
	assert.Equal(t, domain.PrioritySomeday, task.Priority)
	assert.Equal(t, domain.TypeHome, task.Type)
	assert.Equal(t, domain.EnergyLow, task.Energy)
}

func TestAddCommand_AllFields(t *testing.T) {
	c := newTestContainer(t)

	_, err := runCommand(t, newAddCommand(c),
		"--title", "File taxes", "-p", "critical", "--deadline", "2026-04-15",
		"--type", "work", "--energy", "high", "--url", "https://example.com")

	require.NoError(t, err)
	task, err := c.Store.GetByID("task_1")
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityCritical, task.Priority)
	assert.Equal(t, "2026-04-15", task.Deadline)
	assert.Equal(t, domain.TypeWork, task.Type)
	assert.Equal(t, domain.EnergyHigh, task.Energy)
	assert.Equal(t, "https://example.com", task.URL)
}

func TestAddCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no title", args: nil},
		{name: "bad priority", args: []string{"Task", "-p", "urgent"}},
		{name: "critical without deadline", args: []string{"Task", "-p", "critical"}},
		{name: "dry run without file", args: []string{"Task", "--dry-run"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContainer(t)

			_, err := runCommand(t, newAddCommand(c), tt.args...)

			assert.Error(t, err)
			tasks, listErr := c.Store.GetAll()
			require.NoError(t, listErr)
			assert.Empty(t, tasks)
		})
	}
}

func TestAddCommand_FromFile(t *testing.T) {
	// Setup
	c := newTestContainer(t)
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	content := "title: One\n---\ntitle: Two\npriority: IMPORTANT\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// Execute dry run
	out, err := runCommand(t, newAddCommand(c), "--from-file", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would create 2 tasks")
	tasks, err := c.Store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// Execute
	out, err = runCommand(t, newAddCommand(c), "--from-file", path)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Created 2 tasks")
	tasks, err = c.Store.GetAll()
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

// =============================================================================
// List / Show Command Tests
// =============================================================================

func TestListCommand_Filters(t *testing.T) {
	// Setup
	c := newTestContainer(t)
	mustAdd(t, c, "Home chore")
	mustAdd(t, c, "Work report", "-p", "important", "--type", "work")

	// Execute
	out, err := runCommand(t, newListCommand(c), "--type", "work")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Work report")
	assert.NotContains(t, out, "Home chore")
	assert.Contains(t, out, "TITLE")
}

func TestListCommand_Empty(t *testing.T) {
	c := newTestContainer(t)

	out, err := runCommand(t, newListCommand(c))

	require.NoError(t, err)
	assert.Contains(t, out, "No tasks")
}

func TestShowCommand(t *testing.T) {
	// Setup
	c := newTestContainer(t)
	mustAdd(t, c, "Pay rent", "-p", "critical", "--deadline", "2026-03-01")
	_, err := runCommand(t, newAssignCommand(c), "task_1", "mon", "admin")
	require.NoError(t, err)

	// Execute
	out, err := runCommand(t, newShowCommand(c), "task_1")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Pay rent")
	assert.Contains(t, out, "overdue")
	assert.Contains(t, out, "monday/admin")
}

func TestShowCommand_NotFound(t *testing.T) {
	c := newTestContainer(t)

	_, err := runCommand(t, newShowCommand(c), "task_9")

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

// =============================================================================
// Edit Command Tests
// =============================================================================

func TestEditCommand_Flags(t *testing.T) {
	// Setup
	c := newTestContainer(t)
	mustAdd(t, c, "Old title")

	// Execute
	out, err := runCommand(t, newEditCommand(c), "task_1", "--title", "New title", "-p", "important")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Updated task task_1")
	task, err := c.Store.GetByID("task_1")
	require.NoError(t, err)
	assert.Equal(t, "New title", task.Title)
	assert.Equal(t, domain.PriorityImportant, task.Priority)
}

func TestEditCommand_Editor(t *testing.T) {
	// Setup
	c := newTestContainer(t)
	mustAdd(t, c, "Draft")
	orig := openEditorFunc
	t.Cleanup(func() { openEditorFunc = orig })
	openEditorFunc = func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		edited := strings.Replace(string(data), "title: Draft", "title: Final", 1)
		return os.WriteFile(path, []byte(edited), 0o600)
	}

	// Execute
	out, err := runCommand(t, newEditCommand(c), "task_1")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Updated task task_1")
	task, err := c.Store.GetByID("task_1")
	require.NoError(t, err)
	assert.Equal(t, "Final", task.Title)
}

func TestEditCommand_EditorNoChanges(t *testing.T) {
	c := newTestContainer(t)
	mustAdd(t, c, "Same")
	orig := openEditorFunc
	t.Cleanup(func() { openEditorFunc = orig })
	openEditorFunc = func(string) error { return nil }

	out, err := runCommand(t, newEditCommand(c), "task_1")

	require.NoError(t, err)
	assert.Contains(t, out, "No changes made")
}

// =============================================================================
// Rm / Done / Order Command Tests
// =============================================================================

func TestRmCommand(t *testing.T) {
	c := newTestContainer(t)
	mustAdd(t, c, "Obsolete")

	out, err := runCommand(t, newRmCommand(c), "task_1")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted task task_1")
	_, err = c.Store.GetByID("task_1")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDoneCommand_TaskAndSlot(t *testing.T) {
	// Setup
	c := newTestContainer(t)
	mustAdd(t, c, "Inbox zero")
	_, err := runCommand(t, newScheduleCommand(c), "task_1", "--slot", "mon/admin", "--slot", "tue/admin")
	require.NoError(t, err)

	// Execute: one slot done leaves the task open
	_, err = runCommand(t, newDoneCommand(c), "task_1", "--day", "mon", "--block", "admin")
	require.NoError(t, err)
	task, err := c.Store.GetByID("task_1")
	require.NoError(t, err)
	assert.False(t, task.Completed)

	// Execute: task done cascades to every slot
	_, err = runCommand(t, newDoneCommand(c), "task_1")
	require.NoError(t, err)
	task, err = c.Store.GetByID("task_1")
	require.NoError(t, err)

	// Assert
	assert.True(t, task.Completed)
	for _, a := range task.Schedule {
		assert.True(t, a.Completed)
	}

	// Undo reopens everything
	_, err = runCommand(t, newUndoCommand(c), "task_1")
	require.NoError(t, err)
	task, err = c.Store.GetByID("task_1")
	require.NoError(t, err)
	assert.False(t, task.Completed)
}

func TestDoneCommand_DayWithoutBlock(t *testing.T) {
	c := newTestContainer(t)
	mustAdd(t, c, "Task")

	_, err := runCommand(t, newDoneCommand(c), "task_1", "--day", "mon")

	assert.Error(t, err)
}

func TestMoveLaneCommand(t *testing.T) {
	// Setup
	c := newTestContainer(t)
	mustAdd(t, c, "First")
	mustAdd(t, c, "Second")

	// Execute
	out, err := runCommand(t, newMoveLaneCommand(c, "up"), "task_2")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved task task_2 up")

	out, err = runCommand(t, newMoveLaneCommand(c, "up"), "task_2")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "already at the top")
	first, err := c.Store.GetByID("task_2")
	require.NoError(t, err)
	second, err := c.Store.GetByID("task_1")
	require.NoError(t, err)
	assert.Less(t, first.DisplayOrder, second.DisplayOrder)
}

func TestReorderCommand(t *testing.T) {
	c := newTestContainer(t)
	mustAdd(t, c, "A")
	mustAdd(t, c, "B")
	mustAdd(t, c, "C")

	_, err := runCommand(t, newReorderCommand(c), "someday", "task_3", "task_1", "task_2")

	require.NoError(t, err)
	out, err := runCommand(t, newListCommand(c))
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "task_3"), strings.Index(out, "task_1"))
	assert.Less(t, strings.Index(out, "task_1"), strings.Index(out, "task_2"))
}
