package shared

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

// SyncOp names a single-task mirror operation.
type SyncOp string

// SyncOp values.
const (
	SyncOpCreate SyncOp = "create"
	SyncOpUpdate SyncOp = "update"
	SyncOpDelete SyncOp = "delete"
)

// SyncEngine mirrors task changes to a remote table. It never retries and never
// cancels a call it started; every failure is reported once through the notifier.
type SyncEngine struct {
	dialer   domain.RemoteDialer
	clock    domain.Clock
	logger   domain.Logger
	notifier domain.Notifier
	session  *domain.SyncSession
	table    domain.RemoteTable
	wg       sync.WaitGroup
	mu       sync.Mutex
	manual   bool // background sync disabled
}

// NewSyncEngine creates a SyncEngine with no session.
func NewSyncEngine(dialer domain.RemoteDialer, clock domain.Clock, logger domain.Logger, notifier domain.Notifier) *SyncEngine {
	return &SyncEngine{
		dialer:   dialer,
		clock:    clock,
		logger:   logger,
		notifier: notifier,
	}
}

// SetAutoSync enables or disables background mirroring by Dispatch.
func (e *SyncEngine) SetAutoSync(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.manual = !enabled
}

// SetSession installs a session. table may be nil, in which case it is dialed on first use.
// A nil session disconnects the engine.
func (e *SyncEngine) SetSession(s *domain.SyncSession, table domain.RemoteTable) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s == nil {
		e.session, e.table = nil, nil
		return
	}
	c := *s
	e.session, e.table = &c, table
}

// Session returns a copy of the current session, or nil.
func (e *SyncEngine) Session() *domain.SyncSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	c := *e.session
	return &c
}

// Connected reports whether the session has everything a sync call needs.
func (e *SyncEngine) Connected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Ready() == nil
}

// connection returns the session and its table, dialing the table if needed.
func (e *SyncEngine) connection(ctx context.Context) (domain.SyncSession, domain.RemoteTable, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.session.Ready(); err != nil {
		return domain.SyncSession{}, nil, err
	}
	if e.table == nil {
		table, err := e.dialer.Dial(ctx, e.session.Endpoint, e.session.AuthToken)
		if err != nil {
			return domain.SyncSession{}, nil, &domain.RemoteCallError{Op: "dial", Err: err}
		}
		e.table = table
	}
	return *e.session, e.table, nil
}

// Title returns the remote document's title.
func (e *SyncEngine) Title(ctx context.Context) (string, error) {
	sess, table, err := e.connection(ctx)
	if err != nil {
		return "", err
	}
	title, err := table.Title(ctx, sess.CollectionID)
	if err != nil {
		return "", &domain.RemoteCallError{Op: "get title", Err: err}
	}
	return title, nil
}

// SyncCreate writes task to the active sheet, overwriting an existing row with the same id.
// Without a session it logs a warning and does nothing.
func (e *SyncEngine) SyncCreate(ctx context.Context, task domain.Task) error {
	sess, table, err := e.connection(ctx)
	if err != nil {
		return e.unavailable(task.ID, SyncOpCreate, err)
	}
	return e.upsert(ctx, sess, table, task)
}

// SyncUpdate overwrites the task's active row, appending one when none exists.
// Without a session it logs a warning and does nothing.
func (e *SyncEngine) SyncUpdate(ctx context.Context, task domain.Task) error {
	sess, table, err := e.connection(ctx)
	if err != nil {
		return e.unavailable(task.ID, SyncOpUpdate, err)
	}
	row, err := e.findRow(ctx, sess, table, sess.ActiveSheet, sess.ActiveHeaders, task.ID)
	if err != nil {
		return err
	}
	values := domain.TaskToRow(task, sess.ActiveHeaders, e.clock.Now())
	if row == 0 {
		e.logger.Info(task.ID, "sync", "no active row to update, creating one")
		if err := table.AppendRow(ctx, sess.CollectionID, sess.ActiveSheet, values); err != nil {
			return &domain.RemoteCallError{Op: "append row", Sheet: sess.ActiveSheet.Title, Err: err}
		}
		return nil
	}
	if err := table.OverwriteRow(ctx, sess.CollectionID, sess.ActiveSheet, row, values); err != nil {
		return &domain.RemoteCallError{Op: "overwrite row", Sheet: sess.ActiveSheet.Title, Err: err}
	}
	return nil
}

// SyncDelete archives task to the deleted sheet, then removes its active row.
// The removal is attempted even when archiving fails; a failure on either side
// is returned as *domain.PartialSyncError. A missing active row is not a failure.
func (e *SyncEngine) SyncDelete(ctx context.Context, task domain.Task) error {
	sess, table, err := e.connection(ctx)
	if err != nil {
		return e.unavailable(task.ID, SyncOpDelete, err)
	}

	var appendErr, removeErr error
	values := domain.TaskToRow(task, sess.DeletedHeaders, e.clock.Now())
	if err := table.AppendRow(ctx, sess.CollectionID, sess.DeletedSheet, values); err != nil {
		appendErr = &domain.RemoteCallError{Op: "append row", Sheet: sess.DeletedSheet.Title, Err: err}
	}

	row, err := e.findRow(ctx, sess, table, sess.ActiveSheet, sess.ActiveHeaders, task.ID)
	switch {
	case err != nil:
		removeErr = err
	case row == 0:
		e.logger.Warn(task.ID, "sync", "no active row to remove")
	default:
		if err := table.DeleteRow(ctx, sess.CollectionID, sess.ActiveSheet, row); err != nil {
			removeErr = &domain.RemoteCallError{Op: "delete row", Sheet: sess.ActiveSheet.Title, Err: err}
		}
	}

	if appendErr != nil || removeErr != nil {
		return &domain.PartialSyncError{TaskID: task.ID, AppendErr: appendErr, RemoveErr: removeErr}
	}
	return nil
}

// FullExport replaces the active sheet's contents with tasks, keeping the header row.
// It returns the number of rows written.
func (e *SyncEngine) FullExport(ctx context.Context, tasks []domain.Task) (int, error) {
	sess, table, err := e.connection(ctx)
	if err != nil {
		return 0, err
	}
	if err := table.ClearAndKeepHeader(ctx, sess.CollectionID, sess.ActiveSheet, sess.ActiveHeaders); err != nil {
		return 0, &domain.RemoteCallError{Op: "clear sheet", Sheet: sess.ActiveSheet.Title, Err: err}
	}
	if len(tasks) == 0 {
		return 0, nil
	}

	now := e.clock.Now()
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, domain.TaskToRow(t, sess.ActiveHeaders, now))
	}
	if err := table.WriteRows(ctx, sess.CollectionID, sess.ActiveSheet, 2, rows); err != nil {
		return 0, &domain.RemoteCallError{Op: "write rows", Sheet: sess.ActiveSheet.Title, Err: err}
	}
	return len(rows), nil
}

// FullImport reads the active sheet and returns its rows as tasks.
// A header row is skipped, blank rows are ignored, and a missing display order
// takes the row's position among the data rows.
func (e *SyncEngine) FullImport(ctx context.Context) ([]domain.Task, error) {
	sess, table, err := e.connection(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := table.GetAllRows(ctx, sess.CollectionID, sess.ActiveSheet)
	if err != nil {
		return nil, &domain.RemoteCallError{Op: "get rows", Sheet: sess.ActiveSheet.Title, Err: err}
	}
	if len(rows) > 0 && (domain.IsHeaderRow(rows[0], sess.ActiveHeaders) || firstCell(rows[0]) == domain.HeaderTaskID) {
		rows = rows[1:]
	}

	tasks := make([]domain.Task, 0, len(rows))
	for pos, row := range rows {
		if blank(row) {
			continue
		}
		rt := domain.RowToTask(row, sess.ActiveHeaders)
		if rt.Title == "" {
			e.logger.Warn(rt.ID, "sync", fmt.Sprintf("skipping untitled row %d", pos+2))
			continue
		}
		tasks = append(tasks, rt.Task(pos))
	}
	return tasks, nil
}

// Dispatch runs op for task in the background and reports the outcome through the notifier.
// The call outlives ctx's cancellation. Without a session it only logs a warning.
func (e *SyncEngine) Dispatch(ctx context.Context, op SyncOp, task domain.Task) {
	e.mu.Lock()
	manual := e.manual
	e.mu.Unlock()
	if manual {
		e.logger.Debug(task.ID, "sync", fmt.Sprintf("%s not mirrored: auto sync is off", op))
		return
	}
	if !e.Connected() {
		e.logger.Warn(task.ID, "sync", fmt.Sprintf("%s skipped: %v", op, domain.ErrRemoteUnavailable))
		return
	}
	ctx = context.WithoutCancel(ctx)
	task = task.Clone()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.report(op, task, e.run(ctx, op, task))
	}()
}

// Wait blocks until every dispatched call has finished.
func (e *SyncEngine) Wait() {
	e.wg.Wait()
}

func (e *SyncEngine) run(ctx context.Context, op SyncOp, task domain.Task) error {
	switch op {
	case SyncOpCreate:
		return e.SyncCreate(ctx, task)
	case SyncOpUpdate:
		return e.SyncUpdate(ctx, task)
	case SyncOpDelete:
		return e.SyncDelete(ctx, task)
	}
	return fmt.Errorf("unknown sync op %q", op)
}

func (e *SyncEngine) report(op SyncOp, task domain.Task, err error) {
	n := domain.Notification{Time: e.clock.Now(), TaskID: task.ID}
	var partial *domain.PartialSyncError
	switch {
	case err == nil:
		n.Level = domain.NotifySuccess
		n.Message = fmt.Sprintf("Synced %s of %q", op, task.Title)
		e.logger.Debug(task.ID, "sync", n.Message)
	case errors.As(err, &partial):
		n.Level = domain.NotifyWarn
		n.Message = partial.Error()
		e.logger.Warn(task.ID, "sync", n.Message)
	default:
		n.Level = domain.NotifyError
		n.Message = fmt.Sprintf("Sync %s of %q failed: %v", op, task.Title, err)
		e.logger.Error(task.ID, "sync", n.Message)
	}
	if e.notifier != nil {
		e.notifier.Notify(n)
	}
}

func (e *SyncEngine) upsert(ctx context.Context, sess domain.SyncSession, table domain.RemoteTable, task domain.Task) error {
	row, err := e.findRow(ctx, sess, table, sess.ActiveSheet, sess.ActiveHeaders, task.ID)
	if err != nil {
		return err
	}
	values := domain.TaskToRow(task, sess.ActiveHeaders, e.clock.Now())
	if row > 0 {
		if err := table.OverwriteRow(ctx, sess.CollectionID, sess.ActiveSheet, row, values); err != nil {
			return &domain.RemoteCallError{Op: "overwrite row", Sheet: sess.ActiveSheet.Title, Err: err}
		}
		return nil
	}
	if err := table.AppendRow(ctx, sess.CollectionID, sess.ActiveSheet, values); err != nil {
		return &domain.RemoteCallError{Op: "append row", Sheet: sess.ActiveSheet.Title, Err: err}
	}
	return nil
}

func (e *SyncEngine) findRow(ctx context.Context, sess domain.SyncSession, table domain.RemoteTable, sheet domain.SheetRef, headers []string, taskID string) (int, error) {
	rows, err := table.GetAllRows(ctx, sess.CollectionID, sheet)
	if err != nil {
		return 0, &domain.RemoteCallError{Op: "get rows", Sheet: sheet.Title, Err: err}
	}
	row, err := domain.FindRowIndex(rows, headers, taskID)
	if err != nil {
		return 0, &domain.RemoteCallError{Op: "find row", Sheet: sheet.Title, Err: err}
	}
	return row, nil
}

func (e *SyncEngine) unavailable(taskID string, op SyncOp, err error) error {
	if errors.Is(err, domain.ErrRemoteUnavailable) {
		e.logger.Warn(taskID, "sync", fmt.Sprintf("%s skipped: %v", op, err))
		return nil
	}
	return err
}

func firstCell(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

func blank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
