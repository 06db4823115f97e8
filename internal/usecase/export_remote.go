package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// ExportAllOutput contains the number of rows written.
type ExportAllOutput struct {
	Rows int
}

// ExportAll replaces the remote active sheet with the local collection.
type ExportAll struct {
	store    *shared.TaskStore
	sync     *shared.SyncEngine
	notifier domain.Notifier
	clock    domain.Clock
}

// NewExportAll creates a new ExportAll use case.
func NewExportAll(store *shared.TaskStore, sync *shared.SyncEngine, notifier domain.Notifier, clock domain.Clock) *ExportAll {
	return &ExportAll{store: store, sync: sync, notifier: notifier, clock: clock}
}

// Execute exports every task. The outcome is also sent to the notifier.
func (uc *ExportAll) Execute(ctx context.Context) (*ExportAllOutput, error) {
	tasks, err := uc.store.GetAll()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	domain.SortByLane(tasks)

	n, err := uc.sync.FullExport(ctx, tasks)
	if err != nil {
		notify(uc.notifier, uc.clock, domain.NotifyError, fmt.Sprintf("Export failed: %v", err))
		return nil, fmt.Errorf("export: %w", err)
	}
	notify(uc.notifier, uc.clock, domain.NotifySuccess, fmt.Sprintf("Exported %d tasks", n))
	return &ExportAllOutput{Rows: n}, nil
}

// ImportAllInput guards the destructive import.
type ImportAllInput struct {
	Confirm bool // Must be true: the local collection is replaced
}

// ImportAllOutput contains the number of imported tasks.
type ImportAllOutput struct {
	Tasks int
}

// ImportAll replaces the local collection with the remote active sheet.
type ImportAll struct {
	store    *shared.TaskStore
	sync     *shared.SyncEngine
	ids      domain.IDGenerator
	notifier domain.Notifier
	clock    domain.Clock
	logger   domain.Logger
}

// NewImportAll creates a new ImportAll use case.
func NewImportAll(store *shared.TaskStore, sync *shared.SyncEngine, ids domain.IDGenerator, notifier domain.Notifier, clock domain.Clock, logger domain.Logger) *ImportAll {
	return &ImportAll{store: store, sync: sync, ids: ids, notifier: notifier, clock: clock, logger: logger}
}

// Execute imports every remote row. Rows without an id get a new one, repeated ids keep
// the first row, an unparsable deadline is dropped, and a CRITICAL row left without a
// deadline is moved to IMPORTANT.
func (uc *ImportAll) Execute(ctx context.Context, in ImportAllInput) (*ImportAllOutput, error) {
	if !in.Confirm {
		return nil, domain.ErrConfirmRequired
	}
	remote, err := uc.sync.FullImport(ctx)
	if err != nil {
		notify(uc.notifier, uc.clock, domain.NotifyError, fmt.Sprintf("Import failed: %v", err))
		return nil, fmt.Errorf("import: %w", err)
	}

	seen := make(map[string]struct{}, len(remote))
	tasks := make([]domain.Task, 0, len(remote))
	for _, t := range remote {
		if t.ID == "" {
			t.ID = uc.ids.NewID()
		}
		if _, dup := seen[t.ID]; dup {
			uc.logger.Warn(t.ID, "sync", "duplicate remote row ignored")
			continue
		}
		seen[t.ID] = struct{}{}
		if t.Deadline != "" {
			if _, err := time.Parse(domain.DeadlineLayout, t.Deadline); err != nil {
				uc.logger.Warn(t.ID, "sync", fmt.Sprintf("unparsable deadline %q dropped", t.Deadline))
				t.Deadline = ""
			}
		}
		if t.Priority == domain.PriorityCritical && t.Deadline == "" {
			uc.logger.Warn(t.ID, "sync", "critical row without deadline imported as IMPORTANT")
			t.Priority = domain.PriorityImportant
		}
		tasks = append(tasks, t)
	}

	if err := uc.store.ReplaceAll(tasks); err != nil {
		notify(uc.notifier, uc.clock, domain.NotifyError, fmt.Sprintf("Import failed: %v", err))
		return nil, fmt.Errorf("import: %w", err)
	}
	notify(uc.notifier, uc.clock, domain.NotifySuccess, fmt.Sprintf("Imported %d tasks", len(tasks)))
	return &ImportAllOutput{Tasks: len(tasks)}, nil
}

func notify(n domain.Notifier, clock domain.Clock, level domain.NotifyLevel, msg string) {
	if n == nil {
		return
	}
	n.Notify(domain.Notification{Time: clock.Now(), Level: level, Message: msg})
}
