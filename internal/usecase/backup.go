package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// Backup formats.
const (
	BackupJSON = "json"
	BackupYAML = "yaml"
)

// ParseBackupFormat accepts json, yaml or yml.
func ParseBackupFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", BackupJSON:
		return BackupJSON, nil
	case BackupYAML, "yml":
		return BackupYAML, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownFormat, s)
}

// ExportBackupInput selects the destination and encoding.
type ExportBackupInput struct {
	W      io.Writer
	Format string
}

// ExportBackupOutput contains the number of tasks written.
type ExportBackupOutput struct {
	Tasks int
}

// ExportBackup writes the local collection as a JSON or YAML list.
type ExportBackup struct {
	store *shared.TaskStore
}

// NewExportBackup creates a new ExportBackup use case.
func NewExportBackup(store *shared.TaskStore) *ExportBackup {
	return &ExportBackup{store: store}
}

// Execute writes the backup.
func (uc *ExportBackup) Execute(_ context.Context, in ExportBackupInput) (*ExportBackupOutput, error) {
	format, err := ParseBackupFormat(in.Format)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.store.GetAll()
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}
	records := make([]domain.StoredTask, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, t.Stored())
	}

	switch format {
	case BackupYAML:
		enc := yaml.NewEncoder(in.W)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("encode backup: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode backup: %w", err)
		}
	default:
		enc := json.NewEncoder(in.W)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("encode backup: %w", err)
		}
	}
	return &ExportBackupOutput{Tasks: len(records)}, nil
}

// ImportBackupInput selects the source and encoding.
type ImportBackupInput struct {
	R       io.Reader
	Format  string
	Confirm bool // Must be true: the local collection is replaced
}

// ImportBackupOutput contains the number of tasks restored.
type ImportBackupOutput struct {
	Tasks int
}

// ImportBackup replaces the local collection with a backup file.
type ImportBackup struct {
	store *shared.TaskStore
	grid  *domain.ScheduleGrid
	ids   domain.IDGenerator
}

// NewImportBackup creates a new ImportBackup use case.
func NewImportBackup(store *shared.TaskStore, grid *domain.ScheduleGrid, ids domain.IDGenerator) *ImportBackup {
	return &ImportBackup{store: store, grid: grid, ids: ids}
}

// Execute restores the backup. Older records are backfilled the same way stored ones are,
// and the schedules must respect the time block catalog.
func (uc *ImportBackup) Execute(_ context.Context, in ImportBackupInput) (*ImportBackupOutput, error) {
	if !in.Confirm {
		return nil, domain.ErrConfirmRequired
	}
	format, err := ParseBackupFormat(in.Format)
	if err != nil {
		return nil, err
	}

	var records []domain.StoredTask
	switch format {
	case BackupYAML:
		err = yaml.NewDecoder(in.R).Decode(&records)
	default:
		err = json.NewDecoder(in.R).Decode(&records)
	}
	if err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}

	tasks, _ := domain.MigrateTasks(records, uc.ids.NewID)
	if err := uc.grid.Validate(tasks); err != nil {
		return nil, fmt.Errorf("restore backup: %w", err)
	}
	if err := uc.store.ReplaceAll(tasks); err != nil {
		return nil, fmt.Errorf("restore backup: %w", err)
	}
	return &ImportBackupOutput{Tasks: len(tasks)}, nil
}
