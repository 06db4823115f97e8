package shared

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

// TaskStore keeps the whole task collection under one KV key.
// Every operation reads the collection, changes it in memory and writes it back whole;
// mu serializes those cycles within the process.
type TaskStore struct {
	kv     domain.KVStore
	ids    domain.IDGenerator
	logger domain.Logger
	mu     sync.Mutex
}

// NewTaskStore creates a TaskStore over kv.
func NewTaskStore(kv domain.KVStore, ids domain.IDGenerator, logger domain.Logger) *TaskStore {
	return &TaskStore{kv: kv, ids: ids, logger: logger}
}

// GetAll returns every task. Records from older versions are backfilled and,
// when anything changed, written back before returning.
func (s *TaskStore) GetAll() ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// GetByID returns the task with id or domain.ErrTaskNotFound.
func (s *TaskStore) GetByID(id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return nil, domain.ErrTaskNotFound
	}
	return &tasks[i], nil
}

// Create appends a new task with a fresh id, an empty schedule and the next display order of its lane.
func (s *TaskStore) Create(fields domain.TaskFields) (*domain.Task, error) {
	fields.ApplyDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}
	task := domain.Task{
		ID:           s.ids.NewID(),
		Title:        strings.TrimSpace(fields.Title),
		URL:          strings.TrimSpace(fields.URL),
		Priority:     fields.Priority,
		Deadline:     fields.Deadline,
		Type:         fields.Type,
		Energy:       fields.Energy,
		Schedule:     []domain.Assignment{},
		DisplayOrder: domain.NextDisplayOrder(tasks, fields.Priority),
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if err := s.save(append(tasks, task)); err != nil {
		return nil, err
	}
	s.log(task.ID, "task", fmt.Sprintf("created: %q", task.Title))
	return &task, nil
}

// Update replaces the stored task with the same id. The completion cascade is
// applied against the stored version before validation.
func (s *TaskStore) Update(task domain.Task) (*domain.Task, error) {
	return s.UpdateChecked(task, nil)
}

// UpdateChecked is Update with an extra check run under the lock, after validation,
// against the loaded collection, the stored version and its replacement.
// A failing check writes nothing.
func (s *TaskStore) UpdateChecked(task domain.Task, check func(tasks []domain.Task, prev, next *domain.Task) error) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(tasks, task.ID)
	if i < 0 {
		return nil, domain.ErrTaskNotFound
	}
	next := task.Clone()
	if next.Schedule == nil {
		next.Schedule = []domain.Assignment{}
	}
	domain.ReconcileCompletion(&tasks[i], &next)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if check != nil {
		if err := check(tasks, &tasks[i], &next); err != nil {
			return nil, err
		}
	}
	tasks[i] = next
	if err := s.save(tasks); err != nil {
		return nil, err
	}
	s.log(next.ID, "task", "updated")
	return &next, nil
}

// Delete removes the task with id and returns it. An unknown id writes nothing.
func (s *TaskStore) Delete(id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return nil, domain.ErrTaskNotFound
	}
	deleted := tasks[i]
	rest := append(tasks[:i:i], tasks[i+1:]...)
	if err := s.save(rest); err != nil {
		return nil, err
	}
	s.log(id, "task", fmt.Sprintf("deleted: %q", deleted.Title))
	return &deleted, nil
}

// ReplaceAll overwrites the collection with tasks after validating each one.
func (s *TaskStore) ReplaceAll(tasks []domain.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i := range tasks {
		if err := tasks[i].Validate(); err != nil {
			return fmt.Errorf("task %s: %w", tasks[i].ID, err)
		}
		if _, dup := seen[tasks[i].ID]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateID, tasks[i].ID)
		}
		seen[tasks[i].ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(tasks); err != nil {
		return err
	}
	s.log("", "task", fmt.Sprintf("replaced collection with %d tasks", len(tasks)))
	return nil
}

// Modify runs fn over the loaded collection and writes the result when fn reports
// changed task ids. Changed tasks are validated first. Nothing is written when fn
// fails or changes nothing. It returns the changed tasks.
func (s *TaskStore) Modify(fn func(tasks []domain.Task) ([]string, error)) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}
	changedIDs, err := fn(tasks)
	if err != nil {
		return nil, err
	}
	if len(changedIDs) == 0 {
		return nil, nil
	}

	changed := make([]domain.Task, 0, len(changedIDs))
	for _, id := range changedIDs {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		if err := tasks[i].Validate(); err != nil {
			return nil, fmt.Errorf("task %s: %w", id, err)
		}
		changed = append(changed, tasks[i].Clone())
	}
	if err := s.save(tasks); err != nil {
		return nil, err
	}
	return changed, nil
}

// load reads and migrates the collection. Callers must hold mu.
func (s *TaskStore) load() ([]domain.Task, error) {
	data, err := s.kv.Get(domain.TaskCollectionKey)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	if len(data) == 0 {
		return []domain.Task{}, nil
	}

	var records []domain.StoredTask
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	tasks, migrated := domain.MigrateTasks(records, s.ids.NewID)
	if migrated {
		if err := s.save(tasks); err != nil {
			// The migrated collection is still usable; the backfill is retried on the next load.
			s.logError("", "store", fmt.Sprintf("persist backfilled tasks: %v", err))
		} else {
			s.log("", "store", fmt.Sprintf("backfilled %d stored tasks", len(tasks)))
		}
	}
	return tasks, nil
}

// save writes the collection. Callers must hold mu.
func (s *TaskStore) save(tasks []domain.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("%w: encode tasks: %w", domain.ErrStorageWrite, err)
	}
	if err := s.kv.Set(domain.TaskCollectionKey, data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}
	return nil
}

func (s *TaskStore) log(taskID, category, msg string) {
	if s.logger != nil {
		s.logger.Info(taskID, category, msg)
	}
}

func (s *TaskStore) logError(taskID, category, msg string) {
	if s.logger != nil {
		s.logger.Error(taskID, category, msg)
	}
}

func indexOf(tasks []domain.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
