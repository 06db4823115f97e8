// Package domain contains core business entities and interfaces.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// DeadlineLayout is the calendar date layout used for task deadlines.
const DeadlineLayout = "2006-01-02"

// Priority is the lane a task belongs to.
type Priority string

// Priority values.
const (
	PriorityCritical  Priority = "CRITICAL"
	PriorityImportant Priority = "IMPORTANT"
	PrioritySomeday   Priority = "SOMEDAY"
)

// Lanes lists the priority lanes in display order.
var Lanes = []Priority{PriorityCritical, PriorityImportant, PrioritySomeday}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityImportant, PrioritySomeday:
		return true
	}
	return false
}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", &ValidationError{Field: "priority", Err: ErrInvalidPriority}
	}
	return p, nil
}

// TaskType is the free-form category of a task.
type TaskType string

// TaskType values.
const (
	TypeHome TaskType = "home"
	TypeWork TaskType = "work"
)

// IsValid reports whether t is a known task type.
func (t TaskType) IsValid() bool {
	return t == TypeHome || t == TypeWork
}

// ParseTaskType parses a task type case-insensitively.
func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", &ValidationError{Field: "type", Err: ErrInvalidType}
	}
	return t, nil
}

// Energy is the effort level a task demands.
type Energy string

// Energy values.
const (
	EnergyLow  Energy = "low"
	EnergyHigh Energy = "high"
)

// DefaultEnergy is assigned to tasks created or stored without an energy level.
const DefaultEnergy = EnergyLow

// IsValid reports whether e is a known energy level.
func (e Energy) IsValid() bool {
	return e == EnergyLow || e == EnergyHigh
}

// ParseEnergy parses an energy level case-insensitively.
func ParseEnergy(s string) (Energy, error) {
	e := Energy(strings.ToLower(strings.TrimSpace(s)))
	if !e.IsValid() {
		return "", &ValidationError{Field: "energy", Err: ErrInvalidEnergy}
	}
	return e, nil
}

// Assignment places a task into one weekly slot.
type Assignment struct {
	Day       Day    `json:"day" yaml:"day"`
	BlockID   string `json:"blockId" yaml:"blockId"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Slot returns the (day, block) pair of the assignment.
func (a Assignment) Slot() Slot {
	return Slot{Day: a.Day, BlockID: a.BlockID}
}

// Slot is a (day, block) pair in the weekly grid.
type Slot struct {
	Day     Day
	BlockID string
}

// String renders the slot as "day/block".
func (s Slot) String() string {
	return string(s.Day) + "/" + s.BlockID
}

// Task is the unit of work.
type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	URL          string       `json:"url"`
	Priority     Priority     `json:"priority"`
	Deadline     string       `json:"deadline,omitempty"` // YYYY-MM-DD, CRITICAL only
	Type         TaskType     `json:"type"`
	Energy       Energy       `json:"energy"`
	Schedule     []Assignment `json:"schedule"`
	DisplayOrder int          `json:"displayOrder"`
	Completed    bool         `json:"completed"`
}

// TaskFields holds the user-editable fields used to create a task.
type TaskFields struct {
	Title    string
	URL      string
	Priority Priority
	Deadline string
	Type     TaskType
	Energy   Energy
}

// ApplyDefaults fills unset enum fields with their defaults.
func (f *TaskFields) ApplyDefaults() {
	if f.Priority == "" {
		f.Priority = PrioritySomeday
	}
	if f.Type == "" {
		f.Type = TypeHome
	}
	if f.Energy == "" {
		f.Energy = DefaultEnergy
	}
}

// Validate checks the task's fields and its schedule for duplicate slots.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	if !t.Priority.IsValid() {
		return &ValidationError{Field: "priority", Err: ErrInvalidPriority}
	}
	if !t.Type.IsValid() {
		return &ValidationError{Field: "type", Err: ErrInvalidType}
	}
	if !t.Energy.IsValid() {
		return &ValidationError{Field: "energy", Err: ErrInvalidEnergy}
	}
	if err := validateDeadline(t.Priority, t.Deadline); err != nil {
		return err
	}

	seen := make(map[Slot]struct{}, len(t.Schedule))
	for _, a := range t.Schedule {
		if _, ok := seen[a.Slot()]; ok {
			return &ValidationError{Field: "schedule", Err: fmt.Errorf("%w: %s", ErrDuplicateSlot, a.Slot())}
		}
		seen[a.Slot()] = struct{}{}
	}
	return nil
}

func validateDeadline(p Priority, deadline string) error {
	if p != PriorityCritical {
		if deadline != "" {
			return &ValidationError{Field: "deadline", Err: ErrDeadlineNotAllowed}
		}
		return nil
	}
	if deadline == "" {
		return &ValidationError{Field: "deadline", Err: ErrDeadlineRequired}
	}
	if _, err := time.Parse(DeadlineLayout, deadline); err != nil {
		return &ValidationError{Field: "deadline", Err: ErrInvalidDeadline}
	}
	return nil
}

// NormalizeDeadline drops the deadline of a task outside the CRITICAL lane.
func (t *Task) NormalizeDeadline() {
	if t.Priority != PriorityCritical {
		t.Deadline = ""
	}
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	c.Schedule = make([]Assignment, len(t.Schedule))
	copy(c.Schedule, t.Schedule)
	return c
}

// IsActive returns true if the task is not completed.
func (t *Task) IsActive() bool {
	return !t.Completed
}

// IsOverdue returns true if the task has a deadline that has passed and is not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Completed || t.Deadline == "" {
		return false
	}
	d, err := time.ParseInLocation(DeadlineLayout, t.Deadline, now.Location())
	if err != nil {
		return false
	}
	return d.AddDate(0, 0, 1).Before(now)
}

// HasSlot reports whether the task is assigned to the slot.
func (t *Task) HasSlot(s Slot) bool {
	return t.assignmentIndex(s) >= 0
}

func (t *Task) assignmentIndex(s Slot) int {
	for i, a := range t.Schedule {
		if a.Slot() == s {
			return i
		}
	}
	return -1
}

// SetCompleted sets the task's completion and cascades it to every assignment.
func (t *Task) SetCompleted(completed bool) {
	t.Completed = completed
	for i := range t.Schedule {
		t.Schedule[i].Completed = completed
	}
}

// SetAssignmentCompleted sets one assignment's completion and derives the task's.
func (t *Task) SetAssignmentCompleted(s Slot, completed bool) error {
	i := t.assignmentIndex(s)
	if i < 0 {
		return &SlotError{Err: ErrNotAssigned, Slot: s}
	}
	t.Schedule[i].Completed = completed
	t.deriveCompletion()
	return nil
}

// deriveCompletion sets Completed from the schedule; an empty schedule keeps the explicit value.
func (t *Task) deriveCompletion() {
	if len(t.Schedule) == 0 {
		return
	}
	for _, a := range t.Schedule {
		if !a.Completed {
			t.Completed = false
			return
		}
	}
	t.Completed = true
}

// ReconcileCompletion applies the completion cascade to next, the replacement for prev.
// A changed task-level flag cascades down to the assignments; otherwise the flag
// is derived from the assignments.
func ReconcileCompletion(prev *Task, next *Task) {
	if prev != nil && prev.Completed != next.Completed {
		next.SetCompleted(next.Completed)
		return
	}
	next.deriveCompletion()
}
