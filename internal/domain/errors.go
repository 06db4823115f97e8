package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrRowNotFound        = errors.New("row not found")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrInvalidPriority    = errors.New("priority must be CRITICAL, IMPORTANT or SOMEDAY")
	ErrInvalidType        = errors.New("type must be home or work")
	ErrInvalidEnergy      = errors.New("energy must be low or high")
	ErrDeadlineRequired   = errors.New("critical tasks require a deadline")
	ErrDeadlineNotAllowed = errors.New("only critical tasks can have a deadline")
	ErrInvalidDeadline    = errors.New("deadline must be a YYYY-MM-DD date")
	ErrDuplicateSlot      = errors.New("task is scheduled twice in the same slot")
	ErrDuplicateID        = errors.New("task listed more than once")
	ErrInvalidDirection   = errors.New("direction must be up or down")
	ErrStorageWrite       = errors.New("storage write failed")
	ErrRemoteUnavailable  = errors.New("remote sync is not connected")
	ErrHeaderMissing      = errors.New("task id column missing from headers")
	ErrConfigExists       = errors.New("config file already exists")
	ErrUnknownBackend     = errors.New("unknown store backend")
	ErrConfirmRequired    = errors.New("destructive operation requires confirmation")
	ErrRequired           = errors.New("value is required")
	ErrUnknownFormat      = errors.New("unknown format")
	ErrMigrationConflict  = errors.New("destination already holds a different task with this id")
)

// Slot rejection reasons.
var (
	ErrCapacityZero     = errors.New("time block does not accept tasks")
	ErrCapacityExceeded = errors.New("slot is already taken by another task")
	ErrAlreadyAssigned  = errors.New("task is already assigned to this slot")
	ErrNotAssigned      = errors.New("task is not assigned to this slot")
	ErrUnknownBlock     = errors.New("unknown time block")
	ErrInvalidDay       = errors.New("invalid day")
)

// ValidationError reports an invalid field value. It never reaches storage.
type ValidationError struct {
	Err   error
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// SlotError reports a rejected schedule placement.
type SlotError struct {
	Err    error
	Holder string // task occupying the slot, for ErrCapacityExceeded
	Slot   Slot
}

func (e *SlotError) Error() string {
	if e.Holder != "" {
		return fmt.Sprintf("slot %s: %v (held by %s)", e.Slot, e.Err, e.Holder)
	}
	return fmt.Sprintf("slot %s: %v", e.Slot, e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}

// IsCapacityRejected reports whether err is a capacity rejection.
func IsCapacityRejected(err error) bool {
	return errors.Is(err, ErrCapacityZero) || errors.Is(err, ErrCapacityExceeded)
}

// RemoteCallError wraps a failed call to the remote tabular mirror.
type RemoteCallError struct {
	Err   error
	Op    string
	Sheet string
}

func (e *RemoteCallError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("remote %s on %q: %v", e.Op, e.Sheet, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// PartialSyncError reports a delete sync where one mirror was updated and the other was not.
// The two mirrors are left as they are; a full export or import repairs them.
type PartialSyncError struct {
	AppendErr error // append to the deleted mirror
	RemoveErr error // removal from the active mirror
	TaskID    string
}

func (e *PartialSyncError) Error() string {
	var parts []string
	if e.AppendErr != nil {
		parts = append(parts, "archive to deleted list failed: "+e.AppendErr.Error())
	} else {
		parts = append(parts, "archived to deleted list")
	}
	if e.RemoveErr != nil {
		parts = append(parts, "removal from active list failed: "+e.RemoveErr.Error())
	} else {
		parts = append(parts, "removed from active list")
	}
	return fmt.Sprintf("delete sync for %s incomplete: %s", e.TaskID, strings.Join(parts, "; "))
}

func (e *PartialSyncError) Unwrap() []error {
	var errs []error
	if e.AppendErr != nil {
		errs = append(errs, e.AppendErr)
	}
	if e.RemoveErr != nil {
		errs = append(errs, e.RemoveErr)
	}
	return errs
}
