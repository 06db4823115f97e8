// Package idgen generates task ids.
package idgen

import (
	"github.com/google/uuid"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

// Prefix marks generated task ids.
const Prefix = "task_"

// UUID generates ids of the form task_<uuid v4>.
type UUID struct{}

// Ensure UUID implements domain.IDGenerator interface.
var _ domain.IDGenerator = UUID{}

// NewID returns a fresh id.
func (UUID) NewID() string {
	return Prefix + uuid.NewString()
}
