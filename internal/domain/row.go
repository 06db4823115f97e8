package domain

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Mirror collection titles.
const (
	ActiveSheetTitle  = "Active List"
	DeletedSheetTitle = "Deleted"
)

// Mirror column headers.
const (
	HeaderTaskID       = "Task ID"
	HeaderTitle        = "Title"
	HeaderURL          = "URL"
	HeaderPriority     = "Priority"
	HeaderDeadline     = "Deadline"
	HeaderType         = "Type"
	HeaderEnergy       = "Energy"
	HeaderCompleted    = "Completed"
	HeaderDisplayOrder = "Display Order"
	HeaderLastModified = "Last Modified"
	HeaderDateDeleted  = "Date Deleted"
)

// TimestampLayout formats the Last Modified and Date Deleted columns.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ActiveHeaders returns the column list of the active mirror.
func ActiveHeaders() []string {
	return []string{
		HeaderTaskID, HeaderTitle, HeaderURL, HeaderPriority, HeaderDeadline,
		HeaderType, HeaderCompleted, HeaderDisplayOrder, HeaderLastModified,
	}
}

// DeletedHeaders returns the column list of the deleted mirror.
func DeletedHeaders() []string {
	return append(ActiveHeaders(), HeaderDateDeleted)
}

// TaskToRow projects a task onto headers. Unknown headers map to empty cells;
// timestamp columns are filled with now.
func TaskToRow(t Task, headers []string, now time.Time) []string {
	stamp := now.UTC().Format(TimestampLayout)
	row := make([]string, len(headers))
	for i, h := range headers {
		switch h {
		case HeaderTaskID:
			row[i] = t.ID
		case HeaderTitle:
			row[i] = t.Title
		case HeaderURL:
			row[i] = t.URL
		case HeaderPriority:
			row[i] = string(t.Priority)
		case HeaderDeadline:
			row[i] = t.Deadline
		case HeaderType:
			row[i] = string(t.Type)
		case HeaderEnergy:
			row[i] = string(t.Energy)
		case HeaderCompleted:
			row[i] = strconv.FormatBool(t.Completed)
		case HeaderDisplayOrder:
			row[i] = strconv.Itoa(t.DisplayOrder)
		case HeaderLastModified, HeaderDateDeleted:
			row[i] = stamp
		}
	}
	return row
}

// RowTask is a task read back from a mirror row. Columns absent from the row are empty.
type RowTask struct {
	DisplayOrder *int // nil when the cell is empty or not a number
	ID           string
	Title        string
	URL          string
	Priority     string
	Deadline     string
	Type         string
	Energy       string
	LastModified string
	DateDeleted  string
	Completed    bool
}

// RowToTask reads values positionally against headers.
func RowToTask(values []string, headers []string) RowTask {
	var r RowTask
	for i, h := range headers {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		switch h {
		case HeaderTaskID:
			r.ID = v
		case HeaderTitle:
			r.Title = v
		case HeaderURL:
			r.URL = v
		case HeaderPriority:
			r.Priority = v
		case HeaderDeadline:
			r.Deadline = v
		case HeaderType:
			r.Type = v
		case HeaderEnergy:
			r.Energy = v
		case HeaderCompleted:
			r.Completed = strings.EqualFold(strings.TrimSpace(v), "true")
		case HeaderDisplayOrder:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				r.DisplayOrder = &n
			}
		case HeaderLastModified:
			r.LastModified = v
		case HeaderDateDeleted:
			r.DateDeleted = v
		}
	}
	return r
}

// Task converts the row into a task. Unrecognized enum values fall back to defaults
// and a deadline outside the CRITICAL lane is dropped. The schedule is always empty
// because the mirror carries no schedule columns.
func (r RowTask) Task(position int) Task {
	t := Task{
		ID:        r.ID,
		Title:     r.Title,
		URL:       r.URL,
		Deadline:  r.Deadline,
		Completed: r.Completed,
		Schedule:  []Assignment{},
	}
	if p, err := ParsePriority(r.Priority); err == nil {
		t.Priority = p
	} else {
		t.Priority = PrioritySomeday
	}
	if ty, err := ParseTaskType(r.Type); err == nil {
		t.Type = ty
	} else {
		t.Type = TypeHome
	}
	if e, err := ParseEnergy(r.Energy); err == nil {
		t.Energy = e
	} else {
		t.Energy = DefaultEnergy
	}
	if r.DisplayOrder != nil {
		t.DisplayOrder = *r.DisplayOrder
	} else {
		t.DisplayOrder = position
	}
	t.NormalizeDeadline()
	return t
}

// IsHeaderRow reports whether row is exactly the header list.
func IsHeaderRow(row, headers []string) bool {
	return slices.Equal(row, headers)
}

// FindRowIndex returns the 1-based row number holding taskID, or 0 when absent.
// Row 1 is skipped only when it equals headers.
func FindRowIndex(rows [][]string, headers []string, taskID string) (int, error) {
	col := slices.Index(headers, HeaderTaskID)
	if col < 0 {
		return 0, ErrHeaderMissing
	}
	start := 0
	if len(rows) > 0 && IsHeaderRow(rows[0], headers) {
		start = 1
	}
	for i := start; i < len(rows); i++ {
		if col < len(rows[i]) && rows[i][col] == taskID {
			return i + 1, nil
		}
	}
	return 0, nil
}
