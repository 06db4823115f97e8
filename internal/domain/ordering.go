package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Direction is the way a task moves within its lane.
type Direction string

// Direction values.
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection parses "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionUp, DirectionDown:
		return d, nil
	}
	return "", ErrInvalidDirection
}

// SwapResult is the outcome of SwapWithNeighbor.
type SwapResult string

// SwapResult values.
const (
	SwapOK         SwapResult = "ok"
	SwapAtBoundary SwapResult = "atBoundary"
)

// NextDisplayOrder returns the display order for a new task in lane.
// It is one past the highest order among incomplete tasks of the lane, falling back
// to one past the highest order in the collection, and 0 for an empty collection.
func NextDisplayOrder(tasks []Task, lane Priority) int {
	highest, found := 0, false
	for i := range tasks {
		if tasks[i].Priority != lane || tasks[i].Completed {
			continue
		}
		if !found || tasks[i].DisplayOrder > highest {
			highest, found = tasks[i].DisplayOrder, true
		}
	}
	if found {
		return highest + 1
	}
	if len(tasks) == 0 {
		return 0
	}
	for i := range tasks {
		if !found || tasks[i].DisplayOrder > highest {
			highest, found = tasks[i].DisplayOrder, true
		}
	}
	return highest + 1
}

// LaneIndices returns the indices into tasks of lane's members, sorted by display order.
// Ties keep collection order.
func LaneIndices(tasks []Task, lane Priority) []int {
	var idx []int
	for i := range tasks {
		if tasks[i].Priority == lane {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return tasks[a].DisplayOrder - tasks[b].DisplayOrder
	})
	return idx
}

// SortByLane orders tasks by lane then display order.
func SortByLane(tasks []Task) {
	rank := func(p Priority) int {
		if i := slices.Index(Lanes, p); i >= 0 {
			return i
		}
		return len(Lanes)
	}
	slices.SortStableFunc(tasks, func(a, b Task) int {
		if d := rank(a.Priority) - rank(b.Priority); d != 0 {
			return d
		}
		return a.DisplayOrder - b.DisplayOrder
	})
}

// SwapWithNeighbor exchanges the display order of task id with its neighbour in the lane.
// A lane with duplicate orders is renumbered densely first so the swap always separates them.
// It returns the ids of tasks whose display order changed.
func SwapWithNeighbor(tasks []Task, id string, dir Direction) (SwapResult, []string, error) {
	if dir != DirectionUp && dir != DirectionDown {
		return "", nil, ErrInvalidDirection
	}
	at := slices.IndexFunc(tasks, func(t Task) bool { return t.ID == id })
	if at < 0 {
		return "", nil, ErrTaskNotFound
	}

	lane := LaneIndices(tasks, tasks[at].Priority)
	pos := slices.Index(lane, at)
	neighbor := pos - 1
	if dir == DirectionDown {
		neighbor = pos + 1
	}
	if neighbor < 0 || neighbor >= len(lane) {
		return SwapAtBoundary, nil, nil
	}

	changed := make(map[string]struct{})
	if !distinctOrders(tasks, lane) {
		for p, i := range lane {
			if tasks[i].DisplayOrder != p {
				tasks[i].DisplayOrder = p
				changed[tasks[i].ID] = struct{}{}
			}
		}
	}

	a, b := &tasks[lane[pos]], &tasks[lane[neighbor]]
	a.DisplayOrder, b.DisplayOrder = b.DisplayOrder, a.DisplayOrder
	changed[a.ID] = struct{}{}
	changed[b.ID] = struct{}{}

	return SwapOK, idsInOrder(tasks, changed), nil
}

// ReorderByPosition sets lane's order to orderedIDs, moving any listed task from another lane
// into it. Lane members not listed keep their relative order after the listed ones.
// A task entering CRITICAL must already carry a deadline; a task leaving it loses its deadline.
// Nothing is changed when an error is returned.
func ReorderByPosition(tasks []Task, lane Priority, orderedIDs []string) ([]string, error) {
	if !lane.IsValid() {
		return nil, &ValidationError{Field: "priority", Err: ErrInvalidPriority}
	}

	byID := make(map[string]int, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = i
	}
	listed := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		i, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		if _, dup := listed[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		listed[id] = struct{}{}
		if lane == PriorityCritical && tasks[i].Priority != PriorityCritical && tasks[i].Deadline == "" {
			return nil, &ValidationError{Field: "deadline", Err: fmt.Errorf("%w: %s", ErrDeadlineRequired, id)}
		}
	}

	order := make([]int, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		order = append(order, byID[id])
	}
	for _, i := range LaneIndices(tasks, lane) {
		if _, ok := listed[tasks[i].ID]; !ok {
			order = append(order, i)
		}
	}

	changed := make(map[string]struct{})
	for pos, i := range order {
		t := &tasks[i]
		before := t.Priority
		beforeDeadline := t.Deadline
		t.Priority = lane
		t.NormalizeDeadline()
		if t.DisplayOrder != pos || t.Priority != before || t.Deadline != beforeDeadline {
			t.DisplayOrder = pos
			changed[t.ID] = struct{}{}
		}
	}
	return idsInOrder(tasks, changed), nil
}

func distinctOrders(tasks []Task, lane []int) bool {
	seen := make(map[int]struct{}, len(lane))
	for _, i := range lane {
		if _, ok := seen[tasks[i].DisplayOrder]; ok {
			return false
		}
		seen[tasks[i].DisplayOrder] = struct{}{}
	}
	return true
}

// idsInOrder returns the ids in set following collection order.
func idsInOrder(tasks []Task, set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for i := range tasks {
		if _, ok := set[tasks[i].ID]; ok {
			ids = append(ids, tasks[i].ID)
		}
	}
	return ids
}
