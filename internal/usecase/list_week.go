package usecase

import (
	"context"
	"fmt"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// WeekEntry is one task placed in a slot.
type WeekEntry struct {
	Block     domain.TimeBlock
	TaskID    string
	Title     string
	Completed bool
}

// WeekDay lists the entries of one day in block order.
type WeekDay struct {
	Day     domain.Day
	Entries []WeekEntry
}

// ListWeekOutput contains the seven days starting today.
type ListWeekOutput struct {
	Days []WeekDay
}

// ListWeek lists this week's assignments.
type ListWeek struct {
	store *shared.TaskStore
	grid  *domain.ScheduleGrid
	clock domain.Clock
}

// NewListWeek creates a new ListWeek use case.
func NewListWeek(store *shared.TaskStore, grid *domain.ScheduleGrid, clock domain.Clock) *ListWeek {
	return &ListWeek{store: store, grid: grid, clock: clock}
}

// Execute groups assignments by day, starting with today, and by catalog block order.
// Tasks in one slot follow lane and display order.
func (uc *ListWeek) Execute(_ context.Context) (*ListWeekOutput, error) {
	tasks, err := uc.store.GetAll()
	if err != nil {
		return nil, fmt.Errorf("list week: %w", err)
	}
	domain.SortByLane(tasks)

	catalog := uc.grid.Catalog()
	out := &ListWeekOutput{}
	for _, day := range domain.WeekFrom(uc.clock.Now()) {
		wd := WeekDay{Day: day}
		for _, block := range catalog.Blocks() {
			slot := domain.Slot{Day: day, BlockID: block.ID}
			for _, t := range tasks {
				for _, a := range t.Schedule {
					if a.Slot() == slot {
						wd.Entries = append(wd.Entries, WeekEntry{
							Block:     block,
							TaskID:    t.ID,
							Title:     t.Title,
							Completed: a.Completed,
						})
					}
				}
			}
		}
		out.Days = append(out.Days, wd)
	}
	return out, nil
}
