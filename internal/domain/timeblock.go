package domain

import (
	"fmt"
	"strings"
	"time"
)

// Day is a weekday name in lower case.
type Day string

// Day values.
const (
	Sunday    Day = "sunday"
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
)

// Week lists the days in time.Weekday order.
var Week = []Day{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// IsValid reports whether d is a weekday name.
func (d Day) IsValid() bool {
	for _, w := range Week {
		if d == w {
			return true
		}
	}
	return false
}

// ParseDay parses a weekday name case-insensitively. Three-letter abbreviations are accepted.
func ParseDay(s string) (Day, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Week {
		if v == string(d) || (len(v) == 3 && strings.HasPrefix(string(d), v)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// WeekFrom returns the seven days starting at the weekday of t.
func WeekFrom(t time.Time) []Day {
	start := int(t.Weekday())
	days := make([]Day, 0, len(Week))
	for i := range Week {
		days = append(days, Week[(start+i)%len(Week)])
	}
	return days
}

// Capacity is how many tasks one (day, block) slot holds.
type Capacity string

// Capacity values.
const (
	CapacityNone     Capacity = "none"
	CapacitySingle   Capacity = "single"
	CapacityMultiple Capacity = "multiple"
)

// ParseCapacity parses a capacity. "0" and "1" are accepted as none and single.
func ParseCapacity(s string) (Capacity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "0":
		return CapacityNone, nil
	case "single", "1":
		return CapacitySingle, nil
	case "multiple", "many":
		return CapacityMultiple, nil
	}
	return "", fmt.Errorf("invalid capacity %q", s)
}

// TimeBlock is a named time-of-day slot definition.
type TimeBlock struct {
	ID       string
	Label    string
	Time     string // display range, e.g. "8:00 - 10:00"
	Capacity Capacity
}

// Schedulable reports whether tasks can be placed in the block.
func (b TimeBlock) Schedulable() bool {
	return b.Capacity != CapacityNone
}

// Catalog is the read-only, ordered set of time blocks.
type Catalog struct {
	index  map[string]int
	blocks []TimeBlock
}

// NewCatalog validates blocks and builds a catalog preserving their order.
func NewCatalog(blocks []TimeBlock) (*Catalog, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("time block catalog is empty")
	}
	c := &Catalog{
		index:  make(map[string]int, len(blocks)),
		blocks: make([]TimeBlock, 0, len(blocks)),
	}
	for _, b := range blocks {
		if b.ID == "" {
			return nil, fmt.Errorf("time block %q has no id", b.Label)
		}
		if _, ok := c.index[b.ID]; ok {
			return nil, fmt.Errorf("duplicate time block id %q", b.ID)
		}
		switch b.Capacity {
		case CapacityNone, CapacitySingle, CapacityMultiple:
		default:
			return nil, fmt.Errorf("time block %q: invalid capacity %q", b.ID, b.Capacity)
		}
		c.index[b.ID] = len(c.blocks)
		c.blocks = append(c.blocks, b)
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultTimeBlocks())
	if err != nil {
		panic(fmt.Sprintf("invalid default time blocks: %v", err))
	}
	return c
}

// DefaultTimeBlocks returns the built-in day plan.
func DefaultTimeBlocks() []TimeBlock {
	return []TimeBlock{
		{ID: "morning-routine", Label: "Morning Routine", Time: "6:00 - 8:00", Capacity: CapacityNone},
		{ID: "deep-work-1", Label: "Deep Work", Time: "8:00 - 10:00", Capacity: CapacitySingle},
		{ID: "collaboration", Label: "Collaboration", Time: "10:00 - 12:00", Capacity: CapacityMultiple},
		{ID: "lunch", Label: "Lunch", Time: "12:00 - 13:00", Capacity: CapacityNone},
		{ID: "deep-work-2", Label: "Deep Work", Time: "13:00 - 15:00", Capacity: CapacitySingle},
		{ID: "admin", Label: "Admin & Email", Time: "15:00 - 17:00", Capacity: CapacityMultiple},
		{ID: "personal", Label: "Personal", Time: "17:00 - 19:00", Capacity: CapacityMultiple},
		{ID: "evening", Label: "Evening Wind-down", Time: "19:00 - 21:00", Capacity: CapacityNone},
	}
}

// Lookup returns the block with the given id.
func (c *Catalog) Lookup(id string) (TimeBlock, bool) {
	i, ok := c.index[id]
	if !ok {
		return TimeBlock{}, false
	}
	return c.blocks[i], true
}

// Blocks returns the blocks in catalog order.
func (c *Catalog) Blocks() []TimeBlock {
	out := make([]TimeBlock, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Position returns the catalog position of a block, or -1 if unknown.
func (c *Catalog) Position(id string) int {
	i, ok := c.index[id]
	if !ok {
		return -1
	}
	return i
}
