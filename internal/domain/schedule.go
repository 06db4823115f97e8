package domain

// ScheduleGrid places tasks into (day, block) slots under the catalog's capacity rules.
// It mutates the task it is given and never writes to storage.
type ScheduleGrid struct {
	catalog *Catalog
}

// NewScheduleGrid creates a ScheduleGrid over a time block catalog.
func NewScheduleGrid(catalog *Catalog) *ScheduleGrid {
	return &ScheduleGrid{catalog: catalog}
}

// Catalog returns the grid's time block catalog.
func (g *ScheduleGrid) Catalog() *Catalog {
	return g.catalog
}

// Assign adds an incomplete assignment for task at (day, blockID).
// tasks is the whole collection; it is read to find the occupant of single-capacity slots.
func (g *ScheduleGrid) Assign(tasks []Task, task *Task, day Day, blockID string) error {
	slot := Slot{Day: day, BlockID: blockID}
	if err := g.checkPlacement(tasks, task, slot); err != nil {
		return err
	}
	task.Schedule = append(task.Schedule, Assignment{Day: day, BlockID: blockID})
	return nil
}

// Unassign removes task's assignment at (day, blockID) and derives the task's
// completion from the remaining assignments. Emptying the schedule keeps the flag.
func (g *ScheduleGrid) Unassign(task *Task, day Day, blockID string) error {
	slot := Slot{Day: day, BlockID: blockID}
	i := task.assignmentIndex(slot)
	if i < 0 {
		return &SlotError{Err: ErrNotAssigned, Slot: slot}
	}
	task.Schedule = append(task.Schedule[:i], task.Schedule[i+1:]...)
	task.deriveCompletion()
	return nil
}

// Move relocates an assignment. Moving onto the same slot is a no-op.
// The destination is checked before the source is touched, so a rejected move changes nothing.
func (g *ScheduleGrid) Move(tasks []Task, task *Task, fromDay Day, fromBlock string, toDay Day, toBlock string) error {
	from := Slot{Day: fromDay, BlockID: fromBlock}
	to := Slot{Day: toDay, BlockID: toBlock}
	if from == to {
		return nil
	}
	i := task.assignmentIndex(from)
	if i < 0 {
		return &SlotError{Err: ErrNotAssigned, Slot: from}
	}
	if err := g.checkPlacement(tasks, task, to); err != nil {
		return err
	}
	task.Schedule = append(task.Schedule[:i], task.Schedule[i+1:]...)
	task.Schedule = append(task.Schedule, Assignment{Day: toDay, BlockID: toBlock})
	return nil
}

// UnassignAll clears every task's schedule and returns the ids of tasks that changed.
func (g *ScheduleGrid) UnassignAll(tasks []Task) []string {
	var changed []string
	for i := range tasks {
		if len(tasks[i].Schedule) == 0 {
			continue
		}
		tasks[i].Schedule = []Assignment{}
		changed = append(changed, tasks[i].ID)
	}
	return changed
}

// Occupants returns the ids of tasks assigned to slot.
func (g *ScheduleGrid) Occupants(tasks []Task, slot Slot) []string {
	var ids []string
	for i := range tasks {
		if tasks[i].HasSlot(slot) {
			ids = append(ids, tasks[i].ID)
		}
	}
	return ids
}

// CheckReplacement reports why next cannot replace prev in tasks. Only slots that
// next holds and prev does not are checked, against the other tasks of the collection.
func (g *ScheduleGrid) CheckReplacement(tasks []Task, prev, next *Task) error {
	for _, a := range next.Schedule {
		slot := a.Slot()
		if prev != nil && prev.HasSlot(slot) {
			continue
		}
		block, err := g.lookup(slot)
		if err != nil {
			return err
		}
		if block.Capacity == CapacityNone {
			return &SlotError{Err: ErrCapacityZero, Slot: slot}
		}
		if block.Capacity != CapacitySingle {
			continue
		}
		for i := range tasks {
			if tasks[i].ID != next.ID && tasks[i].HasSlot(slot) {
				return &SlotError{Err: ErrCapacityExceeded, Slot: slot, Holder: tasks[i].ID}
			}
		}
	}
	return nil
}

// Validate checks that every assignment in the collection refers to a schedulable block
// and that no single-capacity slot holds more than one task.
func (g *ScheduleGrid) Validate(tasks []Task) error {
	holders := make(map[Slot]string)
	for i := range tasks {
		for _, a := range tasks[i].Schedule {
			slot := a.Slot()
			block, err := g.lookup(slot)
			if err != nil {
				return err
			}
			if block.Capacity == CapacityNone {
				return &SlotError{Err: ErrCapacityZero, Slot: slot}
			}
			if block.Capacity != CapacitySingle {
				continue
			}
			if holder, ok := holders[slot]; ok && holder != tasks[i].ID {
				return &SlotError{Err: ErrCapacityExceeded, Slot: slot, Holder: holder}
			}
			holders[slot] = tasks[i].ID
		}
	}
	return nil
}

func (g *ScheduleGrid) lookup(slot Slot) (TimeBlock, error) {
	if !slot.Day.IsValid() {
		return TimeBlock{}, &SlotError{Err: ErrInvalidDay, Slot: slot}
	}
	block, ok := g.catalog.Lookup(slot.BlockID)
	if !ok {
		return TimeBlock{}, &SlotError{Err: ErrUnknownBlock, Slot: slot}
	}
	return block, nil
}

// checkPlacement reports why task cannot take slot, or nil if it can.
func (g *ScheduleGrid) checkPlacement(tasks []Task, task *Task, slot Slot) error {
	block, err := g.lookup(slot)
	if err != nil {
		return err
	}
	if block.Capacity == CapacityNone {
		return &SlotError{Err: ErrCapacityZero, Slot: slot}
	}
	if block.Capacity == CapacitySingle {
		for i := range tasks {
			if tasks[i].ID != task.ID && tasks[i].HasSlot(slot) {
				return &SlotError{Err: ErrCapacityExceeded, Slot: slot, Holder: tasks[i].ID}
			}
		}
	}
	if task.HasSlot(slot) {
		return &SlotError{Err: ErrAlreadyAssigned, Slot: slot}
	}
	return nil
}
