package domain

// StoredTask is a task record as read from storage. Pointer fields are nil
// when a record written by an older version lacks them.
type StoredTask struct {
	Deadline     *string       `json:"deadline" yaml:"deadline"`
	Energy       *Energy       `json:"energy,omitempty" yaml:"energy,omitempty"`
	DisplayOrder *int          `json:"displayOrder,omitempty" yaml:"displayOrder,omitempty"`
	Schedule     *[]Assignment `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	ID           string        `json:"id" yaml:"id"`
	Title        string        `json:"title" yaml:"title"`
	URL          string        `json:"url" yaml:"url"`
	Priority     Priority      `json:"priority" yaml:"priority"`
	Type         TaskType      `json:"type" yaml:"type"`
	Completed    bool          `json:"completed" yaml:"completed"`
}

// Stored returns the task in its persisted shape with every field present.
func (t Task) Stored() StoredTask {
	c := t.Clone()
	s := StoredTask{
		Energy:       &c.Energy,
		DisplayOrder: &c.DisplayOrder,
		Schedule:     &c.Schedule,
		ID:           c.ID,
		Title:        c.Title,
		URL:          c.URL,
		Priority:     c.Priority,
		Type:         c.Type,
		Completed:    c.Completed,
	}
	if c.Deadline != "" {
		s.Deadline = &c.Deadline
	}
	return s
}

// MigrateTasks backfills fields missing from older records: display order from the
// record's position, an empty schedule, the default energy, and a fresh id when none
// was stored. Empty priority and type take their defaults. It reports whether any
// record changed so the caller can persist the result.
func MigrateTasks(records []StoredTask, newID func() string) ([]Task, bool) {
	tasks := make([]Task, 0, len(records))
	changed := false
	for i, r := range records {
		t := Task{
			ID:        r.ID,
			Title:     r.Title,
			URL:       r.URL,
			Priority:  r.Priority,
			Type:      r.Type,
			Completed: r.Completed,
		}
		if r.Deadline != nil {
			t.Deadline = *r.Deadline
		}
		if t.ID == "" {
			t.ID = newID()
			changed = true
		}
		if r.DisplayOrder == nil {
			t.DisplayOrder = i
			changed = true
		} else {
			t.DisplayOrder = *r.DisplayOrder
		}
		if r.Schedule == nil {
			t.Schedule = []Assignment{}
			changed = true
		} else {
			t.Schedule = *r.Schedule
		}
		if r.Energy == nil || *r.Energy == "" {
			t.Energy = DefaultEnergy
			changed = true
		} else {
			t.Energy = *r.Energy
		}
		if t.Priority == "" {
			t.Priority = PrioritySomeday
			changed = true
		}
		if t.Type == "" {
			t.Type = TypeHome
			changed = true
		}
		tasks = append(tasks, t)
	}
	return tasks, changed
}
