package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateTasks_Backfills(t *testing.T) {
	raw := `[
		{"id":"a","title":"Old","priority":"IMPORTANT","type":"work","completed":false,"deadline":null},
		{"id":"b","title":"Newer","priority":"SOMEDAY","type":"home","displayOrder":5,"schedule":[],"energy":"high"}
	]`
	var records []StoredTask
	require.NoError(t, json.Unmarshal([]byte(raw), &records))

	tasks, changed := MigrateTasks(records, func() string { return "generated" })
	require.True(t, changed)
	require.Len(t, tasks, 2)

	assert.Equal(t, 0, tasks[0].DisplayOrder)
	assert.Equal(t, []Assignment{}, tasks[0].Schedule)
	assert.Equal(t, EnergyLow, tasks[0].Energy)
	assert.Empty(t, tasks[0].Deadline)

	assert.Equal(t, 5, tasks[1].DisplayOrder)
	assert.Equal(t, EnergyHigh, tasks[1].Energy)
}

func TestMigrateTasks_CurrentRecordsUnchanged(t *testing.T) {
	order := 1
	energy := EnergyLow
	schedule := []Assignment{{Day: Monday, BlockID: "admin"}}
	records := []StoredTask{{
		ID: "a", Title: "T", Priority: PrioritySomeday, Type: TypeHome,
		DisplayOrder: &order, Energy: &energy, Schedule: &schedule,
	}}

	tasks, changed := MigrateTasks(records, func() string { return "unused" })
	assert.False(t, changed)
	assert.Equal(t, schedule, tasks[0].Schedule)
}

func TestMigrateTasks_MissingID(t *testing.T) {
	order := 0
	energy := EnergyLow
	schedule := []Assignment{}
	records := []StoredTask{{Title: "T", Priority: PrioritySomeday, Type: TypeHome, DisplayOrder: &order, Energy: &energy, Schedule: &schedule}}

	tasks, changed := MigrateTasks(records, func() string { return "task_new" })
	assert.True(t, changed)
	assert.Equal(t, "task_new", tasks[0].ID)
}

func TestTask_StoredRoundTrip(t *testing.T) {
	task := validTask()
	task.DisplayOrder = 3
	task.Schedule = []Assignment{{Day: Monday, BlockID: "admin", Completed: true}}

	tasks, changed := MigrateTasks([]StoredTask{task.Stored()}, func() string { return "unused" })
	assert.False(t, changed)
	assert.Equal(t, task, tasks[0])
}
