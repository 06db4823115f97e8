package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

const draftFile = `---
title: Renew passport
priority: critical
deadline: 2025-02-01
---
title: Quarterly report
type: work
energy: high
---
title: Fix bike
deadline: 2025-05-01
`

func TestCreateTasksFromFile_Execute(t *testing.T) {
	// Setup
	f := newFixture()
	uc := NewCreateTasksFromFile(f.store, f.sync, f.logger)

	// Execute
	out, err := uc.Execute(context.Background(), CreateTasksFromFileInput{Content: draftFile})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Tasks, 3)
	assert.Equal(t, domain.PriorityCritical, out.Tasks[0].Priority)
	assert.Equal(t, "2025-02-01", out.Tasks[0].Deadline)
	assert.Equal(t, domain.TypeWork, out.Tasks[1].Type)
	assert.Equal(t, domain.EnergyHigh, out.Tasks[1].Energy)
	assert.Empty(t, out.Tasks[2].Deadline)
	assert.Equal(t, 1, out.Tasks[1].DisplayOrder)
	assert.Equal(t, 2, out.Tasks[2].DisplayOrder)

	all, err := f.store.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCreateTasksFromFile_Execute_DryRun(t *testing.T) {
	f := newFixture()
	uc := NewCreateTasksFromFile(f.store, f.sync, f.logger)

	out, err := uc.Execute(context.Background(), CreateTasksFromFileInput{Content: draftFile, DryRun: true})

	require.NoError(t, err)
	assert.Len(t, out.Tasks, 3)
	assert.Empty(t, out.Tasks[0].ID)
	assert.Zero(t, f.kv.SetCalls)
}

func TestCreateTasksFromFile_Execute_InvalidDraftCreatesNothing(t *testing.T) {
	f := newFixture()
	uc := NewCreateTasksFromFile(f.store, f.sync, f.logger)

	_, err := uc.Execute(context.Background(), CreateTasksFromFileInput{Content: `---
title: Fine
---
title: Urgent without date
priority: CRITICAL
`})

	require.ErrorIs(t, err, domain.ErrDeadlineRequired)
	assert.Contains(t, err.Error(), "task 2")
	assert.Zero(t, f.kv.SetCalls)
}

func TestCreateTasksFromFile_Execute_Empty(t *testing.T) {
	f := newFixture()
	uc := NewCreateTasksFromFile(f.store, f.sync, f.logger)

	_, err := uc.Execute(context.Background(), CreateTasksFromFileInput{Content: "  \n"})
	require.ErrorIs(t, err, domain.ErrEmptyFile)

	_, err = uc.Execute(context.Background(), CreateTasksFromFileInput{Content: "---\n---\n"})
	require.ErrorIs(t, err, domain.ErrNoTasksInFile)
}
