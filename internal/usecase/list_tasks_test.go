package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgate/taskgate/internal/domain"
)

func TestListTasks_Execute_ReadyColumn(t *testing.T) {
	f := newFixture()
	f.addTask("a", domain.StatusPending)
	f.addTask("b", domain.StatusPending, "a")
	uc := NewListTasks(f.repo)

	out, err := uc.Execute(context.Background(), ListTasksInput{})
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)

	byID := make(map[string]*TaskRow)
	for _, r := range out.Rows {
		byID[r.Task.ID] = r
	}
	assert.True(t, byID["a"].Ready)
	assert.False(t, byID["b"].Ready)
	assert.Equal(t, []string{"a"}, byID["b"].WaitingOn)

	// Skipping a satisfies b's dependency.
	f.repo.Tasks["a"].Status = domain.StatusSkipped
	out, err = uc.Execute(context.Background(), ListTasksInput{ReadyOnly: true})
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "b", out.Rows[0].Task.ID)
}

func TestListTasks_Execute_ComputedVsStoredBlocked(t *testing.T) {
	f := newFixture()
	f.addTask("a", domain.StatusInProgress)
	f.addTask("waiting", domain.StatusPending, "a")
	explicit := f.addTask("stopped", domain.StatusBlocked)
	explicit.BlockReason = "vendor outage"
	uc := NewListTasks(f.repo)

	out, err := uc.Execute(context.Background(), ListTasksInput{})
	require.NoError(t, err)

	byID := make(map[string]*TaskRow)
	for _, r := range out.Rows {
		byID[r.Task.ID] = r
	}
	// Computed not-ready: pending with an unsatisfied dependency.
	assert.Equal(t, domain.StatusPending, byID["waiting"].Task.Status)
	assert.Equal(t, []string{"a"}, byID["waiting"].WaitingOn)
	// Stored blocked status is a separate notion.
	assert.Equal(t, domain.StatusBlocked, byID["stopped"].Task.Status)
}

func TestListTasks_Execute_StatusFilter(t *testing.T) {
	f := newFixture()
	f.addTask("a", domain.StatusPending)
	f.addTask("b", domain.StatusCompleted)
	uc := NewListTasks(f.repo)

	out, err := uc.Execute(context.Background(), ListTasksInput{Status: domain.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "b", out.Rows[0].Task.ID)
}

func TestShowTask_Execute(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusInProgress)
	f.addTask("x__plan", domain.StatusCompleted)
	f.addTask("x__do", domain.StatusPending, "x__plan")
	seedFeedback(f, "x", "fb1", domain.FeedbackDraft, "")
	uc := NewShowTask(f.repo, f.feedback)

	out, err := uc.Execute(context.Background(), ShowTaskInput{TaskID: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", out.Task.ID)
	assert.Len(t, out.Children, 2)
	require.Len(t, out.Feedback, 1)
	assert.Equal(t, "fb1", out.Feedback[0].ID)
	assert.False(t, out.Ready, "in_progress tasks are not ready by definition")
}

func TestShowTask_Execute_NotFound(t *testing.T) {
	f := newFixture()
	uc := NewShowTask(f.repo, f.feedback)

	_, err := uc.Execute(context.Background(), ShowTaskInput{TaskID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
