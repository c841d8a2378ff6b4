package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgate/taskgate/internal/domain"
)

func TestDeleteTask_Execute_DirectDelete(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusPending)
	uc := NewDeleteTask(f.repo, f.gate, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "x"})

	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, out.Removed)
	assert.NotContains(t, f.repo.Tasks, "x")
}

func TestDeleteTask_Execute_DirectDeleteIncludesDescendants(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusInProgress)
	f.addTask("x__plan", domain.StatusPending)
	f.addTask("x__do", domain.StatusPending, "x__plan")
	uc := NewDeleteTask(f.repo, f.gate, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "x"})

	require.NoError(t, err)
	assert.Len(t, out.Removed, 3)
	assert.Empty(t, f.repo.Tasks)
}

func TestDeleteTask_Execute_DependentsRejectWithoutForce(t *testing.T) {
	f := newFixture()
	f.addTask("a", domain.StatusPending)
	f.addTask("b", domain.StatusPending, "a")
	uc := NewDeleteTask(f.repo, f.gate, f.regen, f.clock, nil)

	_, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "a"})

	assert.ErrorIs(t, err, domain.ErrDependentsExist)
	assert.Contains(t, f.repo.Tasks, "a")
}

func TestDeleteTask_Execute_ForceCascadeTwoPhase(t *testing.T) {
	f := newFixture()
	f.addTask("a", domain.StatusPending)
	f.addTask("b", domain.StatusPending, "a")
	f.addTask("c", domain.StatusPending, "b")
	uc := NewDeleteTask(f.repo, f.gate, f.regen, f.clock, nil)

	// First call returns the 3-id pending set and mutates nothing.
	out, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "a", Force: true, Timeout: time.Hour})
	require.NoError(t, err)
	require.NotNil(t, out.Pending)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, out.PendingSet)
	assert.Len(t, f.repo.Tasks, 3)

	// Approving removes all three.
	token := f.approvals.Token(out.Pending.RequestID)
	out, err = uc.Execute(context.Background(), DeleteTaskInput{TaskID: "a", Force: true, Token: token})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, out.Removed)
	assert.Empty(t, out.Surviving)
	assert.Empty(t, f.repo.Tasks)

	// A second presentation of the same token fails.
	_, err = uc.Execute(context.Background(), DeleteTaskInput{TaskID: "a", Force: true, Token: token})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteTask_Execute_ForceStripsDanglingDeps(t *testing.T) {
	f := newFixture()
	f.addTask("a", domain.StatusPending)
	f.addTask("b", domain.StatusCompleted, "a")
	f.addTask("c", domain.StatusPending, "a", "b")
	uc := NewDeleteTask(f.repo, f.gate, f.regen, f.clock, nil)

	// b is terminal, so the cascade from a covers a and c but not b.
	out, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "a", Force: true, Timeout: time.Hour})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, out.PendingSet)

	token := f.approvals.Token(out.Pending.RequestID)
	_, err = uc.Execute(context.Background(), DeleteTaskInput{TaskID: "a", Force: true, Token: token})
	require.NoError(t, err)

	survivor := f.repo.Tasks["b"]
	require.NotNil(t, survivor)
	assert.Empty(t, survivor.Dependencies, "dangling reference to a stripped")
	assert.Empty(t, survivor.DependencyReason)
}

func TestDeleteTask_Execute_PartialFailureReported(t *testing.T) {
	f := newFixture()
	f.addTask("a", domain.StatusPending)
	f.addTask("b", domain.StatusPending, "a")
	uc := NewDeleteTask(f.repo, f.gate, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "a", Force: true, Timeout: time.Hour})
	require.NoError(t, err)
	token := f.approvals.Token(out.Pending.RequestID)

	// One of the captured ids disappears before approval; its delete fails.
	delete(f.repo.Tasks, "b")

	out, err = uc.Execute(context.Background(), DeleteTaskInput{TaskID: "a", Force: true, Token: token})
	require.Error(t, err)
	assert.Contains(t, out.Removed, "a")
	assert.Contains(t, out.Surviving, "b")
}

func TestCancelDelete_Execute(t *testing.T) {
	f := newFixture()
	f.addTask("a", domain.StatusPending)
	f.addTask("b", domain.StatusPending, "a")
	del := NewDeleteTask(f.repo, f.gate, f.regen, f.clock, nil)

	out, err := del.Execute(context.Background(), DeleteTaskInput{TaskID: "a", Force: true, Timeout: time.Hour})
	require.NoError(t, err)
	requestID := out.Pending.RequestID

	cancel := NewCancelDelete(f.approvals, nil)
	cout, err := cancel.Execute(context.Background(), CancelDeleteInput{TaskID: "a"})
	require.NoError(t, err)
	assert.Equal(t, requestID, cout.RequestID)
	assert.Empty(t, f.approvals.Requests, "no residual state")
	assert.Len(t, f.repo.Tasks, 2, "nothing deleted")

	// The captured token is now useless.
	_, err = del.Execute(context.Background(), DeleteTaskInput{TaskID: "a", Force: true, Token: f.approvals.Token(requestID)})
	assert.ErrorIs(t, err, domain.ErrApprovalNotFound)
}

func TestCancelDelete_Execute_NoPendingDelete(t *testing.T) {
	f := newFixture()
	cancel := NewCancelDelete(f.approvals, nil)

	_, err := cancel.Execute(context.Background(), CancelDeleteInput{TaskID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrApprovalNotFound)
}
