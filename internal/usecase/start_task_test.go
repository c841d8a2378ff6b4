package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgate/taskgate/internal/domain"
)

func TestStartTask_Execute_CreatesPhaseChain(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusPending)
	uc := NewStartTask(f.repo, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), StartTaskInput{
		TaskID:       "x",
		Instructions: "refactor the cache",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, out.Task.Status)
	assert.Equal(t, "refactor the cache", out.Task.Instructions)
	assert.Equal(t, []string{"x__plan", "x__do", "x__check", "x__act"}, out.CreatedPhases)

	plan := f.repo.Tasks["x__plan"]
	require.NotNil(t, plan)
	assert.Equal(t, "x", plan.Parent)
	assert.Empty(t, plan.Dependencies)

	do := f.repo.Tasks["x__do"]
	require.NotNil(t, do)
	assert.Equal(t, []string{"x__plan"}, do.Dependencies)
	assert.NotEmpty(t, do.DependencyReason)

	check := f.repo.Tasks["x__check"]
	require.NotNil(t, check)
	assert.Equal(t, []string{"x__do"}, check.Dependencies)

	act := f.repo.Tasks["x__act"]
	require.NotNil(t, act)
	assert.Equal(t, []string{"x__check"}, act.Dependencies)
}

func TestStartTask_Execute_ExistingChildrenNotRecreated(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusPending)
	f.addTask("x__plan", domain.StatusCompleted)
	uc := NewStartTask(f.repo, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), StartTaskInput{TaskID: "x"})

	require.NoError(t, err)
	assert.Empty(t, out.CreatedPhases)
	assert.NotContains(t, f.repo.Tasks, "x__do")
}

func TestStartTask_Execute_PhaseTaskNotDecomposed(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusInProgress)
	f.addTask("x__plan", domain.StatusPending)
	uc := NewStartTask(f.repo, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), StartTaskInput{TaskID: "x__plan"})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, out.Task.Status)
	assert.Empty(t, out.CreatedPhases)
	assert.NotContains(t, f.repo.Tasks, "x__plan__plan")
}

// A phase sub-task runs the whole cycle on its own: start, submit, confirm,
// then approve without any grandchildren vetoing.
func TestStartTask_Execute_PhaseTaskCompletesCycle(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusInProgress)
	f.addTask("x__plan", domain.StatusPending)
	ctx := context.Background()

	_, err := NewStartTask(f.repo, f.regen, f.clock, nil).Execute(ctx, StartTaskInput{TaskID: "x__plan"})
	require.NoError(t, err)

	_, err = NewSubmitPhase(f.repo, f.feedback, f.regen, f.clock, nil).Execute(ctx, SubmitPhaseInput{
		TaskID:     "x__plan",
		Phase:      domain.PhasePlan,
		Submission: validSubmission(domain.PhasePlan),
	})
	require.NoError(t, err)

	_, err = NewConfirmTask(f.repo, f.regen, f.clock, nil).Execute(ctx, ConfirmTaskInput{TaskID: "x__plan"})
	require.NoError(t, err)

	approve := NewApproveTask(f.repo, f.gate, f.regen, f.clock, nil)
	out, err := approve.Execute(ctx, ApproveTaskInput{TaskID: "x__plan"})
	require.NoError(t, err)
	require.NotNil(t, out.Pending)

	out, err = approve.Execute(ctx, ApproveTaskInput{
		TaskID: "x__plan",
		Token:  f.approvals.Token("complete-x__plan"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, out.Task.Status)
}

func TestStartTask_Execute_NotReady(t *testing.T) {
	f := newFixture()
	f.addTask("a", domain.StatusInProgress)
	f.addTask("b", domain.StatusPending, "a")
	uc := NewStartTask(f.repo, f.regen, f.clock, nil)

	_, err := uc.Execute(context.Background(), StartTaskInput{TaskID: "b"})

	assert.ErrorIs(t, err, domain.ErrTaskNotReady)
	assert.Equal(t, domain.StatusPending, f.repo.Tasks["b"].Status)
}

func TestStartTask_Execute_ReadyAfterSkip(t *testing.T) {
	f := newFixture()
	f.addTask("a", domain.StatusSkipped)
	f.addTask("b", domain.StatusPending, "a")
	uc := NewStartTask(f.repo, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), StartTaskInput{TaskID: "b"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, out.Task.Status)
}

func TestStartTask_Execute_WrongStatus(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusInProgress)
	uc := NewStartTask(f.repo, f.regen, f.clock, nil)

	_, err := uc.Execute(context.Background(), StartTaskInput{TaskID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
