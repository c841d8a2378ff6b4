package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgate/taskgate/internal/domain"
)

func TestSkipTask_Execute_TwoPhase(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusPending)
	uc := NewSkipTask(f.repo, f.gate, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), SkipTaskInput{
		TaskID:  "x",
		Reason:  "superseded by the new design",
		Timeout: time.Hour,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Pending)
	assert.Equal(t, domain.StatusPending, f.repo.Tasks["x"].Status, "nothing mutated on first call")

	token := f.approvals.Token(out.Pending.RequestID)
	out, err = uc.Execute(context.Background(), SkipTaskInput{
		TaskID: "x",
		Reason: "superseded by the new design",
		Token:  token,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSkipped, out.Task.Status)
	assert.Equal(t, "superseded by the new design", out.Task.SkipReason)
}

func TestSkipTask_Execute_ReasonRequired(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusPending)
	uc := NewSkipTask(f.repo, f.gate, f.regen, f.clock, nil)

	_, err := uc.Execute(context.Background(), SkipTaskInput{TaskID: "x"})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)
}

func TestSkipTask_Execute_TerminalRejected(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusCompleted, domain.StatusSkipped} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture()
			f.addTask("x", status)
			uc := NewSkipTask(f.repo, f.gate, f.regen, f.clock, nil)

			_, err := uc.Execute(context.Background(), SkipTaskInput{TaskID: "x", Reason: "r", Timeout: time.Hour})
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		})
	}
}

func TestSkipTask_Execute_SkippableFromAnyNonTerminal(t *testing.T) {
	for _, status := range []domain.Status{
		domain.StatusPending,
		domain.StatusInProgress,
		domain.StatusSelfReview,
		domain.StatusPendingReview,
		domain.StatusBlocked,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture()
			f.addTask("x", status)
			uc := NewSkipTask(f.repo, f.gate, f.regen, f.clock, nil)

			out, err := uc.Execute(context.Background(), SkipTaskInput{TaskID: "x", Reason: "r", Timeout: time.Hour})
			require.NoError(t, err)

			token := f.approvals.Token(out.Pending.RequestID)
			out, err = uc.Execute(context.Background(), SkipTaskInput{TaskID: "x", Reason: "r", Token: token})
			require.NoError(t, err)
			assert.Equal(t, domain.StatusSkipped, out.Task.Status)
		})
	}
}
