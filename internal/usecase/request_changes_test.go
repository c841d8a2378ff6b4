package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgate/taskgate/internal/domain"
)

func TestRequestChanges_Execute_Success(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusPendingReview)
	uc := NewRequestChanges(f.repo, f.feedback, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), RequestChangesInput{
		TaskID:  "x",
		Comment: "fix bug",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, out.Task.Status)

	items, err := f.feedback.ListFeedback("x")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fix bug", items[0].Original)
	assert.Equal(t, domain.FeedbackDraft, items[0].Status)
	assert.Equal(t, domain.DecisionRejected, items[0].Decision, "decision defaults to rejected")
	assert.Equal(t, f.clock.NowTime, items[0].Timestamp)

	assert.Equal(t, []string{items[0].ID}, out.Task.Feedback)
}

func TestRequestChanges_Execute_ExplicitDecision(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusPendingReview)
	uc := NewRequestChanges(f.repo, f.feedback, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), RequestChangesInput{
		TaskID:   "x",
		Comment:  "good direction, adjust naming",
		Decision: domain.DecisionAdopted,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionAdopted, out.Feedback.Decision)
}

func TestRequestChanges_Execute_EmptyComment(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusPendingReview)
	uc := NewRequestChanges(f.repo, f.feedback, f.regen, f.clock, nil)

	_, err := uc.Execute(context.Background(), RequestChangesInput{TaskID: "x"})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRequestChanges_Execute_WrongStatus(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusInProgress)
	uc := NewRequestChanges(f.repo, f.feedback, f.regen, f.clock, nil)

	_, err := uc.Execute(context.Background(), RequestChangesInput{TaskID: "x", Comment: "c"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
