package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgate/taskgate/internal/domain"
)

func TestConfirmTask_Execute_Success(t *testing.T) {
	f := newFixture()
	f.addTask("x", domain.StatusSelfReview)
	uc := NewConfirmTask(f.repo, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), ConfirmTaskInput{TaskID: "x"})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingReview, out.Task.Status)
	assert.Equal(t, 1, f.reports.Regenerations)
}

func TestConfirmTask_Execute_WrongStatus(t *testing.T) {
	for _, status := range []domain.Status{
		domain.StatusPending,
		domain.StatusInProgress,
		domain.StatusPendingReview,
		domain.StatusCompleted,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture()
			f.addTask("x", status)
			uc := NewConfirmTask(f.repo, f.regen, f.clock, nil)

			_, err := uc.Execute(context.Background(), ConfirmTaskInput{TaskID: "x"})
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		})
	}
}
