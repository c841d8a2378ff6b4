package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgate/taskgate/internal/domain"
)

func TestListApprovals_Execute(t *testing.T) {
	f := newFixture()
	_, err := f.approvals.Request(context.Background(), domain.ApprovalRequest{
		RequestID: "complete-x",
		Label:     "complete task",
		TaskIDs:   []string{"x"},
		Timeout:   time.Hour,
	})
	require.NoError(t, err)

	uc := NewListApprovals(f.approvals)
	out, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Pending, 1)
	assert.Equal(t, "complete-x", out.Pending[0].RequestID)
}

func TestCancelApproval_Execute(t *testing.T) {
	f := newFixture()
	_, err := f.approvals.Request(context.Background(), domain.ApprovalRequest{
		RequestID: "skip-x",
		TaskIDs:   []string{"x"},
		Timeout:   time.Hour,
	})
	require.NoError(t, err)

	uc := NewCancelApproval(f.approvals, nil)
	require.NoError(t, uc.Execute(context.Background(), CancelApprovalInput{RequestID: "skip-x"}))
	assert.Empty(t, f.approvals.Requests)

	err = uc.Execute(context.Background(), CancelApprovalInput{RequestID: "skip-x"})
	assert.ErrorIs(t, err, domain.ErrApprovalNotFound)
}
