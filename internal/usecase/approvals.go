package usecase

import (
	"context"
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
)

// ListApprovalsOutput contains all outstanding approval requests.
type ListApprovalsOutput struct {
	Pending []*domain.PendingApproval
}

// ListApprovals lists every outstanding approval request.
type ListApprovals struct {
	approvals domain.ApprovalChannel
}

// NewListApprovals creates a new ListApprovals use case.
func NewListApprovals(approvals domain.ApprovalChannel) *ListApprovals {
	return &ListApprovals{approvals: approvals}
}

// Execute lists the outstanding requests.
func (uc *ListApprovals) Execute(ctx context.Context) (*ListApprovalsOutput, error) {
	pending, err := uc.approvals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	return &ListApprovalsOutput{Pending: pending}, nil
}

// CancelApprovalInput contains the parameters for canceling a request.
type CancelApprovalInput struct {
	RequestID string
}

// CancelApproval withdraws an outstanding approval request by id.
type CancelApproval struct {
	approvals domain.ApprovalChannel
	logger    domain.Logger
}

// NewCancelApproval creates a new CancelApproval use case.
func NewCancelApproval(approvals domain.ApprovalChannel, logger domain.Logger) *CancelApproval {
	return &CancelApproval{approvals: approvals, logger: logger}
}

// Execute cancels the request.
func (uc *CancelApproval) Execute(ctx context.Context, in CancelApprovalInput) error {
	if err := uc.approvals.Cancel(ctx, in.RequestID); err != nil {
		return fmt.Errorf("cancel approval %s: %w", in.RequestID, err)
	}
	if uc.logger != nil {
		uc.logger.Info("", "approval", fmt.Sprintf("canceled %s", in.RequestID))
	}
	return nil
}
