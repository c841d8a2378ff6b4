package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/taskgate/taskgate/internal/domain"
)

// Gate drives the two-phase protocol around approval-gated mutations. The
// protocol is an explicit state machine: a call without a token opens (or
// resends) a request and mutates nothing; a later call carrying a valid token
// consumes the request and releases the captured id set for mutation. Keeping
// this out of the transition logic makes re-entrancy and idempotence easy to
// reason about.
type Gate struct {
	approvals      domain.ApprovalChannel
	logger         domain.Logger
	defaultTimeout time.Duration
}

// NewGate creates a new Gate. defaultTimeout bounds requests whose input
// carries no explicit timeout.
func NewGate(approvals domain.ApprovalChannel, logger domain.Logger, defaultTimeout time.Duration) *Gate {
	return &Gate{approvals: approvals, logger: logger, defaultTimeout: defaultTimeout}
}

// GateInput describes the gated operation.
// Fields are ordered to minimize memory padding.
type GateInput struct {
	Kind        domain.OperationKind
	Label       string
	Description string
	Token       string // Empty on the first call
	TaskIDs     []string
	Timeout     time.Duration
}

// GateResult is the outcome of one pass through the gate. Exactly one of
// Pending and Approved is set: Pending when the operation awaits a token,
// Approved with the captured id set once a token has been consumed.
type GateResult struct {
	Pending  *domain.PendingApproval
	Approved []string
}

// Pass runs one step of the protocol. Without a token it opens an approval
// request (idempotent: an identical outstanding request is resent, not
// duplicated) and returns the pending descriptor. With a token it validates
// and consumes the request; a second presentation of the same token fails.
func (g *Gate) Pass(ctx context.Context, in GateInput) (*GateResult, error) {
	requestID := domain.ApprovalRequestID(in.Kind, in.TaskIDs...)

	if in.Token == "" {
		timeout := in.Timeout
		if timeout <= 0 {
			timeout = g.defaultTimeout
		}
		pending, err := g.approvals.Request(ctx, domain.ApprovalRequest{
			RequestID:   requestID,
			Label:       in.Label,
			Description: in.Description,
			TaskIDs:     in.TaskIDs,
			Timeout:     timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("request approval: %w", err)
		}
		if g.logger != nil {
			g.logger.Info("", "approval", fmt.Sprintf("approval requested: %s (%s)", requestID, in.Label))
		}
		return &GateResult{Pending: pending}, nil
	}

	ids, err := g.approvals.Consume(ctx, requestID, in.Token)
	if err != nil {
		return nil, fmt.Errorf("consume approval %s: %w", requestID, err)
	}
	if g.logger != nil {
		g.logger.Info("", "approval", fmt.Sprintf("approval consumed: %s", requestID))
	}
	return &GateResult{Approved: ids}, nil
}

// CancelPending withdraws an outstanding request for the operation, restoring
// normal operation with no residual state.
func (g *Gate) CancelPending(ctx context.Context, kind domain.OperationKind, taskIDs ...string) error {
	requestID := domain.ApprovalRequestID(kind, taskIDs...)
	if err := g.approvals.Cancel(ctx, requestID); err != nil {
		return fmt.Errorf("cancel approval %s: %w", requestID, err)
	}
	if g.logger != nil {
		g.logger.Info("", "approval", fmt.Sprintf("approval canceled: %s", requestID))
	}
	return nil
}
