package domain

import (
	"context"
	"strings"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error

	// IsInitialized checks if the store has been initialized.
	IsInitialized() bool
}

// TaskRepository manages task persistence.
type TaskRepository interface {
	// Get retrieves a task by id. A malformed record fails explicitly.
	Get(id string) (*Task, error)

	// List retrieves all tasks, skipping individually malformed records.
	// Served from the in-memory cache when valid.
	List() ([]*Task, error)

	// GetChildren retrieves direct children of a task.
	GetChildren(parentID string) ([]*Task, error)

	// Put creates or updates a task and invalidates the list cache.
	Put(task *Task) error

	// Delete removes a task and its feedback records by id.
	Delete(id string) error

	// InvalidateCache discards the in-memory list cache.
	InvalidateCache()
}

// FeedbackRepository manages feedback persistence, grouped per task.
type FeedbackRepository interface {
	// GetFeedback retrieves a feedback item by task and feedback id.
	GetFeedback(taskID, feedbackID string) (*Feedback, error)

	// ListFeedback retrieves all feedback attached to a task, ordered by id.
	ListFeedback(taskID string) ([]*Feedback, error)

	// PutFeedback creates or updates a feedback item.
	PutFeedback(fb *Feedback) error

	// DeleteFeedback removes a single feedback item.
	DeleteFeedback(taskID, feedbackID string) error

	// DeleteAllFeedback removes every feedback item of a task.
	DeleteAllFeedback(taskID string) error
}

// OperationKind identifies an approval-gated operation.
type OperationKind string

const (
	OpComplete OperationKind = "complete"
	OpSkip     OperationKind = "skip"
	OpDelete   OperationKind = "delete"
)

// ApprovalRequestID derives the request id for a gated operation so repeated
// calls for the same pending operation reuse one outstanding request.
func ApprovalRequestID(kind OperationKind, taskIDs ...string) string {
	return string(kind) + "-" + strings.Join(taskIDs, "-")
}

// ApprovalRequest describes a gated operation awaiting human approval.
// Fields are ordered to minimize memory padding.
type ApprovalRequest struct {
	RequestID   string
	Label       string
	Description string
	TaskIDs     []string // The full id set the operation will touch
	Timeout     time.Duration
}

// PendingApproval is the descriptor of an outstanding approval request.
// Fields are ordered to minimize memory padding.
type PendingApproval struct {
	Created      time.Time
	ExpiresAt    time.Time
	RequestID    string
	Label        string
	Description  string
	FallbackPath string // Where a human can find the token out of band
	TaskIDs      []string
	Resent       bool // True when an identical request reused this one
}

// ApprovalChannel is the external collaborator that issues and validates
// approval tokens. Token cryptography lives behind this boundary; the engine
// only drives the request/response protocol.
type ApprovalChannel interface {
	// Request opens (or, when one is already outstanding for the same
	// request id, resends) an approval request. Nothing is mutated by this
	// call; the caller retries later with the issued token.
	Request(ctx context.Context, req ApprovalRequest) (*PendingApproval, error)

	// Validate checks a provided token against the outstanding request.
	// Expired requests are rejected as invalid.
	Validate(ctx context.Context, requestID, token string) error

	// Consume validates a token and retires the request, returning the task
	// id set captured when the request was opened. A second presentation of
	// the same token fails with ErrApprovalNotFound.
	Consume(ctx context.Context, requestID, token string) ([]string, error)

	// Resend re-notifies the approver of an outstanding request.
	Resend(ctx context.Context, requestID string) (bool, error)

	// Cancel withdraws an outstanding request, restoring normal operation.
	Cancel(ctx context.Context, requestID string) error

	// List returns all outstanding requests.
	List(ctx context.Context) ([]*PendingApproval, error)
}

// ReportWriter regenerates the derived report artifacts from a full task
// listing. Reports are pure projections and hold no state.
type ReportWriter interface {
	// Regenerate rewrites every report artifact.
	Regenerate(tasks []*Task, feedback map[string][]*Feedback) error
}

// Logger writes structured log entries to the global and per-task logs.
type Logger interface {
	Debug(taskID, category, msg string)
	Info(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
