package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors.
var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskExists          = errors.New("task already exists")
	ErrFeedbackNotFound    = errors.New("feedback not found")
	ErrNotInitialized      = errors.New("taskgate not initialized (run 'taskgate init' first)")
	ErrEmptyTitle          = errors.New("title cannot be empty")
	ErrInvalidTaskID       = errors.New("invalid task id")
	ErrMalformedRecord     = errors.New("malformed record")
	ErrDependencyCycle     = errors.New("dependency cycle detected")
	ErrMissingDependencies = errors.New("missing dependencies")
	ErrDependentsExist     = errors.New("other tasks depend on this task (use --force to cascade)")
	ErrDependencyReason    = errors.New("dependency_reason is required when dependencies are set")
	ErrSelfDependency      = errors.New("task cannot depend on itself")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrTaskNotReady        = errors.New("task dependencies are not satisfied")
	ErrChildrenNotTerminal = errors.New("task has non-terminal sub-tasks")
	ErrReasonRequired      = errors.New("a reason is required")
	ErrNotPendingTask      = errors.New("only pending tasks can be updated")

	ErrFeedbackConfirmed  = errors.New("feedback is already confirmed")
	ErrNoInterpretation   = errors.New("feedback has no interpretation recorded")
	ErrInterpretationSet  = errors.New("interpretation can only be set while draft")

	ErrApprovalNotFound = errors.New("no outstanding approval request")
	ErrApprovalInvalid  = errors.New("approval token is invalid")
	ErrApprovalExpired  = errors.New("approval request has expired")
	ErrPendingOperation = errors.New("operation is pending approval")
)

// TransitionError is returned for a disallowed status transition. It names
// the rejected edge and the edges allowed from the current state, so an
// autonomous caller can pick the correct action without extra round trips.
// Fields are ordered to minimize memory padding.
type TransitionError struct {
	TaskID string
	Action string
	From   Status
	To     Status
	Hint   string // Optional remediation, e.g. the correct action to use
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s: cannot %s task %q: %s → %s is not allowed (allowed from %s: %s)",
		ErrInvalidTransition, e.Action, e.TaskID, e.From, e.To,
		e.From, FormatStatusList(e.From.AllowedTransitions()))
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

// Unwrap allows errors.Is(err, ErrInvalidTransition).
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ValidationError is returned when an action payload is missing required
// fields. It carries the exact field list plus an example of a well-formed
// call.
type ValidationError struct {
	Action  string
	Missing []string
	Example string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: missing required fields: %s", e.Action, strings.Join(e.Missing, ", "))
	if e.Example != "" {
		msg += "\nexample: " + e.Example
	}
	return msg
}

// WrongPhaseError is returned when a submit action carries payload fields
// belonging to a different phase than the task's id suffix.
type WrongPhaseError struct {
	TaskID      string
	Phase       Phase
	WrongFields []string
}

// Error implements the error interface.
func (e *WrongPhaseError) Error() string {
	return fmt.Sprintf("task %q is a %s phase: fields %s belong to a different phase; use %s with %s-specific fields instead",
		e.TaskID, e.Phase, strings.Join(e.WrongFields, ", "), e.Phase.SubmitAction(), e.Phase)
}

// GraphError is returned when a dependency-graph precondition fails.
// Fields are ordered to minimize memory padding.
type GraphError struct {
	Err    error    // ErrDependencyCycle, ErrMissingDependencies or ErrDependentsExist
	TaskID string
	IDs    []string // The offending dependency or dependent ids
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if len(e.IDs) == 0 {
		return fmt.Sprintf("task %q: %s", e.TaskID, e.Err)
	}
	return fmt.Sprintf("task %q: %s: %s", e.TaskID, e.Err, strings.Join(e.IDs, ", "))
}

// Unwrap returns the underlying sentinel.
func (e *GraphError) Unwrap() error {
	return e.Err
}
