package domain

import "strings"

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending       Status = "pending"        // Created, waiting on dependencies
	StatusInProgress    Status = "in_progress"    // Work underway
	StatusSelfReview    Status = "self_review"    // Submitted, agent self-checking
	StatusPendingReview Status = "pending_review" // Awaiting human review
	StatusCompleted     Status = "completed"      // Approved and done (terminal)
	StatusBlocked       Status = "blocked"        // Externally stopped, reason recorded
	StatusSkipped       Status = "skipped"        // Short-circuited with approval (terminal)
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusInProgress,
		StatusSelfReview,
		StatusPendingReview,
		StatusCompleted,
		StatusBlocked,
		StatusSkipped,
	}
}

// transitions defines the allowed status transitions.
// Flow: pending → in_progress → self_review → pending_review → completed
//
//	↑                                    │
//	└──────────── (request changes) ─────┘
//
// Any non-terminal status may move to blocked (with a reason) or, with an
// approval token, to skipped.
var transitions = map[Status][]Status{
	StatusPending:       {StatusInProgress, StatusBlocked, StatusSkipped},
	StatusInProgress:    {StatusSelfReview, StatusBlocked, StatusSkipped},
	StatusSelfReview:    {StatusPendingReview, StatusBlocked, StatusSkipped},
	StatusPendingReview: {StatusCompleted, StatusInProgress, StatusBlocked, StatusSkipped},
	StatusBlocked:       {StatusPending, StatusInProgress, StatusSelfReview, StatusPendingReview, StatusSkipped},
	StatusCompleted:     {},
	StatusSkipped:       {},
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from this status.
func (s Status) AllowedTransitions() []Status {
	return transitions[s]
}

// IsTerminal returns true if the status is a terminal state.
// Terminal tasks satisfy the dependencies of downstream tasks.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusSkipped
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusSelfReview:
		return "Self Review"
	case StatusPendingReview:
		return "Pending Review"
	case StatusCompleted:
		return "Completed"
	case StatusBlocked:
		return "Blocked"
	case StatusSkipped:
		return "Skipped"
	default:
		return string(s)
	}
}

// FormatStatusList renders a status slice for error messages.
func FormatStatusList(statuses []Status) string {
	if len(statuses) == 0 {
		return "(none)"
	}
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
