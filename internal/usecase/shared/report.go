package shared

import (
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
)

// Regenerator rebuilds the derived report artifacts after mutating actions.
// Reports are projections of the store; a failed regeneration is logged and
// never fails the action that triggered it.
type Regenerator struct {
	tasks    domain.TaskRepository
	feedback domain.FeedbackRepository
	reports  domain.ReportWriter
	logger   domain.Logger
}

// NewRegenerator creates a new Regenerator. reports may be nil, in which case
// regeneration is a no-op (reports disabled).
func NewRegenerator(tasks domain.TaskRepository, feedback domain.FeedbackRepository, reports domain.ReportWriter, logger domain.Logger) *Regenerator {
	return &Regenerator{tasks: tasks, feedback: feedback, reports: reports, logger: logger}
}

// Regenerate rewrites all report artifacts from a full listing.
func (r *Regenerator) Regenerate() {
	if r.reports == nil {
		return
	}

	tasks, err := r.tasks.List()
	if err != nil {
		r.warn(fmt.Sprintf("report regeneration skipped: list tasks: %v", err))
		return
	}

	feedback := make(map[string][]*domain.Feedback)
	for _, t := range tasks {
		if len(t.Feedback) == 0 {
			continue
		}
		items, fbErr := r.feedback.ListFeedback(t.ID)
		if fbErr != nil {
			r.warn(fmt.Sprintf("report regeneration: list feedback for %s: %v", t.ID, fbErr))
			continue
		}
		feedback[t.ID] = items
	}

	if err := r.reports.Regenerate(tasks, feedback); err != nil {
		r.warn(fmt.Sprintf("report regeneration failed: %v", err))
	}
}

func (r *Regenerator) warn(msg string) {
	if r.logger != nil {
		r.logger.Warn("", "report", msg)
	}
}
