package usecase

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// RequestChangesInput contains the parameters for requesting changes.
// Fields are ordered to minimize memory padding.
type RequestChangesInput struct {
	TaskID   string
	Comment  string // Raw reviewer comment (required)
	Decision domain.FeedbackDecision
}

// RequestChangesOutput contains the result of requesting changes.
type RequestChangesOutput struct {
	Task     *domain.Task
	Feedback *domain.Feedback
}

// RequestChanges is the use case for the pending_review → in_progress
// transition: the reviewer rejects the submission with a comment. A new draft
// Feedback is created and the task reverts; the cycle (interpret → confirm →
// re-submit) repeats until approved.
type RequestChanges struct {
	tasks    domain.TaskRepository
	feedback domain.FeedbackRepository
	reports  *shared.Regenerator
	clock    domain.Clock
	logger   domain.Logger
}

// NewRequestChanges creates a new RequestChanges use case.
func NewRequestChanges(tasks domain.TaskRepository, feedback domain.FeedbackRepository, reports *shared.Regenerator, clock domain.Clock, logger domain.Logger) *RequestChanges {
	return &RequestChanges{tasks: tasks, feedback: feedback, reports: reports, clock: clock, logger: logger}
}

// Execute records the feedback and reverts the task.
func (uc *RequestChanges) Execute(_ context.Context, in RequestChangesInput) (*RequestChangesOutput, error) {
	if in.Comment == "" {
		return nil, &domain.ValidationError{Action: "request_changes", Missing: []string{"comment"}}
	}
	decision := in.Decision
	if decision == "" {
		decision = domain.DecisionRejected
	}

	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.StatusPendingReview {
		return nil, &domain.TransitionError{
			TaskID: task.ID,
			Action: "request_changes",
			From:   task.Status,
			To:     domain.StatusInProgress,
		}
	}

	now := uc.clock.Now()
	fb := &domain.Feedback{
		Timestamp: now,
		ID:        ulid.Make().String(),
		TaskID:    task.ID,
		Original:  in.Comment,
		Decision:  decision,
		Status:    domain.FeedbackDraft,
	}
	if err := uc.feedback.PutFeedback(fb); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	task.Feedback = append(task.Feedback, fb.ID)
	task.Status = domain.StatusInProgress
	task.Touch(now)
	if err := uc.tasks.Put(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "feedback", fmt.Sprintf("changes requested (%s), feedback %s", decision, fb.ID))
	}
	uc.reports.Regenerate()

	return &RequestChangesOutput{Task: task, Feedback: fb}, nil
}
