package usecase

import (
	"context"
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// SubmitPhaseInput contains the parameters for submitting phase work.
type SubmitPhaseInput struct {
	Submission *domain.Submission
	TaskID     string
	// Phase is the submit variant the caller invoked (submit_plan etc.).
	// It must match the phase encoded in the task id suffix.
	Phase domain.Phase
}

// SubmitPhaseOutput contains the result of a submission.
type SubmitPhaseOutput struct {
	Task *domain.Task
}

// SubmitPhase is the use case for the in_progress → self_review transition.
// Each phase variant carries a payload contract; a submission with missing
// fields or with fields belonging to another phase is rejected with the exact
// remediation before any state change.
type SubmitPhase struct {
	tasks    domain.TaskRepository
	feedback domain.FeedbackRepository
	reports  *shared.Regenerator
	clock    domain.Clock
	logger   domain.Logger
}

// NewSubmitPhase creates a new SubmitPhase use case.
func NewSubmitPhase(tasks domain.TaskRepository, feedback domain.FeedbackRepository, reports *shared.Regenerator, clock domain.Clock, logger domain.Logger) *SubmitPhase {
	return &SubmitPhase{tasks: tasks, feedback: feedback, reports: reports, clock: clock, logger: logger}
}

// Execute submits the phase payload.
func (uc *SubmitPhase) Execute(_ context.Context, in SubmitPhaseInput) (*SubmitPhaseOutput, error) {
	if !in.Phase.IsValid() {
		return nil, fmt.Errorf("unknown phase %q", in.Phase)
	}

	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	taskPhase, ok := domain.PhaseOf(task.ID)
	if !ok {
		return nil, fmt.Errorf("task %q has no phase suffix: only %s/%s/%s/%s sub-tasks accept submissions",
			task.ID, domain.PhasePlan, domain.PhaseDo, domain.PhaseCheck, domain.PhaseAct)
	}
	if taskPhase != in.Phase {
		return nil, &domain.WrongPhaseError{
			TaskID:      task.ID,
			Phase:       taskPhase,
			WrongFields: in.Submission.WrongPhaseFields(taskPhase),
		}
	}

	if task.Status != domain.StatusInProgress {
		return nil, &domain.TransitionError{
			TaskID: task.ID,
			Action: in.Phase.SubmitAction(),
			From:   task.Status,
			To:     domain.StatusSelfReview,
			Hint:   fmt.Sprintf("the task must be %s before submitting", domain.StatusInProgress),
		}
	}

	if wrong := in.Submission.WrongPhaseFields(in.Phase); len(wrong) > 0 {
		return nil, &domain.WrongPhaseError{TaskID: task.ID, Phase: in.Phase, WrongFields: wrong}
	}
	if missing := in.Submission.MissingFields(in.Phase); len(missing) > 0 {
		return nil, &domain.ValidationError{
			Action:  in.Phase.SubmitAction(),
			Missing: missing,
			Example: domain.ExampleSubmission(in.Phase),
		}
	}

	task.Status = domain.StatusSelfReview
	task.TaskOutput = in.Submission
	task.Output = in.Submission.Summary()
	task.Touch(uc.clock.Now())

	if err := uc.tasks.Put(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	// An act submission names the feedback it addressed; stamp those items
	// so reviewers can see what has been resolved.
	if in.Phase == domain.PhaseAct {
		if err := uc.stampAddressed(task, in.Submission.FeedbackAddressed); err != nil {
			return nil, err
		}
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("%s accepted, now in self_review", in.Phase.SubmitAction()))
	}
	uc.reports.Regenerate()

	return &SubmitPhaseOutput{Task: task}, nil
}

// stampAddressed records the act sub-task as the resolver of the named
// feedback items. Reviewer feedback attaches to whichever task was under
// review, so an item may live on the parent or on any phase sibling; all of
// them are searched. Items that no longer exist anywhere are skipped rather
// than failing the submission.
func (uc *SubmitPhase) stampAddressed(task *domain.Task, feedbackIDs []string) error {
	owners := []string{task.ID}
	if task.Parent != "" {
		owners = append(owners, task.Parent)
		siblings, err := uc.tasks.GetChildren(task.Parent)
		if err != nil {
			return fmt.Errorf("list phase siblings: %w", err)
		}
		for _, s := range siblings {
			if s.ID != task.ID {
				owners = append(owners, s.ID)
			}
		}
	}

	for _, fbID := range feedbackIDs {
		fb := uc.findFeedback(owners, fbID)
		if fb == nil {
			continue
		}
		fb.AddressedBy = task.ID
		if err := uc.feedback.PutFeedback(fb); err != nil {
			return fmt.Errorf("stamp feedback %s: %w", fbID, err)
		}
	}
	return nil
}

func (uc *SubmitPhase) findFeedback(owners []string, fbID string) *domain.Feedback {
	for _, owner := range owners {
		if fb, err := uc.feedback.GetFeedback(owner, fbID); err == nil {
			return fb
		}
	}
	return nil
}
