package report

import (
	"fmt"
	"strings"

	"github.com/taskgate/taskgate/internal/domain"
)

// RenderReviewQueue renders the human-readable listing of every task
// currently awaiting review, with its deliverables, completion criteria, and
// phase-specific output.
func RenderReviewQueue(tasks []*domain.Task, feedback map[string][]*domain.Feedback) string {
	var b strings.Builder
	b.WriteString("# Review Queue\n\n")

	var pending []*domain.Task
	for _, t := range tasks {
		if t.Status == domain.StatusPendingReview {
			pending = append(pending, t)
		}
	}

	if len(pending) == 0 {
		b.WriteString("No tasks are awaiting review.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d task(s) awaiting review.\n\n", len(pending))

	for _, t := range pending {
		fmt.Fprintf(&b, "## %s: %s\n\n", t.ID, t.Title)

		if len(t.Deliverables) > 0 {
			b.WriteString("Deliverables:\n")
			for _, d := range t.Deliverables {
				fmt.Fprintf(&b, "- %s\n", d)
			}
			b.WriteString("\n")
		}
		if len(t.CompletionCriteria) > 0 {
			b.WriteString("Completion criteria:\n")
			for _, c := range t.CompletionCriteria {
				fmt.Fprintf(&b, "- %s\n", c)
			}
			b.WriteString("\n")
		}

		if out := t.TaskOutput; out != nil {
			phase, _ := domain.PhaseOf(t.ID)
			writeOutput(&b, phase, out)
		}

		if unaddressed := unaddressedFeedback(feedback[t.ID]); len(unaddressed) > 0 {
			b.WriteString("Unaddressed feedback:\n")
			for _, fb := range unaddressed {
				fmt.Fprintf(&b, "- [%s] %s\n", fb.ID, firstLine(fb.Original))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeOutput(b *strings.Builder, phase domain.Phase, out *domain.Submission) {
	fmt.Fprintf(b, "Output (what): %s\n", out.What)
	fmt.Fprintf(b, "Output (why): %s\n", out.Why)
	fmt.Fprintf(b, "Output (how): %s\n", out.How)

	switch phase {
	case domain.PhasePlan:
		fmt.Fprintf(b, "Findings: %s\n", out.Findings)
		if len(out.Sources) > 0 {
			fmt.Fprintf(b, "Sources: %s\n", strings.Join(out.Sources, ", "))
		}
	case domain.PhaseDo:
		writeChanges(b, out.Changes)
		fmt.Fprintf(b, "Design decisions: %s\n", out.DesignDecisions)
	case domain.PhaseCheck:
		fmt.Fprintf(b, "Test target: %s\n", out.TestTarget)
		fmt.Fprintf(b, "Test results: %s\n", out.TestResults)
		fmt.Fprintf(b, "Coverage: %s\n", out.Coverage)
	case domain.PhaseAct:
		writeChanges(b, out.Changes)
		if len(out.FeedbackAddressed) > 0 {
			fmt.Fprintf(b, "Feedback addressed: %s\n", strings.Join(out.FeedbackAddressed, ", "))
		}
	}

	if len(out.Blockers) > 0 {
		fmt.Fprintf(b, "Blockers: %s\n", strings.Join(out.Blockers, ", "))
	}
	if len(out.Risks) > 0 {
		fmt.Fprintf(b, "Risks: %s\n", strings.Join(out.Risks, ", "))
	}
	b.WriteString("\n")
}

func writeChanges(b *strings.Builder, changes []domain.Change) {
	if len(changes) == 0 {
		return
	}
	b.WriteString("Changes:\n")
	for _, c := range changes {
		if c.Lines != "" {
			fmt.Fprintf(b, "- %s:%s: %s\n", c.File, c.Lines, c.Description)
		} else {
			fmt.Fprintf(b, "- %s: %s\n", c.File, c.Description)
		}
	}
}

func unaddressedFeedback(items []*domain.Feedback) []*domain.Feedback {
	var result []*domain.Feedback
	for _, fb := range items {
		if !fb.IsAddressed() {
			result = append(result, fb)
		}
	}
	return result
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
