package usecase

import (
	"time"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/testutil"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// fixture bundles the mocks most use case tests need.
type fixture struct {
	repo      *testutil.MockTaskRepository
	feedback  *testutil.MockFeedbackRepository
	approvals *testutil.MockApprovalChannel
	reports   *testutil.MockReportWriter
	clock     *testutil.MockClock
	regen     *shared.Regenerator
	gate      *shared.Gate
}

func newFixture() *fixture {
	repo := testutil.NewMockTaskRepository()
	feedback := testutil.NewMockFeedbackRepository()
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
	approvals := testutil.NewMockApprovalChannel(clock)
	reports := &testutil.MockReportWriter{}
	logger := testutil.NopLogger{}
	return &fixture{
		repo:      repo,
		feedback:  feedback,
		approvals: approvals,
		reports:   reports,
		clock:     clock,
		regen:     shared.NewRegenerator(repo, feedback, reports, logger),
		gate:      shared.NewGate(approvals, logger, time.Hour),
	}
}

func (f *fixture) addTask(id string, status domain.Status, deps ...string) *domain.Task {
	t := &domain.Task{
		ID:           id,
		Title:        "Task " + id,
		Status:       status,
		Dependencies: deps,
	}
	if len(deps) > 0 {
		t.DependencyReason = "ordering"
	}
	if parent := domain.ParentOf(id); parent != "" {
		t.Parent = parent
	}
	f.repo.Tasks[id] = t
	return t
}

// validSubmission returns a complete payload for the given phase.
func validSubmission(p domain.Phase) *domain.Submission {
	s := &domain.Submission{
		What:             "did the thing",
		Why:              "it was needed",
		How:              "carefully",
		Blockers:         []string{},
		Risks:            []string{},
		ReferencesReason: "none needed",
		Guidance:         "self-review.md",
	}
	switch p {
	case domain.PhasePlan:
		s.Findings = "three call sites"
		s.Sources = []string{"internal/cache/cache.go"}
	case domain.PhaseDo:
		s.Changes = []domain.Change{{File: "a.go", Lines: "1-3", Description: "edit"}}
		s.DesignDecisions = "kept the interface"
	case domain.PhaseCheck:
		s.TestTarget = "./internal/cache"
		s.TestResults = "12 passed"
		s.Coverage = "87%"
	case domain.PhaseAct:
		s.Changes = []domain.Change{{File: "a.go", Description: "address note"}}
		s.FeedbackAddressed = []string{}
	}
	return s
}
