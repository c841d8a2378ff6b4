// Package app provides the dependency injection container for the application.
package app

import (
	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/infra/approval"
	"github.com/taskgate/taskgate/internal/infra/config"
	"github.com/taskgate/taskgate/internal/infra/logging"
	"github.com/taskgate/taskgate/internal/infra/report"
	"github.com/taskgate/taskgate/internal/infra/taskstore"
	"github.com/taskgate/taskgate/internal/usecase"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use
// cases.
type Container struct {
	Tasks            domain.TaskRepository
	Feedback         domain.FeedbackRepository
	StoreInitializer domain.StoreInitializer
	Approvals        domain.ApprovalChannel
	Reports          domain.ReportWriter
	Clock            domain.Clock
	Logger           domain.Logger
	Config           *config.Config

	closer func() error
}

// New creates a new Container rooted at the configured data directory.
// dataDir may be empty, in which case the configuration layers decide.
func New(dataDir string) (*Container, error) {
	cfg, err := config.NewLoader(dataDir).Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.DataDir, cfg.SlogLevel())
	store := taskstore.New(cfg.DataDir)
	clock := domain.RealClock{}

	var reports domain.ReportWriter
	if cfg.ReportsEnabled {
		reports = report.New(cfg.DataDir)
	}

	return &Container{
		Tasks:            store,
		Feedback:         store,
		StoreInitializer: store,
		Approvals:        approval.New(cfg.DataDir, clock, logger),
		Reports:          reports,
		Clock:            clock,
		Logger:           logger,
		Config:           cfg,
		closer:           logger.Close,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg *config.Config, tasks domain.TaskRepository, feedback domain.FeedbackRepository, storeInit domain.StoreInitializer, approvals domain.ApprovalChannel, reports domain.ReportWriter, clock domain.Clock, logger domain.Logger) *Container {
	return &Container{
		Tasks:            tasks,
		Feedback:         feedback,
		StoreInitializer: storeInit,
		Approvals:        approvals,
		Reports:          reports,
		Clock:            clock,
		Logger:           logger,
		Config:           cfg,
	}
}

// Close releases resources held by the container (open log files).
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

func (c *Container) regenerator() *shared.Regenerator {
	return shared.NewRegenerator(c.Tasks, c.Feedback, c.Reports, c.Logger)
}

func (c *Container) gate() *shared.Gate {
	return shared.NewGate(c.Approvals, c.Logger, c.Config.ApprovalTimeout)
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer, c.Logger)
}

// AddTaskUseCase returns a new AddTask use case.
func (c *Container) AddTaskUseCase() *usecase.AddTask {
	return usecase.NewAddTask(c.Tasks, c.regenerator(), c.Clock, c.Logger)
}

// UpdateTaskUseCase returns a new UpdateTask use case.
func (c *Container) UpdateTaskUseCase() *usecase.UpdateTask {
	return usecase.NewUpdateTask(c.Tasks, c.regenerator(), c.Clock, c.Logger)
}

// StartTaskUseCase returns a new StartTask use case.
func (c *Container) StartTaskUseCase() *usecase.StartTask {
	return usecase.NewStartTask(c.Tasks, c.regenerator(), c.Clock, c.Logger)
}

// SubmitPhaseUseCase returns a new SubmitPhase use case.
func (c *Container) SubmitPhaseUseCase() *usecase.SubmitPhase {
	return usecase.NewSubmitPhase(c.Tasks, c.Feedback, c.regenerator(), c.Clock, c.Logger)
}

// ConfirmTaskUseCase returns a new ConfirmTask use case.
func (c *Container) ConfirmTaskUseCase() *usecase.ConfirmTask {
	return usecase.NewConfirmTask(c.Tasks, c.regenerator(), c.Clock, c.Logger)
}

// ApproveTaskUseCase returns a new ApproveTask use case.
func (c *Container) ApproveTaskUseCase() *usecase.ApproveTask {
	return usecase.NewApproveTask(c.Tasks, c.gate(), c.regenerator(), c.Clock, c.Logger)
}

// RequestChangesUseCase returns a new RequestChanges use case.
func (c *Container) RequestChangesUseCase() *usecase.RequestChanges {
	return usecase.NewRequestChanges(c.Tasks, c.Feedback, c.regenerator(), c.Clock, c.Logger)
}

// BlockTaskUseCase returns a new BlockTask use case.
func (c *Container) BlockTaskUseCase() *usecase.BlockTask {
	return usecase.NewBlockTask(c.Tasks, c.regenerator(), c.Clock, c.Logger)
}

// UnblockTaskUseCase returns a new UnblockTask use case.
func (c *Container) UnblockTaskUseCase() *usecase.UnblockTask {
	return usecase.NewUnblockTask(c.Tasks, c.regenerator(), c.Clock, c.Logger)
}

// SkipTaskUseCase returns a new SkipTask use case.
func (c *Container) SkipTaskUseCase() *usecase.SkipTask {
	return usecase.NewSkipTask(c.Tasks, c.gate(), c.regenerator(), c.Clock, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.gate(), c.regenerator(), c.Clock, c.Logger)
}

// CancelDeleteUseCase returns a new CancelDelete use case.
func (c *Container) CancelDeleteUseCase() *usecase.CancelDelete {
	return usecase.NewCancelDelete(c.Approvals, c.Logger)
}

// InterpretFeedbackUseCase returns a new InterpretFeedback use case.
func (c *Container) InterpretFeedbackUseCase() *usecase.InterpretFeedback {
	return usecase.NewInterpretFeedback(c.Tasks, c.Feedback, c.Logger)
}

// ConfirmFeedbackUseCase returns a new ConfirmFeedback use case.
func (c *Container) ConfirmFeedbackUseCase() *usecase.ConfirmFeedback {
	return usecase.NewConfirmFeedback(c.Tasks, c.Feedback, c.Logger)
}

// ListFeedbackUseCase returns a new ListFeedback use case.
func (c *Container) ListFeedbackUseCase() *usecase.ListFeedback {
	return usecase.NewListFeedback(c.Tasks, c.Feedback)
}

// ClearFeedbackUseCase returns a new ClearFeedback use case.
func (c *Container) ClearFeedbackUseCase() *usecase.ClearFeedback {
	return usecase.NewClearFeedback(c.Tasks, c.Feedback, c.regenerator(), c.Clock, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks, c.Feedback)
}

// ListApprovalsUseCase returns a new ListApprovals use case.
func (c *Container) ListApprovalsUseCase() *usecase.ListApprovals {
	return usecase.NewListApprovals(c.Approvals)
}

// CancelApprovalUseCase returns a new CancelApproval use case.
func (c *Container) CancelApprovalUseCase() *usecase.CancelApproval {
	return usecase.NewCancelApproval(c.Approvals, c.Logger)
}
