// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/taskgate/taskgate/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the configured time forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MockTaskRepository is a test double for domain.TaskRepository.
type MockTaskRepository struct {
	Tasks       map[string]*domain.Task
	PutErr      error
	GetErr      error
	DeleteErr   error
	Invalidated int
}

// NewMockTaskRepository creates a new MockTaskRepository with initialized maps.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{Tasks: make(map[string]*domain.Task)}
}

// Get retrieves a task by id. Absent tasks return nil, nil.
func (m *MockTaskRepository) Get(id string) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	task, ok := m.Tasks[id]
	if !ok {
		return nil, nil
	}
	return task, nil
}

// List returns all tasks sorted by id.
func (m *MockTaskRepository) List() ([]*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	tasks := make([]*domain.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// GetChildren returns direct children of a parent task.
func (m *MockTaskRepository) GetChildren(parentID string) ([]*domain.Task, error) {
	all, err := m.List()
	if err != nil {
		return nil, err
	}
	var children []*domain.Task
	for _, t := range all {
		if t.Parent == parentID {
			children = append(children, t)
		}
	}
	return children, nil
}

// Put stores a task.
func (m *MockTaskRepository) Put(task *domain.Task) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Tasks[task.ID] = task
	m.Invalidated++
	return nil
}

// Delete removes a task.
func (m *MockTaskRepository) Delete(id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	m.Invalidated++
	return nil
}

// InvalidateCache counts invalidations.
func (m *MockTaskRepository) InvalidateCache() {
	m.Invalidated++
}

// MockFeedbackRepository is a test double for domain.FeedbackRepository.
type MockFeedbackRepository struct {
	// Feedback maps taskID to feedbackID to the item.
	Feedback map[string]map[string]*domain.Feedback
	PutErr   error
}

// NewMockFeedbackRepository creates a new MockFeedbackRepository.
func NewMockFeedbackRepository() *MockFeedbackRepository {
	return &MockFeedbackRepository{Feedback: make(map[string]map[string]*domain.Feedback)}
}

// GetFeedback retrieves a feedback item.
func (m *MockFeedbackRepository) GetFeedback(taskID, feedbackID string) (*domain.Feedback, error) {
	fb, ok := m.Feedback[taskID][feedbackID]
	if !ok {
		return nil, domain.ErrFeedbackNotFound
	}
	return fb, nil
}

// ListFeedback returns all feedback of a task sorted by id.
func (m *MockFeedbackRepository) ListFeedback(taskID string) ([]*domain.Feedback, error) {
	items := make([]*domain.Feedback, 0, len(m.Feedback[taskID]))
	for _, fb := range m.Feedback[taskID] {
		items = append(items, fb)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// PutFeedback stores a feedback item.
func (m *MockFeedbackRepository) PutFeedback(fb *domain.Feedback) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	if m.Feedback[fb.TaskID] == nil {
		m.Feedback[fb.TaskID] = make(map[string]*domain.Feedback)
	}
	m.Feedback[fb.TaskID][fb.ID] = fb
	return nil
}

// DeleteFeedback removes a single feedback item.
func (m *MockFeedbackRepository) DeleteFeedback(taskID, feedbackID string) error {
	if _, ok := m.Feedback[taskID][feedbackID]; !ok {
		return domain.ErrFeedbackNotFound
	}
	delete(m.Feedback[taskID], feedbackID)
	return nil
}

// DeleteAllFeedback removes every feedback item of a task.
func (m *MockFeedbackRepository) DeleteAllFeedback(taskID string) error {
	delete(m.Feedback, taskID)
	return nil
}

// MockApprovalChannel is a test double for domain.ApprovalChannel. It issues
// predictable tokens ("token-<requestID>") and honors expiry via Clock.
type MockApprovalChannel struct {
	Clock      domain.Clock
	Requests   map[string]*domain.PendingApproval
	Consumed   []string
	RequestErr error
}

// NewMockApprovalChannel creates a new MockApprovalChannel.
func NewMockApprovalChannel(clock domain.Clock) *MockApprovalChannel {
	return &MockApprovalChannel{
		Clock:    clock,
		Requests: make(map[string]*domain.PendingApproval),
	}
}

// Token returns the token the mock would accept for a request id.
func (m *MockApprovalChannel) Token(requestID string) string {
	return "token-" + requestID
}

// Request opens or resends an approval request.
func (m *MockApprovalChannel) Request(_ context.Context, req domain.ApprovalRequest) (*domain.PendingApproval, error) {
	if m.RequestErr != nil {
		return nil, m.RequestErr
	}
	if existing, ok := m.Requests[req.RequestID]; ok && m.Clock.Now().Before(existing.ExpiresAt) {
		resent := *existing
		resent.Resent = true
		return &resent, nil
	}
	now := m.Clock.Now()
	pending := &domain.PendingApproval{
		Created:      now,
		ExpiresAt:    now.Add(req.Timeout),
		RequestID:    req.RequestID,
		Label:        req.Label,
		Description:  req.Description,
		FallbackPath: "/approvals/" + req.RequestID + ".json",
		TaskIDs:      req.TaskIDs,
	}
	m.Requests[req.RequestID] = pending
	return pending, nil
}

// Validate checks a token against the outstanding request.
func (m *MockApprovalChannel) Validate(_ context.Context, requestID, token string) error {
	pending, ok := m.Requests[requestID]
	if !ok {
		return domain.ErrApprovalNotFound
	}
	if !m.Clock.Now().Before(pending.ExpiresAt) {
		return domain.ErrApprovalExpired
	}
	if token != m.Token(requestID) {
		return domain.ErrApprovalInvalid
	}
	return nil
}

// Consume validates and retires the request.
func (m *MockApprovalChannel) Consume(ctx context.Context, requestID, token string) ([]string, error) {
	if err := m.Validate(ctx, requestID, token); err != nil {
		return nil, err
	}
	ids := m.Requests[requestID].TaskIDs
	delete(m.Requests, requestID)
	m.Consumed = append(m.Consumed, requestID)
	return ids, nil
}

// Resend re-notifies the approver.
func (m *MockApprovalChannel) Resend(_ context.Context, requestID string) (bool, error) {
	pending, ok := m.Requests[requestID]
	if !ok || !m.Clock.Now().Before(pending.ExpiresAt) {
		return false, nil
	}
	return true, nil
}

// Cancel withdraws an outstanding request.
func (m *MockApprovalChannel) Cancel(_ context.Context, requestID string) error {
	if _, ok := m.Requests[requestID]; !ok {
		return domain.ErrApprovalNotFound
	}
	delete(m.Requests, requestID)
	return nil
}

// List returns all outstanding requests.
func (m *MockApprovalChannel) List(_ context.Context) ([]*domain.PendingApproval, error) {
	items := make([]*domain.PendingApproval, 0, len(m.Requests))
	for _, p := range m.Requests {
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].RequestID < items[j].RequestID })
	return items, nil
}

// MockReportWriter is a test double for domain.ReportWriter.
type MockReportWriter struct {
	Regenerations int
	Err           error
}

// Regenerate counts invocations.
func (m *MockReportWriter) Regenerate(_ []*domain.Task, _ map[string][]*domain.Feedback) error {
	m.Regenerations++
	return m.Err
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	Initialized bool
	InitErr     error
}

// Initialize records the initialization.
func (m *MockStoreInitializer) Initialize() error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// IsInitialized reports whether Initialize succeeded.
func (m *MockStoreInitializer) IsInitialized() bool {
	return m.Initialized
}

// NopLogger is a domain.Logger that discards everything.
type NopLogger struct{}

// Debug discards the entry.
func (NopLogger) Debug(_, _, _ string) {}

// Info discards the entry.
func (NopLogger) Info(_, _, _ string) {}

// Warn discards the entry.
func (NopLogger) Warn(_, _, _ string) {}

// Error discards the entry.
func (NopLogger) Error(_, _, _ string) {}
