// Package approval provides the file-backed approval channel. One JSON
// record per outstanding request lives under <dataDir>/approvals; the record
// path doubles as the fallback path where a human can read the issued token
// out of band. Token cryptography is not implemented here: tokens are opaque
// ULIDs compared byte for byte, and the engine only drives the
// request/validate/consume protocol.
package approval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskgate/taskgate/internal/domain"
)

// Channel implements domain.ApprovalChannel using files under
// <dataDir>/approvals.
type Channel struct {
	approvalsDir string
	clock        domain.Clock
	logger       domain.Logger
}

// New creates a new Channel rooted at <dataDir>/approvals.
func New(dataDir string, clock domain.Clock, logger domain.Logger) *Channel {
	return &Channel{
		approvalsDir: filepath.Join(dataDir, "approvals"),
		clock:        clock,
		logger:       logger,
	}
}

// Ensure Channel implements the port.
var _ domain.ApprovalChannel = (*Channel)(nil)

// record is the persisted form of an outstanding approval request.
type record struct {
	RequestID   string    `json:"request_id"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Token       string    `json:"token"`
	TaskIDs     []string  `json:"task_ids"`
	Created     time.Time `json:"created"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (r *record) expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Request opens an approval request, or resends the notification when one is
// already outstanding for the same request id. An expired record is replaced
// with a fresh token.
func (c *Channel) Request(_ context.Context, req domain.ApprovalRequest) (*domain.PendingApproval, error) {
	if err := os.MkdirAll(c.approvalsDir, 0o750); err != nil {
		return nil, fmt.Errorf("create approvals dir: %w", err)
	}

	now := c.clock.Now()
	path := domain.ApprovalRecordPath(c.approvalsDir, req.RequestID)

	existing, err := c.readRecord(req.RequestID)
	if err != nil && !errors.Is(err, domain.ErrApprovalNotFound) {
		return nil, err
	}
	if existing != nil && !existing.expired(now) {
		// Idempotent: reuse the outstanding request, resend the notification.
		c.notify(existing, true)
		return c.pending(existing, true), nil
	}

	rec := &record{
		RequestID:   req.RequestID,
		Label:       req.Label,
		Description: req.Description,
		Token:       ulid.Make().String(),
		TaskIDs:     slices.Clone(req.TaskIDs),
		Created:     now,
		ExpiresAt:   now.Add(req.Timeout),
	}
	content, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal approval record: %w", err)
	}
	if err := writeAtomic(path, content, 0o600); err != nil {
		return nil, err
	}

	c.notify(rec, false)
	return c.pending(rec, false), nil
}

// Validate checks a provided token against the outstanding request. An
// expired request is rejected as invalid, never processed.
func (c *Channel) Validate(_ context.Context, requestID, token string) error {
	rec, err := c.readRecord(requestID)
	if err != nil {
		return err
	}
	if rec.expired(c.clock.Now()) {
		return fmt.Errorf("request %q: %w", requestID, domain.ErrApprovalExpired)
	}
	if token == "" || token != rec.Token {
		return fmt.Errorf("request %q: %w", requestID, domain.ErrApprovalInvalid)
	}
	return nil
}

// Consume validates a token and retires the request. The second presentation
// of the same token fails with ErrApprovalNotFound.
func (c *Channel) Consume(ctx context.Context, requestID, token string) ([]string, error) {
	if err := c.Validate(ctx, requestID, token); err != nil {
		return nil, err
	}
	rec, err := c.readRecord(requestID)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(domain.ApprovalRecordPath(c.approvalsDir, requestID)); err != nil {
		return nil, fmt.Errorf("retire approval record: %w", err)
	}
	if c.logger != nil {
		c.logger.Info("", "approval", fmt.Sprintf("request %s approved and consumed", requestID))
	}
	return rec.TaskIDs, nil
}

// Resend re-notifies the approver of an outstanding request. Returns false
// when no request is outstanding.
func (c *Channel) Resend(_ context.Context, requestID string) (bool, error) {
	rec, err := c.readRecord(requestID)
	if err != nil {
		if errors.Is(err, domain.ErrApprovalNotFound) {
			return false, nil
		}
		return false, err
	}
	if rec.expired(c.clock.Now()) {
		return false, nil
	}
	c.notify(rec, true)
	return true, nil
}

// Cancel withdraws an outstanding request.
func (c *Channel) Cancel(_ context.Context, requestID string) error {
	path := domain.ApprovalRecordPath(c.approvalsDir, requestID)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("request %q: %w", requestID, domain.ErrApprovalNotFound)
		}
		return fmt.Errorf("remove approval record: %w", err)
	}
	if c.logger != nil {
		c.logger.Info("", "approval", fmt.Sprintf("request %s canceled", requestID))
	}
	return nil
}

// List returns all outstanding requests ordered by request id. Expired
// records are listed too so operators can see and clean them up.
func (c *Channel) List(_ context.Context) ([]*domain.PendingApproval, error) {
	entries, err := os.ReadDir(c.approvalsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read approvals dir: %w", err)
	}
	var result []*domain.PendingApproval
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		rec, err := c.readRecord(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		result = append(result, c.pending(rec, false))
	}
	slices.SortFunc(result, func(a, b *domain.PendingApproval) int {
		return strings.Compare(a.RequestID, b.RequestID)
	})
	return result, nil
}

func (c *Channel) readRecord(requestID string) (*record, error) {
	content, err := os.ReadFile(domain.ApprovalRecordPath(c.approvalsDir, requestID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("request %q: %w", requestID, domain.ErrApprovalNotFound)
		}
		return nil, fmt.Errorf("read approval record: %w", err)
	}
	var rec record
	if err := decodeJSONStrict(content, &rec); err != nil {
		return nil, fmt.Errorf("parse approval record: %w", err)
	}
	return &rec, nil
}

func (c *Channel) pending(rec *record, resent bool) *domain.PendingApproval {
	return &domain.PendingApproval{
		RequestID:    rec.RequestID,
		Label:        rec.Label,
		Description:  rec.Description,
		FallbackPath: domain.ApprovalRecordPath(c.approvalsDir, rec.RequestID),
		TaskIDs:      slices.Clone(rec.TaskIDs),
		Created:      rec.Created,
		ExpiresAt:    rec.ExpiresAt,
		Resent:       resent,
	}
}

// notify is the fire-and-forget notification boundary. The file-backed
// channel has nowhere to push to, so the notification is a log line naming
// the fallback path.
func (c *Channel) notify(rec *record, resend bool) {
	if c.logger == nil {
		return
	}
	verb := "requested"
	if resend {
		verb = "re-requested"
	}
	c.logger.Info("", "approval", fmt.Sprintf("%s %s: %s (token at %s, expires %s)",
		rec.Label, verb, rec.Description,
		domain.ApprovalRecordPath(c.approvalsDir, rec.RequestID),
		rec.ExpiresAt.Format(time.RFC3339)))
}

func decodeJSONStrict(content []byte, v any) error {
	dec := json.NewDecoder(strings.NewReader(string(content)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected trailing content")
	}
	return nil
}

func writeAtomic(path string, content []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, perm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
