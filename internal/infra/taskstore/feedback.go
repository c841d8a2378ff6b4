package taskstore

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taskgate/taskgate/internal/domain"
)

// feedbackAttrs is the frontmatter attribute block of a feedback record.
// The raw reviewer comment lives in the body. Missing optional keys decode
// to explicit defaults: decision → rejected, status → draft.
type feedbackAttrs struct {
	TaskID         string    `yaml:"task_id"`
	Decision       string    `yaml:"decision,omitempty"`
	Status         string    `yaml:"status,omitempty"`
	Interpretation string    `yaml:"interpretation,omitempty"`
	AddressedBy    string    `yaml:"addressed_by,omitempty"`
	Timestamp      time.Time `yaml:"timestamp"`
}

// GetFeedback retrieves a feedback item by task and feedback id.
func (s *Store) GetFeedback(taskID, feedbackID string) (*domain.Feedback, error) {
	var fb *domain.Feedback
	err := s.withLock(syscall.LOCK_SH, func() error {
		f, err := s.readFeedback(taskID, feedbackID)
		fb = f
		return err
	})
	if err != nil {
		return nil, err
	}
	if fb == nil {
		return nil, domain.ErrFeedbackNotFound
	}
	return fb, nil
}

// ListFeedback retrieves all feedback attached to a task, ordered by id.
// Feedback ids are ULIDs, so id order is creation order. Malformed records
// are skipped, matching the task listing behavior.
func (s *Store) ListFeedback(taskID string) ([]*domain.Feedback, error) {
	var items []*domain.Feedback
	err := s.withLock(syscall.LOCK_SH, func() error {
		dir := domain.FeedbackDirPath(s.tasksDir, taskID)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("read feedback dir: %w", err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".md") {
				continue
			}
			fb, err := s.readFeedback(taskID, strings.TrimSuffix(name, ".md"))
			if err != nil {
				if errors.Is(err, domain.ErrMalformedRecord) {
					continue
				}
				return err
			}
			if fb != nil {
				items = append(items, fb)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(items, func(a, b *domain.Feedback) int {
		return strings.Compare(a.ID, b.ID)
	})
	return items, nil
}

// PutFeedback creates or updates a feedback item.
func (s *Store) PutFeedback(fb *domain.Feedback) error {
	if fb == nil {
		return errors.New("feedback is nil")
	}
	if fb.ID == "" || fb.TaskID == "" {
		return fmt.Errorf("%w: feedback requires id and task_id", domain.ErrMalformedRecord)
	}
	err := s.withLock(syscall.LOCK_EX, func() error {
		dir := domain.FeedbackDirPath(s.tasksDir, fb.TaskID)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create feedback dir: %w", err)
		}
		content, err := encodeFeedbackRecord(fb)
		if err != nil {
			return err
		}
		return writeAtomic(domain.FeedbackRecordPath(s.tasksDir, fb.TaskID, fb.ID), content, 0o644)
	})
	if err != nil {
		return err
	}
	s.InvalidateCache()
	return nil
}

// DeleteFeedback removes a single feedback item.
func (s *Store) DeleteFeedback(taskID, feedbackID string) error {
	err := s.withLock(syscall.LOCK_EX, func() error {
		path := domain.FeedbackRecordPath(s.tasksDir, taskID, feedbackID)
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				return domain.ErrFeedbackNotFound
			}
			return fmt.Errorf("remove feedback record: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.InvalidateCache()
	return nil
}

// DeleteAllFeedback removes every feedback item of a task.
func (s *Store) DeleteAllFeedback(taskID string) error {
	err := s.withLock(syscall.LOCK_EX, func() error {
		dir := domain.FeedbackDirPath(s.tasksDir, taskID)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove feedback dir: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.InvalidateCache()
	return nil
}

func (s *Store) readFeedback(taskID, feedbackID string) (*domain.Feedback, error) {
	content, err := os.ReadFile(domain.FeedbackRecordPath(s.tasksDir, taskID, feedbackID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read feedback record: %w", err)
	}
	fb, err := decodeFeedbackRecord(taskID, feedbackID, content)
	if err != nil {
		return nil, fmt.Errorf("feedback %s/%s: %w", taskID, feedbackID, err)
	}
	return fb, nil
}

func encodeFeedbackRecord(fb *domain.Feedback) ([]byte, error) {
	attrs := feedbackAttrs{
		TaskID:         fb.TaskID,
		Decision:       string(fb.Decision),
		Status:         string(fb.Status),
		Interpretation: fb.Interpretation,
		AddressedBy:    fb.AddressedBy,
		Timestamp:      fb.Timestamp,
	}
	block, err := yaml.Marshal(&attrs)
	if err != nil {
		return nil, fmt.Errorf("marshal feedback attrs: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(block)
	buf.WriteString("---\n")
	if fb.Original != "" {
		buf.WriteString("\n")
		buf.WriteString(fb.Original)
		if !strings.HasSuffix(fb.Original, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

func decodeFeedbackRecord(taskID, feedbackID string, content []byte) (*domain.Feedback, error) {
	block, body, err := splitRecord(content)
	if err != nil {
		return nil, err
	}
	var attrs feedbackAttrs
	if err := yaml.Unmarshal(block, &attrs); err != nil {
		return nil, fmt.Errorf("%w: parse attrs: %v", domain.ErrMalformedRecord, err)
	}
	if attrs.TaskID != "" && attrs.TaskID != taskID {
		return nil, fmt.Errorf("%w: task_id %q does not match directory %q", domain.ErrMalformedRecord, attrs.TaskID, taskID)
	}

	decision := domain.FeedbackDecision(attrs.Decision)
	if decision == "" {
		decision = domain.DecisionRejected
	}
	if decision != domain.DecisionAdopted && decision != domain.DecisionRejected {
		return nil, fmt.Errorf("%w: invalid decision %q", domain.ErrMalformedRecord, attrs.Decision)
	}
	status := domain.FeedbackStatus(attrs.Status)
	if status == "" {
		status = domain.FeedbackDraft
	}
	if status != domain.FeedbackDraft && status != domain.FeedbackConfirmed {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrMalformedRecord, attrs.Status)
	}

	return &domain.Feedback{
		ID:             feedbackID,
		TaskID:         taskID,
		Original:       body,
		Interpretation: attrs.Interpretation,
		AddressedBy:    attrs.AddressedBy,
		Decision:       decision,
		Status:         status,
		Timestamp:      attrs.Timestamp,
	}, nil
}
