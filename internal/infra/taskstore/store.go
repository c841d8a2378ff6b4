// Package taskstore provides the file-backed implementation of
// domain.TaskRepository and domain.FeedbackRepository. Each task and each
// feedback item is one markdown record: a YAML frontmatter attribute block
// followed by the free-text body. Feedback records are grouped under a
// per-task sub-directory.
package taskstore

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taskgate/taskgate/internal/domain"
)

const storeMetaSchema = 1

// Store implements the task and feedback repositories using files under
// <dataDir>/tasks.
type Store struct {
	tasksDir string
	lockPath string

	mu      sync.Mutex
	cache   []*domain.Task
	cacheOK bool
}

// New creates a new Store rooted at <dataDir>/tasks.
func New(dataDir string) *Store {
	tasksDir := filepath.Join(dataDir, "tasks")
	return &Store{
		tasksDir: tasksDir,
		lockPath: filepath.Join(tasksDir, ".lock"),
	}
}

// Ensure Store implements the repository ports.
var (
	_ domain.TaskRepository     = (*Store)(nil)
	_ domain.FeedbackRepository = (*Store)(nil)
	_ domain.StoreInitializer   = (*Store)(nil)
)

type storeMeta struct {
	Schema int `json:"schema" yaml:"schema"`
}

func (s *Store) metaPath() string {
	return filepath.Join(s.tasksDir, "meta.yaml")
}

// IsInitialized checks if the store has been initialized.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.metaPath())
	return err == nil
}

// Initialize creates the store directory and meta marker if missing.
func (s *Store) Initialize() error {
	if err := os.MkdirAll(s.tasksDir, 0o750); err != nil {
		return fmt.Errorf("create tasks dir: %w", err)
	}
	if s.IsInitialized() {
		return nil
	}
	content, err := yaml.Marshal(storeMeta{Schema: storeMetaSchema})
	if err != nil {
		return fmt.Errorf("marshal store meta: %w", err)
	}
	return writeAtomic(s.metaPath(), content, 0o644)
}

func (s *Store) ensureInitialized() error {
	if !s.IsInitialized() {
		return domain.ErrNotInitialized
	}
	return nil
}

// Get retrieves a task by id. A malformed record fails explicitly here,
// unlike List which skips it.
func (s *Store) Get(id string) (*domain.Task, error) {
	var task *domain.Task
	err := s.withLock(syscall.LOCK_SH, func() error {
		t, err := s.readTask(id)
		task = t
		return err
	})
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	return task, nil
}

// List retrieves all tasks ordered by id. Individually malformed records are
// skipped so that one hand-edited file cannot take down every listing. The
// result is served from the in-memory cache until the next write.
func (s *Store) List() ([]*domain.Task, error) {
	s.mu.Lock()
	if s.cacheOK {
		tasks := cloneTasks(s.cache)
		s.mu.Unlock()
		return tasks, nil
	}
	s.mu.Unlock()

	var tasks []*domain.Task
	err := s.withLock(syscall.LOCK_SH, func() error {
		ids, err := s.listTaskIDs()
		if err != nil {
			return err
		}
		for _, id := range ids {
			task, err := s.readTask(id)
			if err != nil {
				if errors.Is(err, domain.ErrMalformedRecord) {
					continue
				}
				return err
			}
			if task == nil {
				continue
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		return strings.Compare(a.ID, b.ID)
	})

	s.mu.Lock()
	s.cache = cloneTasks(tasks)
	s.cacheOK = true
	s.mu.Unlock()

	return tasks, nil
}

// GetChildren retrieves direct children of a task.
func (s *Store) GetChildren(parentID string) ([]*domain.Task, error) {
	tasks, err := s.List()
	if err != nil {
		return nil, err
	}
	var children []*domain.Task
	for _, t := range tasks {
		if t.Parent == parentID {
			children = append(children, t)
		}
	}
	return children, nil
}

// Put creates or updates a task and invalidates the list cache.
func (s *Store) Put(task *domain.Task) error {
	if task == nil {
		return errors.New("task is nil")
	}
	if !domain.ValidateID(task.ID) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTaskID, task.ID)
	}
	err := s.withLock(syscall.LOCK_EX, func() error {
		return s.writeTask(task)
	})
	if err != nil {
		return err
	}
	s.InvalidateCache()
	return nil
}

// Delete removes a task record and its feedback directory.
func (s *Store) Delete(id string) error {
	err := s.withLock(syscall.LOCK_EX, func() error {
		path := domain.TaskRecordPath(s.tasksDir, id)
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				return domain.ErrTaskNotFound
			}
			return fmt.Errorf("remove task record: %w", err)
		}
		fbDir := domain.FeedbackDirPath(s.tasksDir, id)
		if err := os.RemoveAll(fbDir); err != nil {
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

// InvalidateCache discards the in-memory list cache. It is rebuilt lazily on
// the next List call and never trusted across process restarts.
func (s *Store) InvalidateCache() {
	s.mu.Lock()
	s.cache = nil
	s.cacheOK = false
	s.mu.Unlock()
}

func (s *Store) listTaskIDs() ([]string, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read tasks dir: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		id := strings.TrimSuffix(name, ".md")
		if !domain.ValidateID(id) {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *Store) readTask(id string) (*domain.Task, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(domain.TaskRecordPath(s.tasksDir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read task record: %w", err)
	}
	task, err := decodeTaskRecord(id, content)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", id, err)
	}
	return task, nil
}

func (s *Store) writeTask(task *domain.Task) error {
	if err := s.ensureInitialized(); err != nil {
		return err
	}
	content, err := encodeTaskRecord(task)
	if err != nil {
		return err
	}
	return writeAtomic(domain.TaskRecordPath(s.tasksDir, task.ID), content, 0o644)
}

// taskAttrs is the frontmatter attribute block of a task record. Optional
// keys decode to explicit defaults so partially-written or hand-edited
// records degrade gracefully rather than crashing the reader.
type taskAttrs struct {
	Title               string             `yaml:"title"`
	Status              string             `yaml:"status"`
	Parent              string             `yaml:"parent,omitempty"`
	Dependencies        []string           `yaml:"dependencies,omitempty"`
	DependencyReason    string             `yaml:"dependency_reason,omitempty"`
	Prerequisites       string             `yaml:"prerequisites,omitempty"`
	CompletionCriteria  []string           `yaml:"completion_criteria,omitempty"`
	Deliverables        []string           `yaml:"deliverables,omitempty"`
	IsParallelizable    bool               `yaml:"is_parallelizable,omitempty"`
	ParallelizableUnits []string           `yaml:"parallelizable_units,omitempty"`
	References          []string           `yaml:"references,omitempty"`
	Feedback            []string           `yaml:"feedback,omitempty"`
	Instructions        string             `yaml:"instructions,omitempty"`
	BlockReason         string             `yaml:"block_reason,omitempty"`
	SkipReason          string             `yaml:"skip_reason,omitempty"`
	PreBlockStatus      string             `yaml:"pre_block_status,omitempty"`
	Output              string             `yaml:"output,omitempty"`
	TaskOutput          *domain.Submission `yaml:"task_output,omitempty"`
	Created             time.Time          `yaml:"created"`
	Updated             time.Time          `yaml:"updated"`
}

func encodeTaskRecord(task *domain.Task) ([]byte, error) {
	attrs := taskAttrs{
		Title:               task.Title,
		Status:              string(task.Status),
		Parent:              task.Parent,
		Dependencies:        task.Dependencies,
		DependencyReason:    task.DependencyReason,
		Prerequisites:       task.Prerequisites,
		CompletionCriteria:  task.CompletionCriteria,
		Deliverables:        task.Deliverables,
		IsParallelizable:    task.IsParallelizable,
		ParallelizableUnits: task.ParallelizableUnits,
		References:          task.References,
		Feedback:            task.Feedback,
		Instructions:        task.Instructions,
		BlockReason:         task.BlockReason,
		SkipReason:          task.SkipReason,
		PreBlockStatus:      string(task.PreBlockStatus),
		Output:              task.Output,
		TaskOutput:          task.TaskOutput,
		Created:             task.Created,
		Updated:             task.Updated,
	}
	block, err := yaml.Marshal(&attrs)
	if err != nil {
		return nil, fmt.Errorf("marshal task attrs: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(block)
	buf.WriteString("---\n")
	if task.Content != "" {
		buf.WriteString("\n")
		buf.WriteString(task.Content)
		if !strings.HasSuffix(task.Content, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

func decodeTaskRecord(id string, content []byte) (*domain.Task, error) {
	block, body, err := splitRecord(content)
	if err != nil {
		return nil, err
	}
	var attrs taskAttrs
	if err := yaml.Unmarshal(block, &attrs); err != nil {
		return nil, fmt.Errorf("%w: parse attrs: %v", domain.ErrMalformedRecord, err)
	}

	// Structural validation: a record missing its required attributes is
	// malformed, not defaultable.
	if attrs.Title == "" {
		return nil, fmt.Errorf("%w: missing title", domain.ErrMalformedRecord)
	}
	status := domain.Status(attrs.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrMalformedRecord, attrs.Status)
	}

	task := &domain.Task{
		ID:                  id,
		Title:               attrs.Title,
		Content:             body,
		Status:              status,
		Parent:              attrs.Parent,
		Dependencies:        attrs.Dependencies,
		DependencyReason:    attrs.DependencyReason,
		Prerequisites:       attrs.Prerequisites,
		CompletionCriteria:  attrs.CompletionCriteria,
		Deliverables:        attrs.Deliverables,
		IsParallelizable:    attrs.IsParallelizable,
		ParallelizableUnits: attrs.ParallelizableUnits,
		References:          attrs.References,
		Feedback:            attrs.Feedback,
		Instructions:        attrs.Instructions,
		BlockReason:         attrs.BlockReason,
		SkipReason:          attrs.SkipReason,
		PreBlockStatus:      domain.Status(attrs.PreBlockStatus),
		Output:              attrs.Output,
		TaskOutput:          attrs.TaskOutput,
		Created:             attrs.Created,
		Updated:             attrs.Updated,
	}
	return task, nil
}

// splitRecord separates the frontmatter attribute block from the body.
func splitRecord(content []byte) (block []byte, body string, err error) {
	text := string(content)
	if !strings.HasPrefix(text, "---\n") {
		return nil, "", fmt.Errorf("%w: missing opening ---", domain.ErrMalformedRecord)
	}
	rest := text[4:]
	idx := strings.Index(rest, "\n---\n")
	switch {
	case idx >= 0:
		block = []byte(rest[:idx+1])
		body = strings.TrimPrefix(rest[idx+5:], "\n")
	case strings.HasSuffix(rest, "\n---"):
		block = []byte(rest[:len(rest)-3])
	default:
		return nil, "", fmt.Errorf("%w: missing closing ---", domain.ErrMalformedRecord)
	}
	return block, strings.TrimRight(body, "\n"), nil
}

func (s *Store) withLock(lockType int, fn func() error) error {
	if err := os.MkdirAll(s.tasksDir, 0o750); err != nil {
		return fmt.Errorf("create tasks dir: %w", err)
	}
	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() {
		_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
		_ = lock.Close()
	}()
	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	return fn()
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

func cloneTasks(tasks []*domain.Task) []*domain.Task {
	cloned := make([]*domain.Task, len(tasks))
	for i, t := range tasks {
		cloned[i] = t.Clone()
	}
	return cloned
}
