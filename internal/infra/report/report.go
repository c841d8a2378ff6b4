// Package report regenerates the derived report artifacts: the review queue
// and the dependency flow diagram. Both are pure projections of a full task
// listing and can be rebuilt at any time; they hold no state of their own.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sourcegraph/conc/pool"

	"github.com/taskgate/taskgate/internal/domain"
)

// Writer implements domain.ReportWriter, writing the artifacts under dataDir.
type Writer struct {
	dataDir string
}

// New creates a new Writer rooted at dataDir.
func New(dataDir string) *Writer {
	return &Writer{dataDir: dataDir}
}

// Ensure Writer implements the port.
var _ domain.ReportWriter = (*Writer)(nil)

// ReviewReportPath returns the path of the review queue artifact.
func (w *Writer) ReviewReportPath() string {
	return filepath.Join(w.dataDir, "REVIEW.md")
}

// FlowReportPath returns the path of the flow diagram artifact.
func (w *Writer) FlowReportPath() string {
	return filepath.Join(w.dataDir, "FLOW.md")
}

// Regenerate rewrites both artifacts from the given listing. The two files
// are independent projections, so they are written in parallel.
func (w *Writer) Regenerate(tasks []*domain.Task, feedback map[string][]*domain.Feedback) error {
	if err := os.MkdirAll(w.dataDir, 0o750); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	p := pool.New().WithErrors()
	p.Go(func() error {
		return writeAtomic(w.ReviewReportPath(), []byte(RenderReviewQueue(tasks, feedback)), 0o644)
	})
	p.Go(func() error {
		return writeAtomic(w.FlowReportPath(), []byte(RenderFlowDiagram(tasks)), 0o644)
	})
	if err := p.Wait(); err != nil {
		return fmt.Errorf("regenerate reports: %w", err)
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
