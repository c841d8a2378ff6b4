package report

import (
	"fmt"
	"strings"

	"github.com/taskgate/taskgate/internal/domain"
)

// RenderFlowDiagram renders the dependency graph as a Mermaid flowchart:
// one node per task, solid arrows for dependency edges, dotted arrows for
// parent/child edges, and a status-keyed class per node.
func RenderFlowDiagram(tasks []*domain.Task) string {
	var b strings.Builder
	b.WriteString("# Task Flow\n\n")
	b.WriteString("```mermaid\nflowchart TD\n")

	// Task ids only contain characters valid in Mermaid node identifiers,
	// so they are used as-is.
	for _, t := range tasks {
		fmt.Fprintf(&b, "    %s[\"%s\"]:::%s\n", t.ID, nodeLabel(t), string(t.Status))
	}
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			fmt.Fprintf(&b, "    %s --> %s\n", dep, t.ID)
		}
	}
	for _, t := range tasks {
		if t.Parent != "" {
			fmt.Fprintf(&b, "    %s -.-> %s\n", t.Parent, t.ID)
		}
	}

	b.WriteString(statusClassDefs)
	b.WriteString("```\n")
	return b.String()
}

// statusClassDefs keys a visual style to each status.
const statusClassDefs = `    classDef pending fill:#f4f4f4,stroke:#999
    classDef in_progress fill:#cce5ff,stroke:#004085
    classDef self_review fill:#e2d9f3,stroke:#4b2e83
    classDef pending_review fill:#fff3cd,stroke:#856404
    classDef completed fill:#d4edda,stroke:#155724
    classDef blocked fill:#f8d7da,stroke:#721c24
    classDef skipped fill:#e2e3e5,stroke:#383d41
`

func nodeLabel(t *domain.Task) string {
	title := strings.ReplaceAll(t.Title, `"`, "'")
	return fmt.Sprintf("%s<br/>%s", t.ID, title)
}
