package fwlint

import (
	"fmt"
	"strings"

	"github.com/aretw0/introspection"

	"github.com/aretw0/fwlint/pkg/validator"
)

// diagramNode is the shape introspection.TreeDiagram walks.
type diagramNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []diagramNode
}

// Diagram renders the linter components and its last run as a Mermaid tree.
func (l *Linter) Diagram() string {
	var comp introspection.Introspectable = l.Validator
	state, _ := comp.State().(validator.State)

	rulesName := "Rules: none"
	if names := l.Rules.Names(); len(names) > 0 {
		rulesName = "Rules: " + strings.Join(names, ", ")
	}

	run := diagramNode{
		Name:     "Last run: none",
		Status:   "pending",
		Metadata: map[string]string{"type": "task"},
	}
	if last := state.LastRun; last != nil {
		run.Name = fmt.Sprintf("Last run: %d documents, %d failed", last.Total, last.Failed)
		run.Status = "finished"
		if last.Failed > 0 {
			run.Status = "failed"
		}
	}

	tree := diagramNode{
		Name:     "fwlint " + l.Config.Root,
		Status:   "running",
		Metadata: map[string]string{"type": "supervisor"},
		Children: []diagramNode{
			{
				Name:     fmt.Sprintf("%s %s, %d workers", l.Validator.ComponentType(), state.Pattern, state.Workers),
				Status:   "running",
				Metadata: map[string]string{"type": "process"},
				Children: []diagramNode{
					{Name: "Schema: " + l.Schema.Location, Status: "running", Metadata: map[string]string{"type": "func"}},
					{Name: fmt.Sprintf("Size: at least %d bytes", state.MinSize), Status: "running", Metadata: map[string]string{"type": "func"}},
					{Name: rulesName, Status: "running", Metadata: map[string]string{"type": "func"}},
					{Name: fmt.Sprintf("Cache: %d entries", state.CacheEntries), Status: "running", Metadata: map[string]string{"type": "container"}},
				},
			},
			run,
		},
	}

	cfg := introspection.DefaultDiagramConfig()
	cfg.SecondaryID = "fwlint"
	cfg.SecondaryLabel = "Linter Topology"
	return introspection.TreeDiagram(tree, cfg)
}
