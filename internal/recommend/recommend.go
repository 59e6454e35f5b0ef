// Package recommend scores an aggregated analysis against heuristic rules
// to suggest which diagram types are worth generating.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atlasview/codeatlas/internal/model"
)

// DiagramType names a supported diagram kind.
type DiagramType string

const (
	ClassDiagram     DiagramType = "class"
	ERDiagram        DiagramType = "er"
	SequenceDiagram  DiagramType = "sequence"
	FlowDiagram      DiagramType = "flow"
	ComponentDiagram DiagramType = "component"
)

// Recommendation is one scored suggestion. Priority ranges 1-10 with 10
// highest; Confidence ranges 0-1.
type Recommendation struct {
	Type       DiagramType `json:"type"`
	Priority   int         `json:"priority"`
	Reason     string      `json:"reason"`
	Confidence float64     `json:"confidence"`
}

var (
	dbKeywords   = []string{"model", "entity", "database", "table", "schema", "migration"}
	dbClassWords = []string{"model", "entity", "table"}
	apiKeywords  = []string{"api", "service", "controller", "handler", "endpoint", "route"}
)

// Recommend evaluates every rule and returns the suggestions with
// confidence above 0.5, sorted by priority descending. Ties keep rule
// evaluation order.
func Recommend(pa *model.ProjectAnalysis) []Recommendation {
	rules := []func(*model.ProjectAnalysis) *Recommendation{
		classRule,
		erRule,
		sequenceRule,
		flowRule,
		componentRule,
	}

	var recs []Recommendation
	for _, rule := range rules {
		if r := rule(pa); r != nil && r.Confidence > 0.5 {
			recs = append(recs, *r)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	return recs
}

func classRule(pa *model.ProjectAnalysis) *Recommendation {
	if pa.TotalTypes <= 0 {
		return nil
	}
	switch {
	case pa.TotalTypes >= 5:
		return &Recommendation{
			Type:       ClassDiagram,
			Priority:   9,
			Reason:     fmt.Sprintf("%d types detected; visualizing the type structure is strongly recommended", pa.TotalTypes),
			Confidence: 0.95,
		}
	case pa.TotalTypes >= 2:
		return &Recommendation{
			Type:       ClassDiagram,
			Priority:   7,
			Reason:     fmt.Sprintf("%d types detected; a diagram helps clarify their relationships", pa.TotalTypes),
			Confidence: 0.8,
		}
	default:
		return &Recommendation{
			Type:       ClassDiagram,
			Priority:   5,
			Reason:     "a type declaration was detected",
			Confidence: 0.6,
		}
	}
}

// erRule scores database affinity: +2 per file whose path contains a
// database keyword, +3 per type whose name does.
func erRule(pa *model.ProjectAnalysis) *Recommendation {
	score := 0
	for _, path := range pa.Paths {
		if containsAny(strings.ToLower(path), dbKeywords) {
			score += 2
		}
		for _, t := range pa.Files[path].Symbols.Types {
			if containsAny(strings.ToLower(t.Name), dbClassWords) {
				score += 3
			}
		}
	}
	switch {
	case score >= 10:
		return &Recommendation{
			Type:       ERDiagram,
			Priority:   8,
			Reason:     "database models detected; an entity-relationship diagram is strongly recommended",
			Confidence: 0.9,
		}
	case score >= 5:
		return &Recommendation{
			Type:       ERDiagram,
			Priority:   6,
			Reason:     "database-related code detected",
			Confidence: 0.7,
		}
	default:
		return nil
	}
}

func sequenceRule(pa *model.ProjectAnalysis) *Recommendation {
	apiScore := 0
	asyncCount := 0
	for _, path := range pa.Paths {
		if containsAny(strings.ToLower(path), apiKeywords) {
			apiScore += 2
		}
		for _, c := range pa.Files[path].Symbols.Callables {
			if c.Async {
				asyncCount++
			}
		}
	}
	if apiScore == 0 && asyncCount == 0 {
		return nil
	}
	if apiScore >= 5 || asyncCount >= 3 {
		return &Recommendation{
			Type:       SequenceDiagram,
			Priority:   7,
			Reason:     "API handlers or asynchronous flows detected; visualizing the call sequence is recommended",
			Confidence: 0.85,
		}
	}
	return &Recommendation{
		Type:       SequenceDiagram,
		Priority:   5,
		Reason:     "visualizing the processing flow may be useful",
		Confidence: 0.6,
	}
}

func flowRule(pa *model.ProjectAnalysis) *Recommendation {
	if pa.TotalCallables < 3 {
		return nil
	}
	if pa.TotalCallables >= 10 {
		return &Recommendation{
			Type:       FlowDiagram,
			Priority:   6,
			Reason:     fmt.Sprintf("%d callables detected; organizing the processing flow is recommended", pa.TotalCallables),
			Confidence: 0.75,
		}
	}
	// Confidence 0.5 fails the cutoff, so this suggestion never surfaces
	// on its own; kept for the full scoring record.
	return &Recommendation{
		Type:       FlowDiagram,
		Priority:   4,
		Reason:     "multiple callables detected",
		Confidence: 0.5,
	}
}

// componentRule counts distinct imported module paths across the project.
func componentRule(pa *model.ProjectAnalysis) *Recommendation {
	modules := make(map[string]bool)
	for _, path := range pa.Paths {
		for _, imp := range pa.Files[path].Symbols.Imports {
			if imp.ModulePath != "" {
				modules[imp.ModulePath] = true
			}
		}
	}
	switch {
	case len(modules) >= 10:
		return &Recommendation{
			Type:       ComponentDiagram,
			Priority:   7,
			Reason:     fmt.Sprintf("%d distinct modules detected; visualizing the dependencies is recommended", len(modules)),
			Confidence: 0.8,
		}
	case len(modules) >= 5:
		return &Recommendation{
			Type:       ComponentDiagram,
			Priority:   5,
			Reason:     "multiple modules detected",
			Confidence: 0.6,
		}
	default:
		return nil
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
