// Package diagram renders an aggregated analysis into Mermaid markup and a
// draw.io XML interchange document derived from that markup.
package diagram

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/atlasview/codeatlas/internal/model"
	"github.com/atlasview/codeatlas/internal/recommend"
)

// Diagram is one rendered Mermaid document.
type Diagram struct {
	Type  recommend.DiagramType
	Lines []string
}

// Text returns the document as newline-joined markup.
func (d Diagram) Text() string {
	return strings.Join(d.Lines, "\n")
}

var unsafeNameRe = regexp.MustCompile(`[^\w]`)

// fieldName strips the type portion from a "name: type" field string.
func fieldName(field string) string {
	if i := strings.Index(field, ":"); i >= 0 {
		field = field[:i]
	}
	return strings.TrimSpace(field)
}

// sanitizeName rewrites a declaration name into a Mermaid-safe identifier:
// non-word characters become underscores and a leading digit gets a prefix.
func sanitizeName(name string) string {
	s := unsafeNameRe.ReplaceAllString(name, "_")
	if s == "" {
		return "unnamed"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "c_" + s
	}
	return s
}

// Build renders one diagram type from the analysis.
func Build(t recommend.DiagramType, pa *model.ProjectAnalysis) (Diagram, error) {
	switch t {
	case recommend.ClassDiagram:
		return buildClass(pa), nil
	case recommend.SequenceDiagram:
		return buildSequence(pa), nil
	case recommend.ERDiagram:
		return buildER(pa), nil
	case recommend.FlowDiagram:
		return buildFlow(pa), nil
	default:
		return Diagram{}, fmt.Errorf("unsupported diagram type %q", t)
	}
}

// buildClass emits one class block per type declaration, then the
// inheritance edges. Edges are deduplicated through a directed graph so a
// base type reported twice never doubles an arrow.
func buildClass(pa *model.ProjectAnalysis) Diagram {
	lines := []string{"classDiagram"}

	g := graph.New(graph.StringHash, graph.Directed())

	for _, path := range pa.Paths {
		for _, t := range pa.Files[path].Symbols.Types {
			name := sanitizeName(t.Name)
			g.AddVertex(name)

			lines = append(lines, fmt.Sprintf("    class %s {", name))
			for _, field := range t.Fields {
				lines = append(lines, "        +"+sanitizeName(fieldName(field)))
			}
			for _, method := range t.Methods {
				lines = append(lines, "        +"+sanitizeName(method)+"()")
			}
			lines = append(lines, "    }")

			for _, base := range t.BaseTypes {
				if base == "" || base == "object" {
					continue
				}
				baseName := sanitizeName(base)
				g.AddVertex(baseName)
				g.AddEdge(baseName, name)
			}
		}
	}

	edges, err := g.Edges()
	if err == nil {
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].Source != edges[j].Source {
				return edges[i].Source < edges[j].Source
			}
			return edges[i].Target < edges[j].Target
		})
		for _, e := range edges {
			lines = append(lines, fmt.Sprintf("    %s <|-- %s", e.Source, e.Target))
		}
	}
	return Diagram{Type: recommend.ClassDiagram, Lines: lines}
}

// buildSequence declares every type as a participant in sorted order and
// sketches one request/response pair between the first two. Real call-flow
// analysis is out of scope for a structural extractor.
func buildSequence(pa *model.ProjectAnalysis) Diagram {
	lines := []string{"sequenceDiagram"}

	seen := make(map[string]bool)
	var participants []string
	for _, path := range pa.Paths {
		for _, t := range pa.Files[path].Symbols.Types {
			name := sanitizeName(t.Name)
			if !seen[name] {
				seen[name] = true
				participants = append(participants, name)
			}
		}
	}
	sort.Strings(participants)

	for _, p := range participants {
		lines = append(lines, "    participant "+p)
	}
	if len(participants) >= 2 {
		lines = append(lines, fmt.Sprintf("    %s->>+%s: Request", participants[0], participants[1]))
		lines = append(lines, fmt.Sprintf("    %s-->>-%s: Response", participants[1], participants[0]))
	}
	return Diagram{Type: recommend.SequenceDiagram, Lines: lines}
}

// buildER emits an entity block for every type whose name marks it as a
// data model, with the Model/Entity suffix stripped from the entity name.
func buildER(pa *model.ProjectAnalysis) Diagram {
	lines := []string{"erDiagram"}

	for _, path := range pa.Paths {
		for _, t := range pa.Files[path].Symbols.Types {
			lower := strings.ToLower(t.Name)
			if !strings.Contains(lower, "model") && !strings.Contains(lower, "entity") {
				continue
			}
			name := strings.ReplaceAll(t.Name, "Model", "")
			name = strings.ReplaceAll(name, "Entity", "")
			lines = append(lines, fmt.Sprintf("    %s {", sanitizeName(name)))
			for _, field := range t.Fields {
				lines = append(lines, "        string "+sanitizeName(fieldName(field)))
			}
			lines = append(lines, "    }")
		}
	}
	return Diagram{Type: recommend.ERDiagram, Lines: lines}
}

// buildFlow chains every callable into a linear flowchart in discovery
// order, flagging asynchronous ones in the node label.
func buildFlow(pa *model.ProjectAnalysis) Diagram {
	lines := []string{"flowchart TD"}

	id := 0
	for _, path := range pa.Paths {
		for _, c := range pa.Files[path].Symbols.Callables {
			id++
			label := sanitizeName(c.Name)
			if c.Async {
				lines = append(lines, fmt.Sprintf("    node%d[%s - async]", id, label))
			} else {
				lines = append(lines, fmt.Sprintf("    node%d[%s]", id, label))
			}
			if id > 1 {
				lines = append(lines, fmt.Sprintf("    node%d --> node%d", id-1, id))
			}
		}
	}
	return Diagram{Type: recommend.FlowDiagram, Lines: lines}
}
