package diagram

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// The interchange document is derived from the Mermaid markup, not from
// the structural model directly, so both outputs always describe the same
// diagram even if the builders evolve.

const (
	classBoxStyle  = "swimlane;fontStyle=1;align=center;verticalAlign=top;childLayout=stackLayout;horizontal=1;startSize=26;horizontalStack=0;resizeParent=1;resizeParentMax=0;resizeLast=0;collapsible=1;marginBottom=0;"
	entityBoxStyle = "swimlane;fontStyle=0;childLayout=stackLayout;horizontal=1;startSize=26;fillColor=none;horizontalStack=0;resizeParent=1;resizeParentMax=0;resizeLast=0;collapsible=1;marginBottom=0;"
	lifelineStyle  = "shape=umlLifeline;perimeter=lifelinePerimeter;whiteSpace=wrap;html=1;container=1;collapsible=0;recursiveResize=0;outlineConnect=0;"
	processStyle   = "rounded=1;whiteSpace=wrap;html=1;"
	edgeStyle      = "edgeStyle=orthogonalEdgeStyle;rounded=0;orthogonalLoop=1;jettySize=auto;html=1;"
	inheritStyle   = edgeStyle + "endArrow=block;endFill=0;"
	replyStyle     = edgeStyle + "dashed=1;"
)

type mxGeometry struct {
	XMLName  xml.Name `xml:"mxGeometry"`
	X        int      `xml:"x,attr,omitempty"`
	Y        int      `xml:"y,attr,omitempty"`
	Width    int      `xml:"width,attr,omitempty"`
	Height   int      `xml:"height,attr,omitempty"`
	Relative string   `xml:"relative,attr,omitempty"`
	As       string   `xml:"as,attr"`
}

type mxCell struct {
	XMLName  xml.Name    `xml:"mxCell"`
	ID       string      `xml:"id,attr"`
	Value    string      `xml:"value,attr,omitempty"`
	Style    string      `xml:"style,attr,omitempty"`
	Vertex   string      `xml:"vertex,attr,omitempty"`
	Edge     string      `xml:"edge,attr,omitempty"`
	Parent   string      `xml:"parent,attr,omitempty"`
	Source   string      `xml:"source,attr,omitempty"`
	Target   string      `xml:"target,attr,omitempty"`
	Geometry *mxGeometry `xml:"mxGeometry,omitempty"`
}

type mxGraphModel struct {
	XMLName    xml.Name `xml:"mxGraphModel"`
	Dx         int      `xml:"dx,attr"`
	Dy         int      `xml:"dy,attr"`
	Grid       int      `xml:"grid,attr"`
	GridSize   int      `xml:"gridSize,attr"`
	Guides     int      `xml:"guides,attr"`
	Tooltips   int      `xml:"tooltips,attr"`
	Connect    int      `xml:"connect,attr"`
	Arrows     int      `xml:"arrows,attr"`
	Fold       int      `xml:"fold,attr"`
	Page       int      `xml:"page,attr"`
	PageScale  int      `xml:"pageScale,attr"`
	PageWidth  int      `xml:"pageWidth,attr"`
	PageHeight int      `xml:"pageHeight,attr"`
	Cells      []mxCell `xml:"root>mxCell"`
}

type mxDiagram struct {
	XMLName xml.Name     `xml:"diagram"`
	ID      string       `xml:"id,attr"`
	Name    string       `xml:"name,attr"`
	Model   mxGraphModel `xml:"mxGraphModel"`
}

type mxFile struct {
	XMLName xml.Name  `xml:"mxfile"`
	Version string    `xml:"version,attr"`
	Type    string    `xml:"type,attr"`
	Diagram mxDiagram `xml:"diagram"`
}

// DrawIO converts one rendered Mermaid diagram into draw.io XML.
func DrawIO(d Diagram) ([]byte, error) {
	var cells []mxCell
	switch d.Type {
	case "class":
		cells = classCells(d.Lines)
	case "sequence":
		cells = sequenceCells(d.Lines)
	case "er":
		cells = entityCells(d.Lines)
	case "flow":
		cells = flowCells(d.Lines)
	default:
		return nil, fmt.Errorf("unsupported diagram type %q", d.Type)
	}

	doc := mxFile{
		Version: "21.1.2",
		Type:    "device",
		Diagram: mxDiagram{
			ID:   uuid.NewString(),
			Name: string(d.Type),
			Model: mxGraphModel{
				Grid: 1, GridSize: 10, Guides: 1, Tooltips: 1, Connect: 1,
				Arrows: 1, Fold: 1, Page: 1, PageScale: 1,
				PageWidth: 827, PageHeight: 1169,
				Cells: append([]mxCell{
					{ID: "0"},
					{ID: "1", Parent: "0"},
				}, cells...),
			},
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling drawio document: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// classCells rebuilds class boxes and inheritance edges from classDiagram
// markup. Each box label stacks the name, attributes, a separator, and
// methods the way the interchange format expects.
func classCells(lines []string) []mxCell {
	type classBox struct {
		name    string
		attrs   []string
		methods []string
	}

	var boxes []*classBox
	var current *classBox
	type edge struct{ from, to string }
	var edges []edge

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "class ") && strings.Contains(line, "{"):
			name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "class "), "{"))
			current = &classBox{name: name}
			boxes = append(boxes, current)
		case line == "}":
			current = nil
		case current != nil && (strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "#")):
			if strings.Contains(line, "()") {
				current.methods = append(current.methods, line)
			} else {
				current.attrs = append(current.attrs, line)
			}
		case strings.Contains(line, "<|--"):
			parts := strings.SplitN(line, "<|--", 2)
			// Mermaid reads "Base <|-- Derived"; the arrow points from
			// derived to base.
			edges = append(edges, edge{
				from: strings.TrimSpace(parts[1]),
				to:   strings.TrimSpace(parts[0]),
			})
		}
	}

	ids := make(map[string]string, len(boxes))
	var cells []mxCell
	x, y := 50, 50
	for _, b := range boxes {
		label := b.name
		for _, a := range b.attrs {
			label += "\n" + a
		}
		if len(b.methods) > 0 {
			label += "\n---"
		}
		for _, m := range b.methods {
			label += "\n" + m
		}

		height := 40 + (len(b.attrs)+len(b.methods))*20
		if height < 80 {
			height = 80
		}
		id := uuid.NewString()
		ids[b.name] = id
		cells = append(cells, mxCell{
			ID: id, Value: label, Style: classBoxStyle,
			Vertex: "1", Parent: "1",
			Geometry: &mxGeometry{X: x, Y: y, Width: 200, Height: height, As: "geometry"},
		})
		x += 300
		if x > 900 {
			x = 50
			y += 200
		}
	}

	for _, e := range edges {
		src, sok := ids[e.from]
		dst, dok := ids[e.to]
		if !sok || !dok {
			continue
		}
		cells = append(cells, mxCell{
			ID: uuid.NewString(), Style: inheritStyle,
			Edge: "1", Parent: "1", Source: src, Target: dst,
			Geometry: &mxGeometry{Relative: "1", As: "geometry"},
		})
	}
	return cells
}

// sequenceCells rebuilds lifelines and messages from sequenceDiagram
// markup.
func sequenceCells(lines []string) []mxCell {
	ids := make(map[string]string)
	var cells []mxCell
	x := 100

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if name, ok := strings.CutPrefix(line, "participant "); ok {
			id := uuid.NewString()
			ids[strings.TrimSpace(name)] = id
			cells = append(cells, mxCell{
				ID: id, Value: strings.TrimSpace(name), Style: lifelineStyle,
				Vertex: "1", Parent: "1",
				Geometry: &mxGeometry{X: x, Y: 50, Width: 100, Height: 400, As: "geometry"},
			})
			x += 200
		}
	}

	y := 100
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		arrow := ""
		style := edgeStyle
		switch {
		case strings.Contains(line, "-->>"):
			arrow, style = "-->>", replyStyle
		case strings.Contains(line, "->>"):
			arrow = "->>"
		default:
			continue
		}
		parts := strings.SplitN(line, arrow, 2)
		from := strings.TrimSuffix(strings.TrimSpace(parts[0]), "+")
		rest := strings.TrimPrefix(strings.TrimSpace(parts[1]), "+")
		rest = strings.TrimPrefix(rest, "-")
		to, msg, _ := strings.Cut(rest, ":")

		src, sok := ids[strings.TrimSpace(from)]
		dst, dok := ids[strings.TrimSpace(to)]
		if !sok || !dok {
			continue
		}
		cells = append(cells, mxCell{
			ID: uuid.NewString(), Value: strings.TrimSpace(msg), Style: style,
			Edge: "1", Parent: "1", Source: src, Target: dst,
			Geometry: &mxGeometry{Y: y, Relative: "1", As: "geometry"},
		})
		y += 50
	}
	return cells
}

// entityCells rebuilds entity boxes from erDiagram markup.
func entityCells(lines []string) []mxCell {
	var cells []mxCell
	x, y := 50, 50
	var name string
	var attrs []string
	inEntity := false

	flush := func() {
		if name == "" {
			return
		}
		label := name
		for _, a := range attrs {
			label += "\n" + a
		}
		height := 40 + len(attrs)*25
		cells = append(cells, mxCell{
			ID: uuid.NewString(), Value: label, Style: entityBoxStyle,
			Vertex: "1", Parent: "1",
			Geometry: &mxGeometry{X: x, Y: y, Width: 200, Height: height, As: "geometry"},
		})
		x += 250
		if x > 800 {
			x = 50
			y += height + 50
		}
		name, attrs = "", nil
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case line == "erDiagram":
		case strings.HasSuffix(line, "{"):
			name = strings.TrimSpace(strings.TrimSuffix(line, "{"))
			inEntity = true
		case line == "}":
			flush()
			inEntity = false
		case inEntity && line != "":
			attrs = append(attrs, line)
		}
	}
	return cells
}

// flowCells rebuilds process nodes and their arrows from flowchart markup.
func flowCells(lines []string) []mxCell {
	ids := make(map[string]string)
	var cells []mxCell
	x, y := 100, 50

	nodeID := func(s string) string {
		if i := strings.Index(s, "["); i >= 0 {
			s = s[:i]
		}
		return strings.TrimSpace(s)
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if strings.Contains(line, "-->") {
			continue
		}
		open := strings.Index(line, "[")
		end := strings.Index(line, "]")
		if open < 0 || end < open {
			continue
		}
		id := uuid.NewString()
		ids[nodeID(line)] = id
		cells = append(cells, mxCell{
			ID: id, Value: line[open+1 : end], Style: processStyle,
			Vertex: "1", Parent: "1",
			Geometry: &mxGeometry{X: x, Y: y, Width: 120, Height: 60, As: "geometry"},
		})
		x += 200
		if x > 700 {
			x = 100
			y += 100
		}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.SplitN(line, "-->", 2)
		src, sok := ids[nodeID(parts[0])]
		dst, dok := ids[nodeID(parts[1])]
		if !sok || !dok {
			continue
		}
		cells = append(cells, mxCell{
			ID: uuid.NewString(), Style: edgeStyle,
			Edge: "1", Parent: "1", Source: src, Target: dst,
			Geometry: &mxGeometry{Relative: "1", As: "geometry"},
		})
	}
	return cells
}
