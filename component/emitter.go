package component

import (
	"github.com/jgraph/plantuml-drawio/core"
	"github.com/jgraph/plantuml-drawio/geometry"
	"github.com/jgraph/plantuml-drawio/layout"
	"github.com/jgraph/plantuml-drawio/mxbuilder"
)

type elementLayout struct {
	element *ComponentElement
	cellID  string
	bounds  core.Geometry
}

type emitState struct {
	b        *mxbuilder.Builder
	cells    []string
	elements map[string]*elementLayout
}

// Emit converts a parsed ComponentDiagram into a draw.io document.
// It serves component, deployment, and use-case diagrams alike since
// they share one model (spec.md §3).
func Emit(d *ComponentDiagram, plantUMLSource string) (string, error) {
	b := mxbuilder.NewBuilder("puml")
	st := &emitState{b: b, elements: make(map[string]*elementLayout)}

	contained := make(map[string]bool)
	for _, c := range d.Containers {
		collectContainerMembers(c, contained)
	}

	var topLevel []*ComponentElement
	for _, code := range d.ElementOrder {
		e := d.Elements[code]
		if !contained[code] {
			topLevel = append(topLevel, e)
		}
	}

	x, y, col, rowHeight, maxX := 0, 0, 0, 0, 0
	for _, e := range topLevel {
		w, h := st.emitElement(e, mxbuilder.GroupParentID, x, y)
		if x+w > maxX {
			maxX = x + w
		}
		if h > rowHeight {
			rowHeight = h
		}
		col++
		if col >= ColsPerRow {
			col, x = 0, 0
			y += rowHeight + VGap
			rowHeight = 0
		} else {
			x += w + HGap
		}
	}
	if col != 0 {
		y += rowHeight + VGap
	}

	for _, c := range d.Containers {
		h := st.emitContainer(c, mxbuilder.GroupParentID, 0, y)
		y += h + VGap
	}

	for _, n := range d.Notes {
		st.emitNote(n)
	}
	for _, rel := range d.Relationships {
		st.emitRelationship(rel)
	}

	return mxbuilder.BuildDocument(mxbuilder.DocumentOptions{
		DiagramName:    "Component Diagram",
		GroupCellID:    b.IDs.Next(),
		GroupWidth:     geometry.Max(maxX, 400),
		GroupHeight:    geometry.Max(y, 200),
		PlantUMLSource: plantUMLSource,
		Cells:          append(st.cells, b.Cells()...),
	})
}

func collectContainerMembers(c *ComponentContainer, out map[string]bool) {
	for _, e := range c.Elements {
		out[e.Code] = true
	}
	for _, sub := range c.Children {
		collectContainerMembers(sub, out)
	}
}

func (st *emitState) emitElement(e *ComponentElement, parent string, x, y int) (int, int) {
	w := layout.PixelWidth(e.DisplayName, ElementWidth, 14)
	h := ElementHeight
	id := st.b.IDs.Next()
	style := elementStyle(e.Type)
	if e.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(e.Color)))
	}
	label := e.DisplayName
	if e.Stereotype != "" {
		label = "<<" + e.Stereotype + ">>\n" + label
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:        id,
		Value:     label,
		Style:     style,
		Vertex:    true,
		Parent:    parent,
		HTMLLabel: true,
		Geometry:  &core.Geometry{X: x, Y: y, Width: w, Height: h, Relative: parent != mxbuilder.GroupParentID},
	})
	st.cells = append(st.cells, cell)
	st.elements[e.Code] = &elementLayout{element: e, cellID: id, bounds: core.Geometry{X: x, Y: y, Width: w, Height: h}}
	return w, h
}

func (st *emitState) emitContainer(c *ComponentContainer, parent string, x, y int) int {
	id := st.b.IDs.Next()

	innerX, innerY := ContainerPadding, ContainerHeader+ContainerPadding
	col, rowX, rowHeight := 0, innerX, 0
	maxInnerX, maxInnerY := innerX, innerY
	for _, e := range c.Elements {
		w, h := st.emitElement(e, id, rowX, innerY)
		if rowX+w > maxInnerX {
			maxInnerX = rowX + w
		}
		if innerY+h > maxInnerY {
			maxInnerY = innerY + h
		}
		if h > rowHeight {
			rowHeight = h
		}
		col++
		if col >= ColsPerRow {
			col, rowX = 0, innerX
			innerY += rowHeight + VGap
			rowHeight = 0
		} else {
			rowX += w + HGap
		}
	}
	if col != 0 {
		innerY += rowHeight + VGap
	}

	for _, sub := range c.Children {
		h := st.emitContainer(sub, id, innerX, innerY)
		innerY += h + VGap
		if innerY > maxInnerY {
			maxInnerY = innerY
		}
	}

	width := geometry.Max(maxInnerX+ContainerPadding, 200)
	height := geometry.Max(maxInnerY+ContainerPadding, 120)

	style := containerStyle(c.Type)
	if c.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(c.Color)))
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:     id,
		Value:  c.Name,
		Style:  style,
		Vertex: true,
		Parent: parent,
		Geometry: &core.Geometry{X: x, Y: y, Width: width, Height: height, Relative: parent != mxbuilder.GroupParentID},
	})
	st.cells = append([]string{cell}, st.cells...)
	return height
}

func (st *emitState) emitNote(n *ComponentNote) {
	id := st.b.IDs.Next()
	w := layout.PixelWidth(n.Text, 140, 10)
	h := layout.BoxHeight(n.Text, 40, 10)
	x, y := 0, 0
	if target, ok := st.elements[n.ElementCode]; ok {
		x = target.bounds.X + target.bounds.Width + 30
		y = target.bounds.Y
	}
	style := mxbuilder.NewStyle("shape", "note", "whiteSpace", "wrap", "html", "1", "fillColor", "#FFF9B2")
	if n.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(n.Color)))
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: id, Value: n.Text, Style: style, Vertex: true, Parent: mxbuilder.GroupParentID,
		Geometry: &core.Geometry{X: x, Y: y, Width: w, Height: h},
	})
	st.cells = append(st.cells, cell)
	if target, ok := st.elements[n.ElementCode]; ok {
		link, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
			ID: st.b.IDs.Next(), Style: noteLinkStyle(), Edge: true, Parent: mxbuilder.GroupParentID,
			Source: id, Target: target.cellID,
		})
		st.cells = append(st.cells, link)
	}
}

func (st *emitState) emitRelationship(rel *ComponentRelationship) {
	from, fromOK := st.elements[rel.From]
	to, toOK := st.elements[rel.To]
	if !fromOK || !toOK {
		return
	}
	style := mxbuilder.NewStyle("html", "1")
	applyDecor(&style, rel.LeftDecor, rel.RightDecor, rel.LineStyle == core.LineDotted, colorOrEmpty(rel.Color))
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: st.b.IDs.Next(), Value: rel.Label, Style: style, Edge: true, Parent: mxbuilder.GroupParentID,
		Source: from.cellID, Target: to.cellID,
	})
	st.cells = append(st.cells, cell)
}

func colorOrEmpty(c core.Color) string {
	if c == "" {
		return ""
	}
	return string(core.NormalizeColor(c))
}
