package class

import (
	"strconv"
	"strings"

	"github.com/jgraph/plantuml-drawio/core"
	"github.com/jgraph/plantuml-drawio/geometry"
	"github.com/jgraph/plantuml-drawio/layout"
	"github.com/jgraph/plantuml-drawio/mxbuilder"
)

type entityLayout struct {
	entity *ClassEntity
	cellID string
	bounds core.Geometry // relative to its container, or absolute at top level
}

type emitState struct {
	b        *mxbuilder.Builder
	cells    []string
	entities map[string]*entityLayout
}

// Emit converts a parsed ClassDiagram into a draw.io document.
func Emit(d *ClassDiagram, plantUMLSource string) (string, error) {
	b := mxbuilder.NewBuilder("puml")
	st := &emitState{b: b, entities: make(map[string]*entityLayout)}

	containerOf := make(map[string]bool)
	for _, pkg := range d.Packages {
		collectPackageMembers(pkg, containerOf)
	}

	var topLevel []*ClassEntity
	for _, code := range d.EntityOrder {
		e := d.Entities[code]
		if !containerOf[code] {
			topLevel = append(topLevel, e)
		}
	}

	x, y, col := 0, 0, 0
	rowHeight := 0
	maxX := 0
	for _, e := range topLevel {
		w, h := st.emitEntity(e, mxbuilder.GroupParentID, x, y)
		if w > 0 {
			if x+w > maxX {
				maxX = x + w
			}
			if h > rowHeight {
				rowHeight = h
			}
		}
		col++
		if col >= ColsPerRow {
			col = 0
			x = 0
			y += rowHeight + VGap
			rowHeight = 0
		} else {
			x += w + HGap
		}
	}
	if col != 0 {
		y += rowHeight + VGap
	}

	for _, pkg := range d.Packages {
		h := st.emitPackage(pkg, mxbuilder.GroupParentID, 0, y)
		y += h + VGap
	}

	for _, n := range d.Notes {
		st.emitNote(n)
	}

	for _, rel := range d.Relationships {
		st.emitRelationship(rel)
	}

	return mxbuilder.BuildDocument(mxbuilder.DocumentOptions{
		DiagramName:    "Class Diagram",
		GroupCellID:    b.IDs.Next(),
		GroupWidth:     geometry.Max(maxX, 400),
		GroupHeight:    geometry.Max(y, 200),
		PlantUMLSource: plantUMLSource,
		Cells:          append(st.cells, b.Cells()...),
	})
}

func collectPackageMembers(pkg *Package, out map[string]bool) {
	for _, e := range pkg.Entities {
		out[e.Code] = true
	}
	for _, sub := range pkg.SubPackages {
		collectPackageMembers(sub, out)
	}
}

// emitEntity emits one classifier's swimlane header plus member rows,
// returning its footprint (width, height). `map`/`json` pseudo-entities
// get their MapEntries/JSONNode flattened into the same row list as
// ordinary members, per spec.md §4 supplemented-features.
func (st *emitState) emitEntity(e *ClassEntity, parent string, x, y int) (int, int) {
	rows := bodyRows(e)

	width := layout.PixelWidth(e.DisplayName, EntityMinWidth, 14)
	for _, m := range e.Members {
		if m.Member != nil {
			if w := layout.PixelWidth(m.Member.RawText, 0, 14); w > width {
				width = w
			}
		}
	}
	for _, row := range rows {
		if row.member == nil && row.separator == nil {
			if w := layout.PixelWidth(row.text, 0, 14); w > width {
				width = w
			}
		}
	}

	height := EntityHeaderHeight + len(rows)*MemberRowHeight
	if len(rows) == 0 {
		height += MemberRowHeight // keep a visible body even with no members
	}

	id := st.b.IDs.Next()
	style := entityStyle(e.Type)
	if e.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(e.Color)))
	}
	label := headerLabel(e)
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:     id,
		Value:  label,
		Style:  style,
		Vertex: true,
		Parent: parent,
		Geometry: &core.Geometry{X: x, Y: y, Width: width, Height: height, Relative: parent != mxbuilder.GroupParentID},
	})
	st.cells = append(st.cells, cell)
	st.entities[e.Code] = &entityLayout{entity: e, cellID: id, bounds: core.Geometry{X: x, Y: y, Width: width, Height: height}}

	rowY := EntityHeaderHeight
	for _, row := range rows {
		rowID := st.b.IDs.Next()
		var value string
		var style mxbuilder.StyleMap
		switch {
		case row.separator != nil:
			style = separatorRowStyle(row.separator.Style)
			value = row.separator.Label
		case row.member != nil:
			value = memberLabel(row.member)
			style = memberRowStyle(row.member.Kind)
		default:
			value = row.text
			style = memberRowStyle(MemberField)
		}
		rowCell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
			ID:     rowID,
			Value:  value,
			Style:  style,
			Vertex: true,
			Parent: id,
			Geometry: &core.Geometry{X: 0, Y: rowY, Width: width, Height: MemberRowHeight, Relative: true},
		})
		st.cells = append(st.cells, rowCell)
		rowY += MemberRowHeight
	}

	return width, height
}

// bodyRow is one flattened row of an entity's body: an ordinary
// member/separator, or a plain text row synthesized from a MapEntry or
// a JSONNode leaf.
type bodyRow struct {
	member    *Member
	separator *Separator
	text      string
}

// bodyRows flattens an entity's body into a single ordered row list.
// Ordinary classes/interfaces carry Members; `map` pseudo-entities
// carry MapEntries; `json` pseudo-entities carry a single JSONNode
// tree that gets flattened depth-first into one row per leaf/branch.
func bodyRows(e *ClassEntity) []bodyRow {
	var rows []bodyRow
	for _, m := range e.Members {
		rows = append(rows, bodyRow{member: m.Member, separator: m.Separator})
	}
	for _, entry := range e.MapEntries {
		rows = append(rows, bodyRow{text: mapEntryLabel(entry)})
	}
	if e.JSONNode != nil {
		for _, line := range jsonRows(e.JSONNode) {
			rows = append(rows, bodyRow{text: line})
		}
	}
	return rows
}

func mapEntryLabel(entry MapEntry) string {
	if entry.LinkedTarget != "" {
		return entry.Key + " => *" + entry.LinkedTarget
	}
	return entry.Key + " => " + entry.Value
}

// jsonRows flattens a JSONNode tree into display rows, one per leaf or
// branch-open/branch-close, indenting nested objects/arrays so the
// pseudo-UML table reads as a collapsed tree view.
func jsonRows(n *JSONNode) []string {
	var out []string
	switch n.Type {
	case JSONObject:
		for _, k := range n.Keys {
			flattenJSONNode(n.Entries[k], 0, k+":", &out)
		}
	case JSONArray:
		for i, item := range n.Items {
			flattenJSONNode(item, 0, strconv.Itoa(i)+":", &out)
		}
	default:
		out = append(out, n.Value)
	}
	return out
}

func flattenJSONNode(n *JSONNode, depth int, label string, out *[]string) {
	indent := strings.Repeat("  ", depth)
	switch n.Type {
	case JSONObject:
		*out = append(*out, indent+label+" {")
		for _, k := range n.Keys {
			flattenJSONNode(n.Entries[k], depth+1, k+":", out)
		}
		*out = append(*out, indent+"}")
	case JSONArray:
		*out = append(*out, indent+label+" [")
		for i, item := range n.Items {
			flattenJSONNode(item, depth+1, strconv.Itoa(i)+":", out)
		}
		*out = append(*out, indent+"]")
	case JSONPrimitive:
		*out = append(*out, indent+label+" "+n.Value)
	}
}

func headerLabel(e *ClassEntity) string {
	var b strings.Builder
	for _, s := range e.Stereotypes {
		b.WriteString("<<" + s + ">>\n")
	}
	b.WriteString(e.DisplayName)
	if e.GenericParams != "" {
		b.WriteString("<" + e.GenericParams + ">")
	}
	return b.String()
}

func memberLabel(m *Member) string {
	prefix := visibilityGlyph(m.Visibility)
	name := m.Name
	if m.Kind == MemberMethod {
		name += "(" + m.Parameters + ")"
		if m.ReturnType != "" {
			name += ": " + m.ReturnType
		}
	} else if m.ReturnType != "" {
		name += ": " + m.ReturnType
	}
	if m.IsStatic {
		name += " {static}"
	}
	if m.IsAbstract {
		name += " {abstract}"
	}
	return prefix + name
}

func visibilityGlyph(v Visibility) string {
	switch v {
	case VisPublic:
		return "+ "
	case VisPrivate:
		return "- "
	case VisProtected:
		return "# "
	case VisPackage:
		return "~ "
	default:
		return ""
	}
}

// emitPackage recurses into a container, adding CONTAINER_HEADER +
// CONTAINER_PADDING to the inner origin and extending its bounds to
// fit all children, per spec.md §4.3.2.
func (st *emitState) emitPackage(pkg *Package, parent string, x, y int) int {
	id := st.b.IDs.Next()

	innerX, innerY := ContainerPadding, ContainerHeader+ContainerPadding
	col, rowX, rowHeight := 0, innerX, 0
	maxInnerX, maxInnerY := innerX, innerY
	for _, e := range pkg.Entities {
		w, h := st.emitEntity(e, id, rowX, innerY)
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
			col = 0
			rowX = innerX
			innerY += rowHeight + VGap
			rowHeight = 0
		} else {
			rowX += w + HGap
		}
	}
	if col != 0 {
		innerY += rowHeight + VGap
	}

	for _, sub := range pkg.SubPackages {
		h := st.emitPackage(sub, id, innerX, innerY)
		innerY += h + VGap
		if innerY > maxInnerY {
			maxInnerY = innerY
		}
	}

	width := geometry.Max(maxInnerX+ContainerPadding, 200)
	height := geometry.Max(maxInnerY+ContainerPadding, 100)

	style := containerStyle()
	if pkg.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(pkg.Color)))
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:     id,
		Value:  pkg.Name,
		Style:  style,
		Vertex: true,
		Parent: parent,
		Geometry: &core.Geometry{X: x, Y: y, Width: width, Height: height, Relative: parent != mxbuilder.GroupParentID},
	})
	// insert container before its children in z-order (containers first)
	st.cells = append([]string{cell}, st.cells...)
	return height
}

func (st *emitState) emitNote(n *Note) {
	id := st.b.IDs.Next()
	w := layout.PixelWidth(n.Text, 140, 10)
	h := layout.BoxHeight(n.Text, 40, 10)
	x, y := 0, 0
	if target, ok := st.entities[n.EntityCode]; ok {
		x = target.bounds.X + target.bounds.Width + 30
		y = target.bounds.Y
	}
	style := mxbuilder.NewStyle("shape", "note", "whiteSpace", "wrap", "html", "1", "fillColor", "#FFF9B2")
	if n.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(n.Color)))
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:     id,
		Value:  n.Text,
		Style:  style,
		Vertex: true,
		Parent: mxbuilder.GroupParentID,
		Geometry: &core.Geometry{X: x, Y: y, Width: w, Height: h},
	})
	st.cells = append(st.cells, cell)

	if target, ok := st.entities[n.EntityCode]; ok {
		linkCell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
			ID:     st.b.IDs.Next(),
			Style:  noteLinkStyle(),
			Edge:   true,
			Parent: mxbuilder.GroupParentID,
			Source: id,
			Target: target.cellID,
		})
		st.cells = append(st.cells, linkCell)
	}
}

func (st *emitState) emitRelationship(rel *Relationship) {
	from, fromOK := st.entities[rel.From]
	to, toOK := st.entities[rel.To]
	if !fromOK || !toOK {
		return
	}
	style := mxbuilder.NewStyle("html", "1", "edgeStyle", "entityRelationEdgeStyle")
	applyDecor(&style, rel.LeftDecor, rel.RightDecor, rel.LineStyle.String(), colorOrEmpty(rel.Color))
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:     st.b.IDs.Next(),
		Value:  rel.Label,
		Style:  style,
		Edge:   true,
		Parent: mxbuilder.GroupParentID,
		Source: from.cellID,
		Target: to.cellID,
	})
	st.cells = append(st.cells, cell)
}

func colorOrEmpty(c core.Color) string {
	if c == "" {
		return ""
	}
	return string(core.NormalizeColor(c))
}
