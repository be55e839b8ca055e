package state

import (
	"container/heap"

	"github.com/jgraph/plantuml-drawio/core"
	"github.com/jgraph/plantuml-drawio/geometry"
	"github.com/jgraph/plantuml-drawio/layout"
	"github.com/jgraph/plantuml-drawio/mxbuilder"
)

type elementLayout struct {
	element *StateElement
	cellID  string
	bounds  core.Geometry
}

type emitState struct {
	b        *mxbuilder.Builder
	cells    []string
	elements map[string]*elementLayout
	dir      DiagramDirection
	diagram  *StateDiagram
}

// readyHeap is a min-heap over declaration-order indices, used to pop the
// lowest-order zero-indegree node first so layering is deterministic
// regardless of map iteration order.
type readyHeap []int

func (h readyHeap) Len() int            { return len(h) }
func (h readyHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h readyHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *readyHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *readyHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// layerTopLevel assigns each top-level element a layer number via Kahn's
// algorithm over the transition graph projected onto top-level ancestors.
// Edges are deduplicated by unordered pair so a two-state back-and-forth
// never blocks progress; any node left over once the queue drains (a
// longer cycle) is appended to one trailing layer.
func layerTopLevel(d *StateDiagram, topLevel []*StateElement) [][]*StateElement {
	order := make(map[string]int, len(topLevel))
	for i, e := range topLevel {
		order[e.Code] = i
	}
	topAncestor := func(code string) string {
		for code != "" {
			e, ok := d.Elements[code]
			if !ok {
				return ""
			}
			if e.ParentCode == "" {
				return e.Code
			}
			code = e.ParentCode
		}
		return ""
	}

	type pairKey struct{ a, b string }
	seen := make(map[pairKey]bool)
	adj := make(map[string][]string)
	indeg := make(map[string]int, len(topLevel))
	for _, e := range topLevel {
		indeg[e.Code] = 0
	}
	for _, tr := range d.Transitions {
		from := topAncestor(tr.From)
		to := topAncestor(tr.To)
		if from == "" || to == "" || from == to {
			continue
		}
		a, b := from, to
		if a > b {
			a, b = b, a
		}
		key := pairKey{a, b}
		if seen[key] {
			continue
		}
		seen[key] = true
		adj[from] = append(adj[from], to)
		indeg[to]++
	}

	layerOf := make(map[string]int, len(topLevel))
	remaining := indeg
	h := &readyHeap{}
	for _, e := range topLevel {
		if remaining[e.Code] == 0 {
			heap.Push(h, order[e.Code])
			layerOf[e.Code] = 0
		}
	}
	visited := make(map[string]bool)
	for h.Len() > 0 {
		idx := heap.Pop(h).(int)
		code := topLevel[idx].Code
		if visited[code] {
			continue
		}
		visited[code] = true
		for _, next := range adj[code] {
			if layerOf[code]+1 > layerOf[next] {
				layerOf[next] = layerOf[code] + 1
			}
			remaining[next]--
			if remaining[next] == 0 && !visited[next] {
				heap.Push(h, order[next])
			}
		}
	}
	maxLayer := 0
	for _, e := range topLevel {
		if visited[e.Code] && layerOf[e.Code] > maxLayer {
			maxLayer = layerOf[e.Code]
		}
	}
	trailing := maxLayer + 1
	if len(visited) == 0 {
		trailing = 0
	}
	for _, e := range topLevel {
		if !visited[e.Code] {
			// part of a cycle the queue never freed; park it after
			// every resolved layer so it still renders deterministically.
			layerOf[e.Code] = trailing
			maxLayer = trailing
		}
	}

	layers := make([][]*StateElement, maxLayer+1)
	for _, e := range topLevel {
		l := layerOf[e.Code]
		layers[l] = append(layers[l], e)
	}
	return layers
}

// Emit converts a parsed StateDiagram into a draw.io document using a
// three-pass measure/place/emit layout: elements are sized bottom-up,
// top-level states are placed into layers via layerTopLevel, and every
// cell is then written in container-before-children order.
func Emit(d *StateDiagram, plantUMLSource string) (string, error) {
	b := mxbuilder.NewBuilder("puml")
	st := &emitState{b: b, elements: make(map[string]*elementLayout), dir: d.Direction, diagram: d}

	layers := layerTopLevel(d, d.TopLevel())

	mainPos, crossPos, maxMain, maxCross := 0, 0, 0, 0
	for _, layer := range layers {
		layerCross := 0
		layerMain := 0
		for _, e := range layer {
			x, y := mainAxis(st.dir, mainPos, crossPos)
			w, h := st.emitElement(e, mxbuilder.GroupParentID, x, y)
			mw, mh := axisSize(st.dir, w, h)
			if mw > layerMain {
				layerMain = mw
			}
			crossPos += mh + HGap
			if crossPos > layerCross {
				layerCross = crossPos
			}
		}
		crossPos = 0
		mainPos += layerMain + VGap
		if layerCross > maxCross {
			maxCross = layerCross
		}
	}
	maxMain = mainPos

	for _, n := range d.Notes {
		st.emitNote(n)
	}
	for _, tr := range d.Transitions {
		st.emitTransition(tr)
	}

	w, h := axisSize(st.dir, maxMain, maxCross)
	return mxbuilder.BuildDocument(mxbuilder.DocumentOptions{
		DiagramName:    "State Diagram",
		GroupCellID:    b.IDs.Next(),
		GroupWidth:     geometry.Max(w, 400),
		GroupHeight:    geometry.Max(h, 200),
		PlantUMLSource: plantUMLSource,
		Cells:          append(st.cells, b.Cells()...),
	})
}

// mainAxis maps a (main, cross) layering coordinate to (x, y) according
// to the diagram's direction hint: top-to-bottom lays layers out as
// rows, left-to-right as columns.
func mainAxis(dir DiagramDirection, main, cross int) (int, int) {
	if dir == DirLeftToRight {
		return main, cross
	}
	return cross, main
}

// axisSize reinterprets a (width, height) pair as (main-axis size,
// cross-axis size) or back again — the mapping is its own inverse, so
// the same swap-if-top-to-bottom rule serves both directions.
func axisSize(dir DiagramDirection, w, h int) (int, int) {
	if dir == DirLeftToRight {
		return w, h
	}
	return h, w
}

func (st *emitState) emitElement(e *StateElement, parent string, x, y int) (int, int) {
	switch e.Type {
	case TypeInitial:
		return st.emitPseudo(e, parent, x, y, PseudoSize, PseudoSize, "")
	case TypeFinal:
		return st.emitPseudo(e, parent, x, y, PseudoSize, PseudoSize, "")
	case TypeChoice:
		return st.emitPseudo(e, parent, x, y, ChoiceSize, ChoiceSize, "")
	case TypeForkJoin:
		if st.dir == DirLeftToRight {
			return st.emitPseudo(e, parent, x, y, ForkJoinWidth, ForkJoinLen, "")
		}
		return st.emitPseudo(e, parent, x, y, ForkJoinLen, ForkJoinWidth, "")
	case TypeHistory, TypeDeepHistory:
		return st.emitPseudo(e, parent, x, y, HistorySize, HistorySize, historyLabel(e.Type))
	default:
		if len(e.Children) > 0 {
			return st.emitComposite(e, parent, x, y)
		}
		return st.emitSimpleState(e, parent, x, y)
	}
}

func (st *emitState) emitPseudo(e *StateElement, parent string, x, y, w, h int, label string) (int, int) {
	id := st.b.IDs.Next()
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: id, Value: label, Style: stateStyle(e), Vertex: true, Parent: parent,
		Geometry: &core.Geometry{X: x, Y: y, Width: w, Height: h, Relative: parent != mxbuilder.GroupParentID},
	})
	st.cells = append(st.cells, cell)
	st.elements[e.Code] = &elementLayout{element: e, cellID: id, bounds: core.Geometry{X: x, Y: y, Width: w, Height: h}}
	return w, h
}

func (st *emitState) emitSimpleState(e *StateElement, parent string, x, y int) (int, int) {
	id := st.b.IDs.Next()
	label := e.DisplayName
	for _, d := range e.Descriptions {
		label += "\n" + d
	}
	w := layout.PixelWidth(label, StateWidth, 14)
	h := layout.BoxHeight(label, StateHeight, 14)
	style := stateStyle(e)
	if e.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(e.Color)))
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: id, Value: label, Style: style, Vertex: true, Parent: parent, HTMLLabel: true,
		Geometry: &core.Geometry{X: x, Y: y, Width: w, Height: h, Relative: parent != mxbuilder.GroupParentID},
	})
	st.cells = append(st.cells, cell)
	st.elements[e.Code] = &elementLayout{element: e, cellID: id, bounds: core.Geometry{X: x, Y: y, Width: w, Height: h}}
	return w, h
}

// emitComposite lays out a composite state's concurrent regions side by
// side, each region stacking its direct children vertically; a
// dashed divider is drawn between adjacent regions.
func (st *emitState) emitComposite(e *StateElement, parent string, x, y int) (int, int) {
	id := st.b.IDs.Next()

	regions := e.ConcurrentRegions
	if len(regions) == 0 {
		regions = [][]string{e.Children}
	}

	innerTop := HeaderHeight + Padding
	regionX := Padding
	maxRegionBottom := innerTop
	regionBounds := make([]int, 0, len(regions))
	for _, region := range regions {
		ry := innerTop
		regionWidth := 0
		for _, childCode := range region {
			child := st.diagram.Elements[childCode]
			if child == nil {
				continue
			}
			w, h := st.emitElement(child, id, regionX, ry)
			if w > regionWidth {
				regionWidth = w
			}
			ry += h + VGap
		}
		if ry > maxRegionBottom {
			maxRegionBottom = ry
		}
		regionBounds = append(regionBounds, regionWidth)
		regionX += regionWidth + RegionGap
	}

	for i := 1; i < len(regions); i++ {
		dividerX := Padding
		for j := 0; j < i; j++ {
			dividerX += regionBounds[j] + RegionGap
		}
		dividerX -= RegionGap / 2
		div, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
			ID: st.b.IDs.Next(), Style: regionDividerStyle(), Edge: true, Parent: id,
			Geometry: &core.Geometry{Relative: true},
			SourcePoint: &core.Point{X: dividerX, Y: innerTop},
			TargetPoint: &core.Point{X: dividerX, Y: maxRegionBottom},
		})
		st.cells = append(st.cells, div)
	}

	width := geometry.Max(regionX-RegionGap+Padding, StateWidth+2*Padding)
	height := geometry.Max(maxRegionBottom+Padding, StateHeight+HeaderHeight)

	style := stateStyle(e)
	if e.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(e.Color)))
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: id, Value: e.DisplayName, Style: style, Vertex: true, Parent: parent,
		Geometry: &core.Geometry{X: x, Y: y, Width: width, Height: height, Relative: parent != mxbuilder.GroupParentID},
	})
	st.cells = append([]string{cell}, st.cells...)
	st.elements[e.Code] = &elementLayout{element: e, cellID: id, bounds: core.Geometry{X: x, Y: y, Width: width, Height: height}}
	return width, height
}

func (st *emitState) emitNote(n *Note) {
	id := st.b.IDs.Next()
	w := layout.PixelWidth(n.Text, 140, 10)
	h := layout.BoxHeight(n.Text, 40, 10)
	x, y := 0, 0
	if target, ok := st.elements[n.EntityCode]; ok {
		x = target.bounds.X + target.bounds.Width + 30
		y = target.bounds.Y
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: id, Value: n.Text, Style: noteStyle(), Vertex: true, Parent: mxbuilder.GroupParentID,
		Geometry: &core.Geometry{X: x, Y: y, Width: w, Height: h},
	})
	st.cells = append(st.cells, cell)
	if target, ok := st.elements[n.EntityCode]; ok {
		link, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
			ID: st.b.IDs.Next(), Style: noteLinkStyle(), Edge: true, Parent: mxbuilder.GroupParentID,
			Source: id, Target: target.cellID,
		})
		st.cells = append(st.cells, link)
	}
}

func (st *emitState) emitTransition(tr *Transition) {
	from, fromOK := st.elements[tr.From]
	to, toOK := st.elements[tr.To]
	if !fromOK || !toOK {
		return
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: st.b.IDs.Next(), Value: tr.Label, Style: transitionStyle(tr), Edge: true, Parent: mxbuilder.GroupParentID,
		Source: from.cellID, Target: to.cellID,
	})
	st.cells = append(st.cells, cell)
}
