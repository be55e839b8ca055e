package sequence

import (
	"fmt"

	"github.com/jgraph/plantuml-drawio/core"
	"github.com/jgraph/plantuml-drawio/geometry"
	"github.com/jgraph/plantuml-drawio/layout"
	"github.com/jgraph/plantuml-drawio/mxbuilder"
)

// participantLayout records the absolute geometry computed for one
// participant's lifeline in pass 2.
type participantLayout struct {
	participant *Participant
	cellID      string
	x           int
	centerX     int
	width       int
	lifelineTop int // Y of the header bottom, set once headers are emitted
	footerY     int // Y where the footer/lifeline currently ends; grows as elements are walked
}

type activationFrame struct {
	id          string
	participant string
	startY      int
	color       core.Color
	depth       int // nesting level on this participant, for horizontal offset
}

// emitState carries the emitter's running position and per-participant
// bookkeeping through the element walk (pass 5 onward).
type emitState struct {
	b            *mxbuilder.Builder
	cells        []string
	layouts      map[string]*participantLayout
	order        []*participantLayout
	activations  map[string][]*activationFrame
	activationOrder []*activationFrame // global push order, across all participants
	currentY     int
	lastMsgY     map[string]int
	createOverride map[string]int
	autoCounter  int
	autoNumber   bool
}

// Emit converts a parsed SequenceDiagram into a draw.io document.
func Emit(d *SequenceDiagram, plantUMLSource string) (string, error) {
	b := mxbuilder.NewBuilder("puml")
	st := &emitState{
		b:              b,
		layouts:        make(map[string]*participantLayout),
		activations:    make(map[string][]*activationFrame),
		lastMsgY:       make(map[string]int),
		createOverride: make(map[string]int),
		autoNumber:     d.AutoNumber,
	}

	participants := d.OrderedParticipants()

	// Pass 2: lay out participants left to right.
	x := MarginLeft
	for _, p := range participants {
		w := participantWidth(p)
		pl := &participantLayout{participant: p, cellID: b.IDs.Next(), x: x, width: w}
		pl.centerX = x + w/2
		st.layouts[p.Code] = pl
		st.order = append(st.order, pl)
		x += w + ParticipantGap
	}

	y := MarginTop
	// Pass 3: title.
	if d.Title != "" {
		titleID := b.IDs.Next()
		cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
			ID:     titleID,
			Value:  d.Title,
			Style:  mxbuilder.NewStyle("text", "", "html", "1", "align", "center", "fontStyle", "1"),
			Vertex: true,
			Parent: mxbuilder.GroupParentID,
			Geometry: &core.Geometry{X: MarginLeft, Y: y, Width: x, Height: TitleHeight},
		})
		st.cells = append(st.cells, cell)
		y += TitleHeight
	}

	// Pass 4: top headers (skip isCreated participants).
	headerTop := y
	for _, pl := range st.order {
		if pl.participant.IsCreated {
			pl.lifelineTop = -1 // sentinel: not yet emitted
			continue
		}
		st.emitHeader(pl, y)
		pl.lifelineTop = y + headerHeight(pl.participant)
	}
	st.currentY = headerTop + maxHeaderHeight(st.order) + 10

	for _, pl := range st.order {
		st.lastMsgY[pl.participant.Code] = st.currentY
		pl.footerY = st.currentY
	}

	// Pass 5-10: walk elements.
	st.walkElements(d.Elements)

	// Still-open activations at end-of-input are implicitly closed at
	// the final row (spec.md §8 P4, §9) rather than silently dropped.
	st.closeOpenActivations()

	// Pass 11: footers + lifelines.
	footerY := st.currentY + 20
	for _, pl := range st.order {
		top := pl.lifelineTop
		if top < 0 {
			top = st.createOverride[pl.participant.Code]
			if top == 0 {
				top = footerY // never created: degenerate, draw nothing meaningful
			}
			st.emitHeader(pl, top)
			top += headerHeight(pl.participant)
		}
		st.emitLifeline(pl, top, footerY)
		st.emitHeader(pl, footerY)
	}

	groupWidth := x
	groupHeight := footerY + headerHeight(&Participant{}) + MarginTop

	// Pass 12: boxes, emitted first in back layer conceptually but
	// appended last here since draw.io z-order follows document order
	// and boxes must sit behind everything already emitted — insert at
	// front of the cumulative cell slice.
	var boxCells []string
	for _, box := range d.Boxes {
		if cell := st.emitBox(box); cell != "" {
			boxCells = append(boxCells, cell)
		}
	}

	allCells := append(boxCells, st.cells...)
	allCells = append(allCells, b.Cells()...)

	return mxbuilder.BuildDocument(mxbuilder.DocumentOptions{
		DiagramName:    "Sequence Diagram",
		GroupCellID:    b.IDs.Next(),
		GroupWidth:     groupWidth,
		GroupHeight:    groupHeight,
		PlantUMLSource: plantUMLSource,
		Cells:          allCells,
	})
}

func participantWidth(p *Participant) int {
	if p.Type == TypeActor {
		return ActorWidth
	}
	return layout.PixelWidth(p.DisplayName, DefaultBoxWidth, 10)
}

func headerHeight(p *Participant) int {
	if p.Type == TypeActor {
		return ActorHeight
	}
	return DefaultBoxHeight
}

func maxHeaderHeight(order []*participantLayout) int {
	max := DefaultBoxHeight
	for _, pl := range order {
		if h := headerHeight(pl.participant); h > max {
			max = h
		}
	}
	return max
}

func (st *emitState) emitHeader(pl *participantLayout, y int) {
	h := headerHeight(pl.participant)
	style := headerStyle(pl.participant.Type)
	if pl.participant.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(pl.participant.Color)))
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:       st.b.IDs.Next(),
		Value:    pl.participant.DisplayName,
		Style:    style,
		Vertex:   true,
		Parent:   mxbuilder.GroupParentID,
		Geometry: &core.Geometry{X: pl.x, Y: y, Width: pl.width, Height: h},
	})
	st.cells = append(st.cells, cell)
}

func (st *emitState) emitLifeline(pl *participantLayout, top, bottom int) {
	if bottom <= top {
		return
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:          st.b.IDs.Next(),
		Style:       lifelineStyle(),
		Edge:        true,
		Parent:      mxbuilder.GroupParentID,
		SourcePoint: &core.Point{X: pl.centerX, Y: top},
		TargetPoint: &core.Point{X: pl.centerX, Y: bottom},
	})
	st.cells = append(st.cells, cell)
}

func (st *emitState) emitBox(box Box) string {
	if len(box.Participants) == 0 {
		return ""
	}
	minX, maxX := 1<<30, 0
	for _, code := range box.Participants {
		pl, ok := st.layouts[code]
		if !ok {
			continue
		}
		if pl.x < minX {
			minX = pl.x
		}
		if pl.x+pl.width > maxX {
			maxX = pl.x + pl.width
		}
	}
	if maxX == 0 {
		return ""
	}
	style := boxStyle()
	if box.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(box.Color)))
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:     st.b.IDs.Next(),
		Value:  box.Title,
		Style:  style,
		Vertex: true,
		Parent: mxbuilder.GroupParentID,
		Geometry: &core.Geometry{
			X: minX - BoxPadding, Y: MarginTop - BoxPadding,
			Width: maxX - minX + 2*BoxPadding, Height: st.currentY - MarginTop + 2*BoxPadding,
		},
	})
	return cell
}

// walkElements is passes 5-10: the main element-stream dispatch.
func (st *emitState) walkElements(elements []Element) {
	for _, e := range elements {
		switch {
		case e.Message != nil:
			st.emitMessage(e.Message)
		case e.ExoMessage != nil:
			st.emitExoMessage(e.ExoMessage)
		case e.LifeEvent != nil:
			st.emitLifeEvent(*e.LifeEvent)
		case e.Fragment != nil:
			st.emitFragment(e.Fragment)
		case e.Note != nil:
			st.emitNote(e.Note)
		case e.Divider != nil:
			st.emitDivider(e.Divider)
		case e.Delay != nil:
			st.currentY += RowHeight / 2
		case e.HSpace != nil:
			size := e.HSpace.Size
			if size == 0 {
				size = RowHeight / 2
			}
			st.currentY += size
		case e.Reference != nil:
			st.emitReference(e.Reference)
		}
	}
}

// activationX returns the x an arrow meets at the given participant
// (pass 6): the participant's centre line when no activation is live,
// otherwise the horizontal centre of the innermost live activation bar.
// The x is not moved to the bar's edge facing the other endpoint.
func (st *emitState) activationX(code string) int {
	pl := st.layouts[code]
	if pl == nil {
		return 0
	}
	frames := st.activations[code]
	if len(frames) == 0 {
		return pl.centerX
	}
	depth := frames[len(frames)-1].depth
	return pl.centerX + depth*(ActivationBarWidth/2)
}

func (st *emitState) emitMessage(m *Message) {
	var returningFrame *activationFrame
	if m.IsReturn {
		from, to, frame, ok := st.resolveReturn()
		if !ok {
			return
		}
		m.From, m.To = from, to
		m.Arrow = ArrowConfig{Head2: ">", Body: core.LineDotted}
		returningFrame = frame
	}

	st.currentY += RowHeight
	label := m.Label
	if st.autoNumber {
		st.autoCounter++
		label = fmt.Sprintf("%d: %s", st.autoCounter, label)
	}

	if returningFrame != nil {
		st.emitActivationBar(m.From, returningFrame, st.currentY)
	}

	if m.From == m.To {
		st.emitSelfMessage(m, label)
	} else {
		fromX := st.activationX(m.From)
		toX := st.activationX(m.To)
		style := arrowStyleFor(m.Arrow)
		cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
			ID:          st.b.IDs.Next(),
			Value:       label,
			Style:       style,
			Edge:        true,
			Parent:      mxbuilder.GroupParentID,
			SourcePoint: &core.Point{X: fromX, Y: st.currentY},
			TargetPoint: &core.Point{X: toX, Y: st.currentY},
		})
		st.cells = append(st.cells, cell)
	}

	for code := range st.layouts {
		if code == m.From || code == m.To {
			st.lastMsgY[code] = st.currentY
		}
	}
	for _, ev := range m.ActivateAfter {
		st.emitLifeEvent(ev)
	}
}

func (st *emitState) emitSelfMessage(m *Message, label string) {
	x := st.activationX(m.From)
	y := st.currentY
	style := arrowStyleFor(m.Arrow)
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:          st.b.IDs.Next(),
		Value:       label,
		Style:       style,
		Edge:        true,
		Parent:      mxbuilder.GroupParentID,
		SourcePoint: &core.Point{X: x, Y: y},
		TargetPoint: &core.Point{X: x, Y: y + SelfMessageHeight},
		Waypoints: []core.Point{
			{X: x + SelfMessageWidth, Y: y},
			{X: x + SelfMessageWidth, Y: y + SelfMessageHeight},
		},
	})
	st.cells = append(st.cells, cell)
	st.currentY += SelfMessageHeight
}

func (st *emitState) emitExoMessage(m *ExoMessage) {
	st.currentY += RowHeight
	pl := st.layouts[m.Participant]
	if pl == nil {
		return
	}
	var edgeX int
	switch m.ExoType {
	case ExoFromLeft, ExoToLeft:
		edgeX = pl.x - 60
	default:
		edgeX = pl.x + pl.width + 60
	}
	style := arrowStyleFor(m.Arrow)
	target := pl.centerX
	var source, dest core.Point
	switch m.ExoType {
	case ExoFromLeft, ExoFromRight:
		source, dest = core.Point{X: edgeX, Y: st.currentY}, core.Point{X: target, Y: st.currentY}
	default:
		source, dest = core.Point{X: target, Y: st.currentY}, core.Point{X: edgeX, Y: st.currentY}
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:          st.b.IDs.Next(),
		Value:       m.Label,
		Style:       style,
		Edge:        true,
		Parent:      mxbuilder.GroupParentID,
		SourcePoint: &source,
		TargetPoint: &dest,
	})
	st.cells = append(st.cells, cell)
}

func (st *emitState) emitLifeEvent(ev LifeEvent) {
	switch ev.Type {
	case EventActivate:
		pl := st.layouts[ev.Participant]
		if pl == nil {
			return
		}
		frame := &activationFrame{id: st.b.IDs.Next(), participant: ev.Participant, startY: st.currentY, color: ev.Color, depth: len(st.activations[ev.Participant])}
		st.activations[ev.Participant] = append(st.activations[ev.Participant], frame)
		st.activationOrder = append(st.activationOrder, frame)
	case EventDeactivate:
		frames := st.activations[ev.Participant]
		if len(frames) == 0 {
			return
		}
		frame := frames[len(frames)-1]
		st.activations[ev.Participant] = frames[:len(frames)-1]
		st.removeFromActivationOrder(frame)
		st.emitActivationBar(ev.Participant, frame, st.currentY)
	case EventCreate:
		pl := st.layouts[ev.Participant]
		if pl == nil {
			return
		}
		st.emitHeader(pl, st.currentY)
		pl.lifelineTop = st.currentY + headerHeight(pl.participant)
		st.createOverride[ev.Participant] = st.currentY
	case EventDestroy:
		for _, frame := range st.activations[ev.Participant] {
			st.removeFromActivationOrder(frame)
			st.emitActivationBar(ev.Participant, frame, st.currentY)
		}
		st.activations[ev.Participant] = nil
		st.emitDestroyMarker(ev.Participant)
	}
}

// removeFromActivationOrder deletes frame from the global activation
// push order, wherever it sits (deactivation can close a frame that
// isn't the most recently pushed one, when activations interleave
// across participants).
func (st *emitState) removeFromActivationOrder(frame *activationFrame) {
	for i, f := range st.activationOrder {
		if f == frame {
			st.activationOrder = append(st.activationOrder[:i], st.activationOrder[i+1:]...)
			return
		}
	}
}

// resolveReturn implements spec.md's return-message endpoint rule:
// the source is the participant with the most recent live activation,
// popped by this return; the target is the next-most-recent live
// activation on a different participant, or else the first
// participant in declaration order. It pops the source's activation
// frame but leaves emitting its closing bar to the caller, which
// knows the row's final Y.
func (st *emitState) resolveReturn() (from, to string, frame *activationFrame, ok bool) {
	if len(st.activationOrder) == 0 {
		return "", "", nil, false
	}
	source := st.activationOrder[len(st.activationOrder)-1]
	from = source.participant

	for i := len(st.activationOrder) - 2; i >= 0; i-- {
		if st.activationOrder[i].participant != from {
			to = st.activationOrder[i].participant
			break
		}
	}
	if to == "" && len(st.order) > 0 {
		to = st.order[0].participant.Code
	}

	frames := st.activations[from]
	if len(frames) > 0 {
		st.activations[from] = frames[:len(frames)-1]
	}
	st.removeFromActivationOrder(source)

	return from, to, source, true
}

// closeOpenActivations drains every participant's remaining activation
// stack into a closing bar at the current row, in declaration order
// (outer frames before inner ones on the same participant). Called
// once the element walk is done, so unmatched `++`/activate calls
// still produce a bar instead of vanishing from the output.
func (st *emitState) closeOpenActivations() {
	for _, pl := range st.order {
		code := pl.participant.Code
		for _, frame := range st.activations[code] {
			st.emitActivationBar(code, frame, st.currentY)
		}
		st.activations[code] = nil
	}
	st.activationOrder = nil
}

func (st *emitState) emitActivationBar(code string, frame *activationFrame, endY int) {
	pl := st.layouts[code]
	if pl == nil {
		return
	}
	height := endY - frame.startY
	if height < 10 {
		height = 10
	}
	style := activationStyle()
	if frame.color != "" {
		style.Set("fillColor", string(core.NormalizeColor(frame.color)))
	}
	x := pl.centerX - ActivationBarWidth/2 + frame.depth*(ActivationBarWidth/2)
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:       frame.id,
		Style:    style,
		Vertex:   true,
		Parent:   mxbuilder.GroupParentID,
		Geometry: &core.Geometry{X: x, Y: frame.startY, Width: ActivationBarWidth, Height: height},
	})
	st.cells = append(st.cells, cell)
}

func (st *emitState) emitDestroyMarker(code string) {
	pl := st.layouts[code]
	if pl == nil {
		return
	}
	size := 16
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:     st.b.IDs.Next(),
		Style:  mxbuilder.NewStyle("shape", "mxgraph.basic.x", "whiteSpace", "wrap", "html", "1"),
		Vertex: true,
		Parent: mxbuilder.GroupParentID,
		Geometry: &core.Geometry{
			X: pl.centerX - size/2, Y: st.currentY - size/2, Width: size, Height: size,
		},
	})
	st.cells = append(st.cells, cell)
}

func (st *emitState) emitFragment(f *Fragment) {
	startY := st.currentY
	minX, maxX := 1<<30, 0
	for _, pl := range st.order {
		if pl.x < minX {
			minX = pl.x
		}
		if pl.x+pl.width > maxX {
			maxX = pl.x + pl.width
		}
	}
	if maxX == 0 {
		maxX = minX + DefaultBoxWidth
	}
	minX -= FragmentPadding
	maxX += FragmentPadding

	headerID := st.b.IDs.Next()
	st.currentY += FragmentHeaderHeight

	for i, section := range f.Sections {
		if i > 0 {
			sepY := st.currentY
			cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
				ID:          st.b.IDs.Next(),
				Style:       mxbuilder.NewStyle("endArrow", "none", "dashed", "1", "html", "1"),
				Edge:        true,
				Parent:      mxbuilder.GroupParentID,
				SourcePoint: &core.Point{X: minX, Y: sepY},
				TargetPoint: &core.Point{X: maxX, Y: sepY},
			})
			st.cells = append(st.cells, cell)
			label := fmt.Sprintf("[%s]", section.Condition)
			labelCell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
				ID:     st.b.IDs.Next(),
				Value:  label,
				Style:  mxbuilder.NewStyle("text", "", "html", "1"),
				Vertex: true,
				Parent: mxbuilder.GroupParentID,
				Geometry: &core.Geometry{X: minX + 4, Y: sepY + 2, Width: 150, Height: 16},
			})
			st.cells = append(st.cells, labelCell)
		}
		st.walkElements(section.Elements)
	}

	endY := st.currentY + FragmentPadding
	style := fragmentStyle()
	if f.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(f.Color)))
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:     headerID,
		Value:  fmt.Sprintf("%s [%s]", fragmentKeyword(f.Type), f.Sections[0].Condition),
		Style:  style,
		Vertex: true,
		Parent: mxbuilder.GroupParentID,
		Geometry: &core.Geometry{X: minX, Y: startY, Width: maxX - minX, Height: endY - startY},
	})
	st.cells = append(st.cells, cell)
	st.currentY = endY
}

func fragmentKeyword(t FragmentType) string {
	for kw, v := range fragmentKeywords {
		if v == t {
			return kw
		}
	}
	return "alt"
}

func (st *emitState) emitNote(n *Note) {
	st.currentY += 5
	h := layout.BoxHeight(n.Text, 30, NotePadding)
	w := layout.PixelWidth(n.Text, DefaultBoxWidth, NotePadding)

	var x int
	switch {
	case n.IsAcross:
		minX, maxX := 1<<30, 0
		for _, pl := range st.order {
			if pl.x < minX {
				minX = pl.x
			}
			if pl.x+pl.width > maxX {
				maxX = pl.x + pl.width
			}
		}
		x = minX
		w = maxX - minX
	case len(n.Participants) >= 2:
		a, b := st.layouts[n.Participants[0]], st.layouts[n.Participants[len(n.Participants)-1]]
		if a != nil && b != nil {
			x = geometry.Min(a.centerX, b.centerX)
			w = geometry.Abs(b.centerX-a.centerX) + DefaultBoxWidth
		}
	case len(n.Participants) == 1:
		pl := st.layouts[n.Participants[0]]
		if pl != nil {
			switch n.Position {
			case core.NoteLeft:
				x = pl.x - w - NotePadding
			case core.NoteRight:
				x = pl.x + pl.width + NotePadding
			default:
				x = pl.centerX - w/2
			}
		}
	}

	style := noteStyle(n.Style)
	if n.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(n.Color)))
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:        st.b.IDs.Next(),
		Value:     n.Text,
		Style:     style,
		Vertex:    true,
		Parent:    mxbuilder.GroupParentID,
		HTMLLabel: true,
		Geometry:  &core.Geometry{X: x, Y: st.currentY, Width: w, Height: h},
	})
	st.cells = append(st.cells, cell)
	st.currentY += h + 5
}

func (st *emitState) emitDivider(d *Divider) {
	st.currentY += RowHeight / 2
	minX, maxX := 1<<30, 0
	for _, pl := range st.order {
		if pl.x < minX {
			minX = pl.x
		}
		if pl.x+pl.width > maxX {
			maxX = pl.x + pl.width
		}
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:     st.b.IDs.Next(),
		Value:  d.Label,
		Style:  mxbuilder.NewStyle("rounded", "0", "whiteSpace", "wrap", "html", "1", "fillColor", "#EEEEEE"),
		Vertex: true,
		Parent: mxbuilder.GroupParentID,
		Geometry: &core.Geometry{X: minX, Y: st.currentY, Width: maxX - minX, Height: 20},
	})
	st.cells = append(st.cells, cell)
	st.currentY += 20
}

func (st *emitState) emitReference(r *Reference) {
	st.currentY += 10
	minX, maxX := 1<<30, 0
	for _, code := range r.Participants {
		pl := st.layouts[code]
		if pl == nil {
			continue
		}
		if pl.x < minX {
			minX = pl.x
		}
		if pl.x+pl.width > maxX {
			maxX = pl.x + pl.width
		}
	}
	if maxX == 0 {
		return
	}
	style := mxbuilder.NewStyle("rounded", "0", "whiteSpace", "wrap", "html", "1", "fillColor", "#FFFFCC")
	if r.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(r.Color)))
	}
	h := layout.BoxHeight(r.Text, 30, 10)
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID:     st.b.IDs.Next(),
		Value:  r.Text,
		Style:  style,
		Vertex: true,
		Parent: mxbuilder.GroupParentID,
		Geometry: &core.Geometry{X: minX, Y: st.currentY, Width: maxX - minX, Height: h},
	})
	st.cells = append(st.cells, cell)
	st.currentY += h + 10
}
