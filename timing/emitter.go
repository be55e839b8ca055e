package timing

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jgraph/plantuml-drawio/core"
	"github.com/jgraph/plantuml-drawio/geometry"
	"github.com/jgraph/plantuml-drawio/layout"
	"github.com/jgraph/plantuml-drawio/mxbuilder"
)

type laneLayout struct {
	player *TimingPlayer
	top    int
	height int
}

type emitState struct {
	b        *mxbuilder.Builder
	cells    []string
	minTime  float64
	maxTime  float64
	lanes    map[string]*laneLayout
	playerID map[string]string
}

// Emit converts a parsed TimingDiagram into a draw.io document per
// spec.md §4.3.4: resolve the union time axis, lay out one lane per
// player, emit highlights at the back, then each player's label and
// waveform by type, notes, constraints, messages, and the time axis on
// top.
func Emit(d *TimingDiagram, plantUMLSource string) (string, error) {
	b := mxbuilder.NewBuilder("puml")
	st := &emitState{b: b, lanes: make(map[string]*laneLayout), playerID: make(map[string]string)}

	st.minTime, st.maxTime = resolveTimeRange(d)

	y := TitleHeight
	for _, p := range d.Players {
		h := laneHeight(p)
		st.lanes[p.Code] = &laneLayout{player: p, top: y, height: h}
		y += h + LaneGap
	}
	lanesBottom := y

	for _, h := range d.Highlights {
		st.emitHighlight(h, lanesBottom)
	}
	for _, p := range d.Players {
		st.emitLaneLabel(p)
		st.emitWaveform(p)
	}
	for _, n := range d.Notes {
		st.emitNote(n)
	}
	for _, c := range d.Constraints {
		st.emitConstraint(c, lanesBottom)
	}
	for _, m := range d.Messages {
		st.emitMessage(m)
	}
	if !d.HideTimeAxis {
		st.emitTimeAxis(lanesBottom)
		lanesBottom += AxisHeight
	}

	width := st.timeToX(st.maxTime) + 40
	return mxbuilder.BuildDocument(mxbuilder.DocumentOptions{
		DiagramName:    "Timing Diagram",
		GroupCellID:    b.IDs.Next(),
		GroupWidth:     geometry.Max(width, MinAxisWidth),
		GroupHeight:    geometry.Max(lanesBottom+20, 200),
		PlantUMLSource: plantUMLSource,
		Cells:          append(st.cells, b.Cells()...),
	})
}

// resolveTimeRange gathers the union set of every time referenced by
// state changes, constraints, messages, and highlights, per spec.md's
// "time resolution" pass.
func resolveTimeRange(d *TimingDiagram) (float64, float64) {
	have := false
	min, max := 0.0, 0.0
	consider := func(t float64) {
		if !have {
			min, max, have = t, t, true
			return
		}
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
	}
	for _, p := range d.Players {
		for _, sc := range p.StateChanges {
			consider(sc.Time)
		}
	}
	for _, c := range d.Constraints {
		consider(c.Time1)
		consider(c.Time2)
	}
	for _, m := range d.Messages {
		consider(m.FromTime)
		consider(m.ToTime)
	}
	for _, h := range d.Highlights {
		consider(h.StartTime)
		consider(h.EndTime)
	}
	if !have {
		return 0, 1
	}
	if max == min {
		max = min + 1
	}
	return min, max
}

func (st *emitState) timeToX(t float64) int {
	return LaneLabelWidth + int((t-st.minTime)*TimeUnitWidth)
}

func (st *emitState) emitLaneLabel(p *TimingPlayer) {
	lane := st.lanes[p.Code]
	id := st.b.IDs.Next()
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: id, Value: p.DisplayName, Style: laneLabelStyle(), Vertex: true, Parent: mxbuilder.GroupParentID,
		Geometry: &core.Geometry{X: 0, Y: lane.top, Width: LaneLabelWidth - 10, Height: lane.height},
	})
	st.cells = append(st.cells, cell)
	st.playerID[p.Code] = id
}

func (st *emitState) emitWaveform(p *TimingPlayer) {
	switch p.Type {
	case PlayerClock:
		st.emitClock(p)
	case PlayerConcise, PlayerRectangle:
		st.emitConcise(p)
	case PlayerAnalog:
		st.emitAnalog(p)
	case PlayerBinary:
		st.emitLeveled(p, 2)
	default:
		st.emitLeveled(p, levelCountFor(p))
	}
}

func levelCountFor(p *TimingPlayer) int {
	n := len(p.States)
	if n < 2 {
		n = 2
	}
	return n
}

func stateLevel(p *TimingPlayer, levels int, state string) int {
	for i, s := range p.States {
		if s == state {
			return i
		}
	}
	switch state {
	case "1", "high", "true", "on":
		return 0
	case "0", "low", "false", "off":
		return levels - 1
	}
	return 0
}

// emitLeveled renders robust and binary waveforms: each state occupies
// one of `levels` evenly spaced y positions; consecutive changes draw
// a horizontal segment at the old level then a vertical connector up
// or down to the new level.
func (st *emitState) emitLeveled(p *TimingPlayer, levels int) {
	lane := st.lanes[p.Code]
	changes := p.StateChanges
	if len(changes) == 0 {
		return
	}
	levelY := func(level int) int {
		step := lane.height / levels
		return lane.top + level*step + step/2
	}
	for i, sc := range changes {
		level := stateLevel(p, levels, sc.State)
		x1 := st.timeToX(sc.Time)
		var x2 int
		if i+1 < len(changes) {
			x2 = st.timeToX(changes[i+1].Time)
		} else {
			x2 = st.timeToX(st.maxTime)
		}
		y := levelY(level)
		st.addWaveSegment(x1, y, x2, y, sc.Color)
		if i+1 < len(changes) {
			nextLevel := stateLevel(p, levels, changes[i+1].State)
			if nextLevel != level {
				st.addWaveSegment(x2, y, x2, levelY(nextLevel), sc.Color)
			}
		}
	}
}

// emitConcise renders concise/rectangle waveforms: one filled labelled
// bar per segment between consecutive change times.
func (st *emitState) emitConcise(p *TimingPlayer) {
	lane := st.lanes[p.Code]
	changes := p.StateChanges
	for i, sc := range changes {
		x1 := st.timeToX(sc.Time)
		var x2 int
		if i+1 < len(changes) {
			x2 = st.timeToX(changes[i+1].Time)
		} else {
			x2 = st.timeToX(st.maxTime)
		}
		if x2 <= x1 {
			x2 = x1 + 1
		}
		style := segmentBarStyle()
		if sc.Color != "" {
			style.Set("fillColor", string(core.NormalizeColor(sc.Color)))
		}
		label := sc.State
		if alias, ok := p.StateAliases[sc.State]; ok {
			label = alias
		}
		cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
			ID: st.b.IDs.Next(), Value: label, Style: style, Vertex: true, Parent: mxbuilder.GroupParentID,
			Geometry: &core.Geometry{X: x1, Y: lane.top + 4, Width: x2 - x1, Height: lane.height - 8},
		})
		st.cells = append(st.cells, cell)
	}
}

// emitClock synthesizes rising and falling edges at offset+k*period and
// offset+k*period+pulse across the visible time range and renders them
// as a two-level square wave.
func (st *emitState) emitClock(p *TimingPlayer) {
	lane := st.lanes[p.Code]
	period := p.ClockPeriod
	if period <= 0 {
		period = 1
	}
	pulse := p.ClockPulse
	if pulse <= 0 || pulse >= period {
		pulse = period / 2
	}
	highY := lane.top + lane.height/4
	lowY := lane.top + 3*lane.height/4

	k := 0
	for {
		rise := p.ClockOffset + float64(k)*period
		if rise > st.maxTime {
			break
		}
		fall := rise + pulse
		riseX := st.timeToX(rise)
		fallX := st.timeToX(fall)
		nextRiseX := st.timeToX(rise + period)
		if rise >= st.minTime {
			st.addWaveSegment(riseX, lowY, riseX, highY, "")
		}
		st.addWaveSegment(riseX, highY, fallX, highY, "")
		st.addWaveSegment(fallX, highY, fallX, lowY, "")
		st.addWaveSegment(fallX, lowY, nextRiseX, lowY, "")
		k++
	}
}

// emitAnalog draws a polyline connecting consecutive (time, value)
// samples, mapping value linearly into the lane height using
// analogStart/analogEnd.
func (st *emitState) emitAnalog(p *TimingPlayer) {
	lane := st.lanes[p.Code]
	changes := p.StateChanges
	if len(changes) == 0 {
		return
	}
	lo, hi := p.AnalogStart, p.AnalogEnd
	if hi == lo {
		hi = lo + 1
	}
	valueY := func(v float64) int {
		frac := (v - lo) / (hi - lo)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		return lane.top + lane.height - int(frac*float64(lane.height))
	}
	points := make([]core.Point, 0, len(changes)+1)
	for _, sc := range changes {
		v, err := strconv.ParseFloat(sc.State, 64)
		if err != nil {
			continue
		}
		points = append(points, core.Point{X: st.timeToX(sc.Time), Y: valueY(v)})
	}
	if len(points) < 2 {
		return
	}
	first := points[0]
	rest := points[1:]
	last := points[len(points)-1]
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: st.b.IDs.Next(), Style: waveformLineStyle(), Edge: true, Parent: mxbuilder.GroupParentID,
		Geometry:    &core.Geometry{Relative: true},
		SourcePoint: &first,
		TargetPoint: &core.Point{X: last.X, Y: last.Y},
		Waypoints:   rest[:len(rest)-1],
	})
	st.cells = append(st.cells, cell)
}

func (st *emitState) addWaveSegment(x1, y1, x2, y2 int, color core.Color) {
	style := waveformLineStyle()
	if color != "" {
		style.Set("strokeColor", string(core.NormalizeColor(color)))
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: st.b.IDs.Next(), Style: style, Edge: true, Parent: mxbuilder.GroupParentID,
		Geometry:    &core.Geometry{Relative: true},
		SourcePoint: &core.Point{X: x1, Y: y1},
		TargetPoint: &core.Point{X: x2, Y: y2},
	})
	st.cells = append(st.cells, cell)
}

func (st *emitState) emitHighlight(h *TimingHighlight, lanesBottom int) {
	x1 := st.timeToX(h.StartTime)
	x2 := st.timeToX(h.EndTime)
	style := highlightStyle()
	if h.Color != "" {
		style.Set("fillColor", string(core.NormalizeColor(h.Color)))
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: st.b.IDs.Next(), Value: h.Caption, Style: style, Vertex: true, Parent: mxbuilder.GroupParentID,
		Geometry: &core.Geometry{X: x1, Y: TitleHeight, Width: geometry.Max(x2-x1, 2), Height: lanesBottom - TitleHeight},
	})
	st.cells = append([]string{cell}, st.cells...)
}

func (st *emitState) emitConstraint(c *TimeConstraint, lanesBottom int) {
	y := lanesBottom + 10
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: st.b.IDs.Next(), Value: c.Label, Style: constraintStyle(), Edge: true, Parent: mxbuilder.GroupParentID,
		Geometry:    &core.Geometry{Relative: true},
		SourcePoint: &core.Point{X: st.timeToX(c.Time1), Y: y},
		TargetPoint: &core.Point{X: st.timeToX(c.Time2), Y: y},
	})
	st.cells = append(st.cells, cell)
}

func (st *emitState) emitMessage(m *TimeMessage) {
	fromLane, fromOK := st.lanes[m.FromPlayer]
	toLane, toOK := st.lanes[m.ToPlayer]
	if !fromOK || !toOK {
		return
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: st.b.IDs.Next(), Value: m.Label, Style: messageStyle(), Edge: true, Parent: mxbuilder.GroupParentID,
		Geometry:    &core.Geometry{Relative: true},
		SourcePoint: &core.Point{X: st.timeToX(m.FromTime), Y: fromLane.top + fromLane.height/2},
		TargetPoint: &core.Point{X: st.timeToX(m.ToTime), Y: toLane.top + toLane.height/2},
	})
	st.cells = append(st.cells, cell)
}

func (st *emitState) emitNote(n *TimingNote) {
	lane, ok := st.lanes[n.PlayerCode]
	if !ok {
		return
	}
	w := layout.PixelWidth(n.Text, 140, 10)
	h := layout.BoxHeight(n.Text, 30, 10)
	y := lane.top - h - 4
	if n.Position == core.NoteBottom {
		y = lane.top + lane.height + 4
	}
	cell, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: st.b.IDs.Next(), Value: n.Text, Style: noteStyle(), Vertex: true, Parent: mxbuilder.GroupParentID,
		Geometry: &core.Geometry{X: LaneLabelWidth, Y: y, Width: w, Height: h},
	})
	st.cells = append(st.cells, cell)
}

func (st *emitState) emitTimeAxis(lanesBottom int) {
	y := lanesBottom
	x1 := st.timeToX(st.minTime)
	x2 := st.timeToX(st.maxTime)
	axis, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
		ID: st.b.IDs.Next(), Style: axisLineStyle(), Edge: true, Parent: mxbuilder.GroupParentID,
		Geometry:    &core.Geometry{Relative: true},
		SourcePoint: &core.Point{X: x1, Y: y},
		TargetPoint: &core.Point{X: x2, Y: y},
	})
	st.cells = append(st.cells, axis)

	ticks := collectTicks(st.minTime, st.maxTime)
	for _, t := range ticks {
		x := st.timeToX(t)
		label, _ := mxbuilder.BuildCell(mxbuilder.CellOptions{
			ID: st.b.IDs.Next(), Value: formatTick(t), Style: tickLabelStyle(), Vertex: true, Parent: mxbuilder.GroupParentID,
			Geometry: &core.Geometry{X: x - 10, Y: y + 4, Width: 20, Height: 14},
		})
		st.cells = append(st.cells, label)
	}
}

func collectTicks(min, max float64) []float64 {
	seen := map[float64]bool{}
	var out []float64
	for v := min; v <= max+0.0001; v++ {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

func formatTick(t float64) string {
	if t == float64(int64(t)) {
		return strconv.FormatInt(int64(t), 10)
	}
	return fmt.Sprintf("%g", t)
}
