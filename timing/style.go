package timing

import "github.com/jgraph/plantuml-drawio/mxbuilder"

// Layout constants for the timing-diagram family.
const (
	LaneLabelWidth    = 160
	TimeUnitWidth     = 40
	MinAxisWidth      = 300
	RobustLevelHeight = 24
	ConciseHeight     = 40
	ClockHeight       = 50
	BinaryHeight      = 40
	AnalogHeight      = 60
	RectangleHeight   = 40
	LaneGap           = 10
	TitleHeight       = 30
	AxisHeight        = 30
	HighlightPad      = 4
)

func laneHeight(p *TimingPlayer) int {
	switch p.Type {
	case PlayerRobust:
		n := len(p.States)
		if n < 2 {
			n = 2
		}
		return n * RobustLevelHeight
	case PlayerClock:
		return ClockHeight
	case PlayerBinary:
		return BinaryHeight
	case PlayerAnalog:
		return AnalogHeight
	case PlayerRectangle, PlayerConcise:
		return ConciseHeight
	default:
		return ConciseHeight
	}
}

func laneLabelStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("html", "1", "align", "left", "verticalAlign", "middle", "fontStyle", "1")
}

func waveformLineStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("html", "1", "endArrow", "none", "startArrow", "none", "strokeWidth", "2")
}

func segmentBarStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("html", "1", "whiteSpace", "wrap", "fillColor", "#DAE8FC", "strokeColor", "#6C8EBF")
}

func highlightStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("html", "1", "fillColor", "#FFE6CC", "strokeColor", "none", "opacity", "40")
}

func constraintStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("html", "1", "endArrow", "block", "startArrow", "block", "startFill", "1", "endFill", "1")
}

func messageStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("html", "1", "endArrow", "block", "endFill", "1", "dashed", "1")
}

func noteStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("shape", "note", "whiteSpace", "wrap", "html", "1", "fillColor", "#FFF9B2")
}

func axisLineStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("html", "1", "endArrow", "none", "startArrow", "none", "strokeColor", "#000000")
}

func tickLabelStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("html", "1", "fontSize", "10")
}
