package state

import (
	"github.com/jgraph/plantuml-drawio/core"
	"github.com/jgraph/plantuml-drawio/mxbuilder"
)

// Layout constants for the state-diagram family.
const (
	StateWidth    = 120
	StateHeight   = 60
	PseudoSize    = 30
	ChoiceSize    = 40
	ForkJoinWidth = 10
	ForkJoinLen   = 60
	HistorySize   = 40
	HGap          = 60
	VGap          = 50
	RegionGap     = 20
	HeaderHeight  = 26
	Padding       = 16
)

func stateStyle(e *StateElement) mxbuilder.StyleMap {
	switch e.Type {
	case TypeInitial:
		return mxbuilder.NewBareStyle("ellipse", "fillColor", "#000000", "strokeColor", "#000000")
	case TypeFinal:
		return mxbuilder.NewBareStyle("ellipse",
			"fillColor", "#000000", "strokeColor", "#000000",
			"shape", "doubleEllipse", "html", "1")
	case TypeChoice:
		return mxbuilder.NewBareStyle("rhombus", "whiteSpace", "wrap", "html", "1")
	case TypeForkJoin:
		return mxbuilder.NewStyle("html", "1", "whiteSpace", "wrap",
			"fillColor", "#000000", "strokeColor", "#000000")
	case TypeHistory, TypeDeepHistory:
		return mxbuilder.NewBareStyle("ellipse", "whiteSpace", "wrap", "html", "1")
	default:
		if len(e.ConcurrentRegions) > 0 || len(e.Children) > 0 {
			return mxbuilder.NewBareStyle("swimlane",
				"whiteSpace", "wrap", "html", "1", "collapsible", "0", "startSize", "26")
		}
		return mxbuilder.NewStyle("rounded", "1", "whiteSpace", "wrap", "html", "1")
	}
}

func historyLabel(t ElementType) string {
	if t == TypeDeepHistory {
		return "H*"
	}
	return "H"
}

func regionDividerStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("html", "1", "dashed", "1", "strokeColor", "#666666")
}

func transitionStyle(tr *Transition) mxbuilder.StyleMap {
	s := mxbuilder.NewStyle("html", "1", "edgeStyle", "orthogonalEdgeStyle", "rounded", "0")
	switch tr.LineStyle {
	case core.LineDotted:
		s.Set("dashed", "1")
		s.Set("dashPattern", "1 2")
	case core.LineBold:
		s.Set("strokeWidth", "2")
	case core.LineDashed:
		s.Set("dashed", "1")
	}
	if tr.Color != "" {
		s.Set("strokeColor", string(core.NormalizeColor(tr.Color)))
	}
	return s
}

func noteStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("shape", "note", "whiteSpace", "wrap", "html", "1", "fillColor", "#FFF9B2")
}

func noteLinkStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("html", "1", "endArrow", "none", "dashed", "1")
}
