package sequence

import (
	"github.com/jgraph/plantuml-drawio/core"
	"github.com/jgraph/plantuml-drawio/mxbuilder"
)

// Layout constants for the sequence emitter, named after spec.md
// §4.3.1's pass description.
const (
	MarginLeft          = 40
	MarginTop           = 20
	ParticipantGap      = 40
	ActorWidth          = 40
	ActorHeight         = 50
	DefaultBoxWidth     = 120
	DefaultBoxHeight    = 40
	TitleHeight         = 30
	RowHeight           = 40
	ActivationBarWidth  = 10
	SelfMessageWidth    = 40
	SelfMessageHeight   = 30
	NotePadding         = 10
	BoxPadding          = 10
	FragmentHeaderHeight = 20
	FragmentPadding     = 10
)

// headerStyle returns the per-type draw.io shape style for a
// participant's top/bottom header box.
func headerStyle(t ParticipantType) mxbuilder.StyleMap {
	switch t {
	case TypeActor:
		return mxbuilder.NewStyle("shape", "umlActor", "verticalLabelPosition", "bottom", "verticalAlign", "top", "html", "1", "outlineConnect", "0")
	case TypeBoundary:
		return mxbuilder.NewStyle("shape", "mxgraph.uml2.boundary", "whiteSpace", "wrap", "html", "1")
	case TypeControl:
		return mxbuilder.NewStyle("shape", "mxgraph.uml2.control", "whiteSpace", "wrap", "html", "1")
	case TypeEntity:
		return mxbuilder.NewStyle("shape", "mxgraph.uml2.entity2", "whiteSpace", "wrap", "html", "1")
	case TypeQueue:
		return mxbuilder.NewStyle("shape", "hexagon", "perimeter", "hexagonPerimeter2", "whiteSpace", "wrap", "html", "1")
	case TypeDatabase:
		return mxbuilder.NewStyle("shape", "cylinder3", "whiteSpace", "wrap", "html", "1", "boundedLbl", "1")
	case TypeCollections:
		return mxbuilder.NewStyle("shape", "cube", "whiteSpace", "wrap", "html", "1")
	default:
		return mxbuilder.NewStyle("rounded", "0", "whiteSpace", "wrap", "html", "1")
	}
}

func lifelineStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("endArrow", "none", "dashed", "1", "html", "1", "strokeColor", "#666666")
}

func activationStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("rounded", "0", "whiteSpace", "wrap", "html", "1", "fillColor", "#f5f5f5")
}

func arrowStyleFor(a ArrowConfig) mxbuilder.StyleMap {
	s := mxbuilder.NewStyle("html", "1", "verticalAlign", "bottom", "endArrow", arrowHeadStyle(a.Head2), "startArrow", arrowHeadStyle(a.Head1))
	switch a.Body {
	case core.LineDashed, core.LineDotted:
		s.Set("dashed", "1")
		if a.Body == core.LineDotted {
			s.Set("dashPattern", "1 2")
		}
	case core.LineBold:
		s.Set("strokeWidth", "2")
	case core.LineHidden:
		s.Set("strokeColor", "none")
	}
	if a.Color != "" {
		s.Set("strokeColor", string(core.NormalizeColor(a.Color)))
	}
	if !a.Bidirectional {
		s.Set("startArrow", "none")
	}
	return s
}

func arrowHeadStyle(head string) string {
	switch head {
	case "<", ">":
		return "open"
	case "<<", ">>":
		return "block"
	case "o":
		return "oval"
	case "x":
		return "cross"
	default:
		return "none"
	}
}

func fragmentStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("rounded", "0", "whiteSpace", "wrap", "html", "1", "fillColor", "none", "verticalAlign", "top", "horizontal", "0")
}

func noteStyle(style NoteStyle) mxbuilder.StyleMap {
	switch style {
	case NoteStyleHexagon:
		return mxbuilder.NewStyle("shape", "hexagon", "whiteSpace", "wrap", "html", "1", "fillColor", "#FFF9B2")
	case NoteStyleRounded:
		return mxbuilder.NewStyle("rounded", "1", "whiteSpace", "wrap", "html", "1", "fillColor", "#FFF9B2")
	default:
		return mxbuilder.NewStyle("shape", "note", "whiteSpace", "wrap", "html", "1", "fillColor", "#FFF9B2")
	}
}

func boxStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("rounded", "0", "whiteSpace", "wrap", "html", "0", "fillColor", "#EEEEEE", "strokeColor", "#999999")
}
