package class

import "github.com/jgraph/plantuml-drawio/mxbuilder"

// Layout constants for the class-diagram grid emitter.
const (
	ColsPerRow         = 4
	HGap               = 40
	VGap               = 40
	EntityMinWidth     = 160
	EntityHeaderHeight = 26
	MemberRowHeight    = 18
	ContainerHeader    = 30
	ContainerPadding   = 20
)

// entityStyle is the per-type shape string table spec.md §4.3.2
// requires. UML class shapes use draw.io's swimlane-with-stack-layout
// vocabulary so members render as distinct rows.
func entityStyle(t EntityType) mxbuilder.StyleMap {
	switch t {
	case TypeInterface:
		return mxbuilder.NewBareStyle("swimlane", "fontStyle", "2", "align", "center", "verticalAlign", "top", "childLayout", "stackLayout", "horizontal", "1", "startSize", "26", "horizontalStack", "1", "resizeParent", "0", "collapsible", "1", "marginBottom", "0")
	case TypeAbstractClass:
		return mxbuilder.NewBareStyle("swimlane", "fontStyle", "2", "align", "center", "verticalAlign", "top", "childLayout", "stackLayout", "horizontal", "1", "startSize", "26")
	case TypeEnum:
		return mxbuilder.NewBareStyle("swimlane", "align", "center", "verticalAlign", "top", "childLayout", "stackLayout", "horizontal", "1", "startSize", "26", "fillColor", "#FFF2CC")
	case TypeAnnotation:
		return mxbuilder.NewBareStyle("swimlane", "align", "center", "verticalAlign", "top", "childLayout", "stackLayout", "horizontal", "1", "startSize", "26", "fillColor", "#E1D5E7")
	case TypeCircle:
		return mxbuilder.NewBareStyle("ellipse", "whiteSpace", "wrap", "html", "1")
	case TypeDiamond:
		return mxbuilder.NewBareStyle("rhombus", "whiteSpace", "wrap", "html", "1")
	case TypeObject:
		return mxbuilder.NewBareStyle("swimlane", "align", "center", "verticalAlign", "top", "childLayout", "stackLayout", "horizontal", "1", "startSize", "26", "fillColor", "#DAE8FC")
	case TypeMap, TypeJSON:
		return mxbuilder.NewBareStyle("swimlane", "align", "center", "verticalAlign", "top", "childLayout", "stackLayout", "horizontal", "1", "startSize", "26")
	default:
		return mxbuilder.NewBareStyle("swimlane", "align", "center", "verticalAlign", "top", "childLayout", "stackLayout", "horizontal", "1", "startSize", "26")
	}
}

func memberRowStyle(kind MemberKind) mxbuilder.StyleMap {
	return mxbuilder.NewBareStyle("text", "html", "1", "align", "left", "verticalAlign", "middle", "spacingLeft", "4")
}

func separatorRowStyle(style SeparatorStyle) mxbuilder.StyleMap {
	s := mxbuilder.NewBareStyle("line", "strokeWidth", "1", "html", "1")
	switch style {
	case SepDotted:
		s.Set("dashed", "1")
	case SepDouble:
		s.Set("strokeWidth", "2")
	case SepThick:
		s.Set("strokeWidth", "3")
	}
	return s
}

func containerStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("rounded", "0", "whiteSpace", "wrap", "html", "1", "verticalAlign", "top", "fillColor", "none", "dashed", "1")
}

func noteLinkStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("endArrow", "none", "dashed", "1", "html", "1")
}

// applyDecor installs endArrow/startArrow/endFill/startFill per the
// decorator-to-style mapping spec.md §4.3.2 describes.
func applyDecor(s *mxbuilder.StyleMap, leftDecor, rightDecor DecorKind, lineStyle, color string) {
	switch rightDecor {
	case DecorExtends:
		s.Set("endArrow", "block")
		s.Set("endFill", "0")
	case DecorImplements:
		s.Set("endArrow", "block")
		s.Set("endFill", "0")
		s.Set("dashed", "1")
	case DecorComposition:
		s.Set("endArrow", "diamond")
		s.Set("endFill", "1")
	case DecorAggregation:
		s.Set("endArrow", "diamond")
		s.Set("endFill", "0")
	case DecorArrow:
		s.Set("endArrow", "open")
	case DecorCrowfoot:
		s.Set("endArrow", "ERmany")
	default:
		s.Set("endArrow", "none")
	}
	switch leftDecor {
	case DecorExtends:
		s.Set("startArrow", "block")
		s.Set("startFill", "0")
	case DecorImplements:
		s.Set("startArrow", "block")
		s.Set("startFill", "0")
		s.Set("dashed", "1")
	case DecorComposition:
		s.Set("startArrow", "diamond")
		s.Set("startFill", "1")
	case DecorAggregation:
		s.Set("startArrow", "diamond")
		s.Set("startFill", "0")
	case DecorArrow:
		s.Set("startArrow", "open")
	case DecorCrowfoot:
		s.Set("startArrow", "ERmany")
	default:
		s.Set("startArrow", "none")
	}
	if lineStyle == "dotted" {
		s.Set("dashed", "1")
	}
	if color != "" {
		s.Set("strokeColor", color)
	}
}
