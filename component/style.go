package component

import "github.com/jgraph/plantuml-drawio/mxbuilder"

// Layout constants, shared with class's grid-layout conventions.
const (
	ColsPerRow       = 4
	HGap             = 50
	VGap             = 50
	ElementWidth     = 140
	ElementHeight    = 60
	ContainerHeader  = 30
	ContainerPadding = 20
)

// elementStyle maps every ElementType to its draw.io shape string.
// This is the external-contract shape vocabulary spec.md §6 names.
func elementStyle(t ElementType) mxbuilder.StyleMap {
	switch t {
	case TypeComponent:
		return mxbuilder.NewStyle("shape", "component", "whiteSpace", "wrap", "html", "1")
	case TypeInterface:
		return mxbuilder.NewBareStyle("ellipse", "whiteSpace", "wrap", "html", "1", "perimeter", "ellipsePerimeter")
	case TypeActor, TypeActorBusiness:
		return mxbuilder.NewStyle("shape", "umlActor", "verticalLabelPosition", "bottom", "verticalAlign", "top", "html", "1", "outlineConnect", "0")
	case TypeUseCase, TypeUsecaseBusiness:
		return mxbuilder.NewBareStyle("ellipse", "whiteSpace", "wrap", "html", "1")
	case TypeClass:
		return mxbuilder.NewStyle("rounded", "0", "whiteSpace", "wrap", "html", "1")
	case TypeNode:
		return mxbuilder.NewStyle("shape", "cube", "whiteSpace", "wrap", "html", "1", "boundedLbl", "1")
	case TypeCloud:
		return mxbuilder.NewBareStyle("ellipse", "shape", "cloud", "whiteSpace", "wrap", "html", "1")
	case TypeDatabase:
		return mxbuilder.NewStyle("shape", "cylinder3", "whiteSpace", "wrap", "html", "1", "boundedLbl", "1")
	case TypeStorage:
		return mxbuilder.NewStyle("shape", "mxgraph.eip.dataStore", "whiteSpace", "wrap", "html", "1")
	case TypeFolder:
		return mxbuilder.NewStyle("shape", "folder", "whiteSpace", "wrap", "html", "1")
	case TypeFrame:
		return mxbuilder.NewStyle("shape", "mxgraph.basic.rect", "whiteSpace", "wrap", "html", "1")
	case TypePackage:
		return mxbuilder.NewStyle("shape", "mxgraph.sysml.package", "whiteSpace", "wrap", "html", "1")
	case TypeRectangle:
		return mxbuilder.NewStyle("rounded", "0", "whiteSpace", "wrap", "html", "1")
	case TypeCard:
		return mxbuilder.NewStyle("shape", "card", "whiteSpace", "wrap", "html", "1")
	case TypeFile:
		return mxbuilder.NewStyle("shape", "note", "whiteSpace", "wrap", "html", "1")
	case TypeArtifact:
		return mxbuilder.NewStyle("shape", "note", "whiteSpace", "wrap", "html", "1", "backgroundOutline", "1")
	case TypeQueue:
		return mxbuilder.NewStyle("shape", "mxgraph.sysml.queue", "whiteSpace", "wrap", "html", "1")
	case TypeStack:
		return mxbuilder.NewStyle("shape", "mxgraph.basic.layered_rect", "whiteSpace", "wrap", "html", "1")
	case TypeAgent:
		return mxbuilder.NewStyle("rounded", "1", "whiteSpace", "wrap", "html", "1")
	case TypeBoundary:
		return mxbuilder.NewStyle("shape", "mxgraph.sysml.boundary", "whiteSpace", "wrap", "html", "1")
	case TypeControl:
		return mxbuilder.NewStyle("shape", "mxgraph.sysml.control", "whiteSpace", "wrap", "html", "1")
	case TypeEntity:
		return mxbuilder.NewStyle("shape", "mxgraph.sysml.entity", "whiteSpace", "wrap", "html", "1")
	case TypeCollections:
		return mxbuilder.NewStyle("shape", "cube", "whiteSpace", "wrap", "html", "1")
	case TypeProcess:
		return mxbuilder.NewStyle("shape", "mxgraph.flowchart.process", "whiteSpace", "wrap", "html", "1")
	case TypePerson:
		return mxbuilder.NewStyle("shape", "mxgraph.basic.person", "whiteSpace", "wrap", "html", "1")
	case TypeDataStore:
		return mxbuilder.NewStyle("shape", "mxgraph.flowchart.database", "whiteSpace", "wrap", "html", "1")
	case TypeCircle:
		return mxbuilder.NewBareStyle("ellipse", "whiteSpace", "wrap", "html", "1")
	default:
		return mxbuilder.NewStyle("rounded", "0", "whiteSpace", "wrap", "html", "1")
	}
}

func containerStyle(kind string) mxbuilder.StyleMap {
	switch kind {
	case "cloud":
		return mxbuilder.NewBareStyle("ellipse", "shape", "cloud", "whiteSpace", "wrap", "html", "1", "verticalAlign", "top")
	case "node":
		return mxbuilder.NewStyle("shape", "cube", "whiteSpace", "wrap", "html", "1", "verticalAlign", "top", "boundedLbl", "1")
	case "folder":
		return mxbuilder.NewStyle("shape", "folder", "whiteSpace", "wrap", "html", "1", "verticalAlign", "top")
	case "package":
		return mxbuilder.NewStyle("shape", "mxgraph.sysml.package", "whiteSpace", "wrap", "html", "1", "verticalAlign", "top")
	default:
		return mxbuilder.NewStyle("rounded", "0", "whiteSpace", "wrap", "html", "1", "verticalAlign", "top", "fillColor", "none", "dashed", "1")
	}
}

func noteLinkStyle() mxbuilder.StyleMap {
	return mxbuilder.NewStyle("endArrow", "none", "dashed", "1", "html", "1")
}

// applyDecor installs the arrow-decorator style per the shared
// decorator-to-style mapping, reusing the arrow style names that form
// part of the external draw.io contract (block, open, ERmany, ...).
func applyDecor(s *mxbuilder.StyleMap, left, right DecorKind, dashed bool, color string) {
	switch right {
	case DecorExtends:
		s.Set("endArrow", "block")
		s.Set("endFill", "0")
	case DecorArrow:
		s.Set("endArrow", "open")
	case DecorCrowfoot:
		s.Set("endArrow", "ERmany")
	default:
		s.Set("endArrow", "none")
	}
	switch left {
	case DecorExtends:
		s.Set("startArrow", "block")
		s.Set("startFill", "0")
	case DecorArrow:
		s.Set("startArrow", "open")
	case DecorCrowfoot:
		s.Set("startArrow", "ERmany")
	default:
		s.Set("startArrow", "none")
	}
	if dashed {
		s.Set("dashed", "1")
	}
	if color != "" {
		s.Set("strokeColor", color)
	}
}
