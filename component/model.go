// Package component implements the component/deployment/use-case
// diagram family: one model, distinguished only by each element's
// Type field, covering PlantUML's `[Component]`, `() Interface`,
// `:Actor:`, `(Use Case)` shorthands and their container keywords.
package component

import "github.com/jgraph/plantuml-drawio/core"

// ElementType enumerates the component/deployment/use-case element
// kinds. The PlantUML grammar recognizes 30+ distinct declarations
// across these three diagram kinds sharing one underlying model.
type ElementType int

const (
	TypeComponent ElementType = iota
	TypeInterface
	TypeActor
	TypeUseCase
	TypeClass
	TypeNode
	TypeCloud
	TypeDatabase
	TypeStorage
	TypeFolder
	TypeFrame
	TypePackage
	TypeRectangle
	TypeCard
	TypeFile
	TypeArtifact
	TypeQueue
	TypeStack
	TypeAgent
	TypeBoundary
	TypeControl
	TypeEntity
	TypeCollections
	TypeProcess
	TypePerson
	TypeDataStore
	TypeCircle
	TypeUsecaseBusiness
	TypeActorBusiness
)

// ComponentElement is one declared node in the diagram.
type ComponentElement struct {
	Code          string
	DisplayName   string
	Type          ElementType
	Stereotype    string
	Color         core.Color
	ContainerPath string
}

// DecorKind mirrors class.DecorKind for component-diagram edges; kept
// as a separate type so the two families can evolve independently.
type DecorKind int

const (
	DecorNone DecorKind = iota
	DecorArrow
	DecorExtends
	DecorCrowfoot
)

// ComponentRelationship links two elements by code.
type ComponentRelationship struct {
	From       string
	To         string
	LeftDecor  DecorKind
	RightDecor DecorKind
	LineStyle  core.LineStyle
	Label      string
	Color      core.Color
	Direction  core.Direction
}

// ComponentContainer is one of the 15+ container keywords
// (package, node, cloud, folder, frame, rectangle, database, ...);
// containers form a tree.
type ComponentContainer struct {
	Name       string
	Path       string
	Type       string // the raw container keyword, e.g. "node", "cloud"
	Parent     *ComponentContainer
	Children   []*ComponentContainer
	Elements   []*ComponentElement
	Color      core.Color
}

// ComponentNote annotates an element by a dashed link.
type ComponentNote struct {
	Position   core.NotePosition
	Text       string
	ElementCode string
	Color      core.Color
}

// ComponentDiagram is the fully parsed model, shared by component,
// deployment, and use-case diagrams.
type ComponentDiagram struct {
	Title         string
	Elements      map[string]*ComponentElement
	ElementOrder  []string
	Containers    []*ComponentContainer
	Relationships []*ComponentRelationship
	Notes         []*ComponentNote
}

// NewComponentDiagram returns an empty diagram ready for parsing.
func NewComponentDiagram() *ComponentDiagram {
	return &ComponentDiagram{Elements: make(map[string]*ComponentElement)}
}

// EnsureElement returns the element with the given code, auto-creating
// a default TypeComponent element if undeclared.
func (d *ComponentDiagram) EnsureElement(code string) *ComponentElement {
	if e, ok := d.Elements[code]; ok {
		return e
	}
	e := &ComponentElement{Code: code, DisplayName: code, Type: TypeComponent}
	d.Elements[code] = e
	d.ElementOrder = append(d.ElementOrder, code)
	return e
}
