// Package class implements the class-diagram family: entities,
// members, packages and relationships, parsed from PlantUML class
// syntax and emitted as a grid-and-container draw.io layout.
package class

import "github.com/jgraph/plantuml-drawio/core"

// EntityType enumerates the class-diagram classifier keywords.
type EntityType int

const (
	TypeClass EntityType = iota
	TypeInterface
	TypeAbstractClass
	TypeEnum
	TypeAnnotation
	TypeEntity
	TypeProtocol
	TypeStruct
	TypeException
	TypeMetaclass
	TypeStereotypeType
	TypeDataclass
	TypeRecord
	TypeCircle
	TypeDiamond
	TypeObject
	TypeMap
	TypeJSON
	TypeLollipopFull
)

// Visibility is a member's access modifier.
type Visibility int

const (
	VisPublic Visibility = iota
	VisPrivate
	VisProtected
	VisPackage
	VisNone
)

// MemberKind distinguishes a field from a method.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
)

// Member is one entity body line that survived classification: a
// field or method. The unparsed remainder of the line is preserved in
// RawText so the emitter can render it verbatim if structured parsing
// only partially succeeded.
type Member struct {
	RawText    string
	Kind       MemberKind
	Visibility Visibility
	Name       string
	ReturnType string
	Parameters string
	IsStatic   bool
	IsAbstract bool
}

// SeparatorStyle is the line style of a body separator member.
type SeparatorStyle int

const (
	SepSolid SeparatorStyle = iota
	SepDotted
	SepDouble
	SepThick
)

// Separator is a first-class body member that divides sections.
type Separator struct {
	Label string
	Style SeparatorStyle
}

// EntityMember is one body line: either a Member or a Separator.
type EntityMember struct {
	Member    *Member
	Separator *Separator
}

// MapEntry is one row of a `map` pseudo-entity.
type MapEntry struct {
	Key          string
	Value        string
	LinkedTarget string
}

// JSONNodeType enumerates the three JSON-body shapes.
type JSONNodeType int

const (
	JSONObject JSONNodeType = iota
	JSONArray
	JSONPrimitive
)

// JSONNode is one node of the tree parsed from a `json` pseudo-entity body.
type JSONNode struct {
	Type    JSONNodeType
	Entries map[string]*JSONNode // JSONObject
	Keys    []string             // JSONObject keys, in Go map iteration order (not source order)
	Items   []*JSONNode          // JSONArray
	Value   string               // JSONPrimitive
}

// ClassEntity is one declared classifier (class/interface/enum/...).
type ClassEntity struct {
	Code          string
	DisplayName   string
	Type          EntityType
	Stereotypes   []string
	GenericParams string
	Extends       []string
	Implements    []string
	Members       []EntityMember
	MapEntries    []MapEntry
	JSONNode      *JSONNode
	Color         core.Color
	PackagePath   string
}

// Package is a namespace container; packages form a tree keyed by
// dotted ancestor-code path.
type Package struct {
	Name        string
	Path        string
	Parent      *Package
	SubPackages []*Package
	Entities    []*ClassEntity
	Color       core.Color
}

// DecorKind is one end-decorator of a relationship arrow.
type DecorKind int

const (
	DecorNone DecorKind = iota
	DecorExtends        // hollow triangle
	DecorImplements     // hollow triangle, dashed line
	DecorComposition    // filled diamond
	DecorAggregation    // hollow diamond
	DecorArrow          // open arrowhead
	DecorCrowfoot       // ERmany
)

// Relationship links two entities (auto-creating either side that has
// not been declared yet).
type Relationship struct {
	From           string
	To             string
	LeftDecor      DecorKind
	RightDecor     DecorKind
	LineStyle      core.LineStyle
	Label          string
	LeftLabel      string
	RightLabel     string
	LeftQualifier  string
	RightQualifier string
	Direction      core.Direction
	Color          core.Color
}

// Note annotates an entity, a link, or floats free.
type Note struct {
	Position   core.NotePosition
	Text       string
	EntityCode string
	Alias      string
	Color      core.Color
	IsOnLink   bool
	LinkIndex  int
}

// ClassDiagram is the fully parsed model.
type ClassDiagram struct {
	Title         string
	Entities      map[string]*ClassEntity
	EntityOrder   []string
	Packages      []*Package
	Relationships []*Relationship
	Notes         []*Note
	HiddenMembers map[MemberKind]bool
}

// NewClassDiagram returns an empty diagram ready for parsing.
func NewClassDiagram() *ClassDiagram {
	return &ClassDiagram{
		Entities:      make(map[string]*ClassEntity),
		HiddenMembers: make(map[MemberKind]bool),
	}
}

// EnsureEntity returns the entity with the given code, auto-creating a
// default TypeClass entity if it has not been declared yet.
func (d *ClassDiagram) EnsureEntity(code string) *ClassEntity {
	if e, ok := d.Entities[code]; ok {
		return e
	}
	e := &ClassEntity{Code: code, DisplayName: code, Type: TypeClass}
	d.Entities[code] = e
	d.EntityOrder = append(d.EntityOrder, code)
	return e
}
