// Package state implements the state-diagram family: composite
// states, concurrent regions, and pseudostates parsed from PlantUML
// state syntax and emitted via a three-pass measure/place/emit layout
// using a layered DAG placement for top-level states.
package state

import "github.com/jgraph/plantuml-drawio/core"

// ElementType enumerates the state-diagram node kinds.
type ElementType int

const (
	TypeState ElementType = iota
	TypeInitial
	TypeFinal
	TypeChoice
	TypeForkJoin
	TypeSynchroBar
	TypeHistory
	TypeDeepHistory
)

// StateElement is one declared state, pseudostate, or composite.
type StateElement struct {
	Code              string
	DisplayName       string
	Type              ElementType
	ParentCode        string
	Children          []string
	ConcurrentRegions [][]string // each inner slice is one region's direct child codes
	Descriptions      []string
	Stereotypes       []string
	LineStyle         *core.LineStyle
	Color             core.Color
}

// Transition links two states (or pseudostates) by code.
type Transition struct {
	From       string
	To         string
	Label      string
	LineStyle  core.LineStyle
	Color      core.Color
	CrossStart bool
	CircleEnd  bool
}

// Note annotates a state or a transition.
type Note struct {
	Position   core.NotePosition
	Text       string
	EntityCode string
	IsOnLink   bool
	LinkIndex  int
}

// DiagramDirection is the main-axis layout hint.
type DiagramDirection int

const (
	DirTopToBottom DiagramDirection = iota
	DirLeftToRight
)

// StateDiagram is the fully parsed model.
type StateDiagram struct {
	Title       string
	Elements    map[string]*StateElement
	ElementOrder []string
	Transitions []*Transition
	Notes       []*Note
	Direction   DiagramDirection
}

// NewStateDiagram returns an empty diagram ready for parsing.
func NewStateDiagram() *StateDiagram {
	return &StateDiagram{Elements: make(map[string]*StateElement)}
}

// EnsureElement returns the state with the given code, auto-creating a
// default TypeState element if undeclared.
func (d *StateDiagram) EnsureElement(code string) *StateElement {
	if e, ok := d.Elements[code]; ok {
		return e
	}
	e := &StateElement{Code: code, DisplayName: code, Type: TypeState}
	d.Elements[code] = e
	d.ElementOrder = append(d.ElementOrder, code)
	return e
}

// TopLevel returns the elements with no parent, in declaration order.
func (d *StateDiagram) TopLevel() []*StateElement {
	var out []*StateElement
	for _, code := range d.ElementOrder {
		e := d.Elements[code]
		if e.ParentCode == "" {
			out = append(out, e)
		}
	}
	return out
}
