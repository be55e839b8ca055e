// Package sequence implements the sequence-diagram family: a
// line-oriented parser that turns PlantUML sequence syntax into a
// SequenceDiagram model, and an emitter that lays the model out as
// draw.io cells.
package sequence

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/jgraph/plantuml-drawio/core"
)

// ParticipantType enumerates the PlantUML participant keywords.
type ParticipantType int

const (
	TypeParticipant ParticipantType = iota
	TypeActor
	TypeBoundary
	TypeControl
	TypeEntity
	TypeQueue
	TypeDatabase
	TypeCollections
)

// Participant is one lifeline header.
type Participant struct {
	Code        string
	DisplayName string
	Type        ParticipantType
	Order       *int
	Color       core.Color
	Stereotype  string
	IsCreated   bool
}

// ArrowConfig decomposes an arrow token like "-[#red]->>" into its parts.
type ArrowConfig struct {
	Head1       string // leftmost arrowhead glyph, e.g. "<", "<<", "o", "x"
	Head2       string // rightmost arrowhead glyph
	Body        core.LineStyle
	Part        string // "full", "half_top", "half_bottom" for unidirectional half arrows
	Decoration1 string
	Decoration2 string
	Color       core.Color
	Bidirectional bool
}

// LifeEventType enumerates activation-stack events.
type LifeEventType int

const (
	EventActivate LifeEventType = iota
	EventDeactivate
	EventCreate
	EventDestroy
)

// LifeEvent is an activate/deactivate/create/destroy marker attached to
// a participant at the point it occurs in the element stream.
type LifeEvent struct {
	Participant string
	Type        LifeEventType
	Color       core.Color
}

// ExoType identifies which diagram edge an ExoMessage crosses.
type ExoType int

const (
	ExoFromLeft ExoType = iota
	ExoToLeft
	ExoFromRight
	ExoToRight
)

// Message is a single arrow between two participants (From == To for a
// self-message).
type Message struct {
	From          string
	To            string
	Label         string
	Arrow         ArrowConfig
	IsParallel    bool
	Multicast     []string
	NoteOnArrow   string
	IsReturn      bool
	ActivateAfter []LifeEvent // inline ++/--/**/!! suffix events, in order
}

// ExoMessage is an arrow that crosses the left or right diagram boundary.
type ExoMessage struct {
	Participant string
	Label       string
	Arrow       ArrowConfig
	ExoType     ExoType
}

// FragmentType enumerates the supported combined-fragment keywords.
type FragmentType int

const (
	FragAlt FragmentType = iota
	FragLoop
	FragOpt
	FragPar
	FragBreak
	FragCritical
	FragGroup
)

// FragmentSection is one "condition: elements" slice of a fragment
// (e.g. one "else" branch of an alt).
type FragmentSection struct {
	Condition string
	Elements  []Element
}

// Fragment is a combined fragment (alt/loop/opt/par/break/critical/group).
type Fragment struct {
	Type     FragmentType
	Label    string
	Sections []FragmentSection
	Color    core.Color
}

// NoteStyle distinguishes note/hnote/rnote rendering.
type NoteStyle int

const (
	NoteStyleNote NoteStyle = iota
	NoteStyleHexagon
	NoteStyleRounded
)

// Note is a free-text annotation attached to one or more participants.
type Note struct {
	Participants []string
	Position     core.NotePosition
	Text         string
	Style        NoteStyle
	Color        core.Color
	IsAcross     bool
}

// Divider is a "==label==" separator line spanning the full diagram width.
type Divider struct{ Label string }

// Delay is a "...label..." vertical gap marker.
type Delay struct{ Label string }

// HSpace is an explicit vertical gap of a given pixel size (0 = default).
type HSpace struct{ Size int }

// Reference is a "ref over" box spanning one or more participants.
type Reference struct {
	Participants []string
	Text         string
	Color        core.Color
}

// Box is a coloured rectangular grouping drawn behind a run of participants.
type Box struct {
	Title        string
	Color        core.Color
	Participants []string
}

// Element is one entry of the diagram's ordered event stream. Exactly
// one field is non-nil; this mirrors the teacher's practice of a
// tagged-variant discriminator built from a struct of optional fields
// rather than an interface, which keeps the emitter's big switch a
// single flat type-free dispatch.
type Element struct {
	Message    *Message
	ExoMessage *ExoMessage
	LifeEvent  *LifeEvent
	Fragment   *Fragment
	Note       *Note
	Divider    *Divider
	Delay      *Delay
	HSpace     *HSpace
	Reference  *Reference
}

// SequenceDiagram is the fully parsed model for one sequence diagram.
type SequenceDiagram struct {
	Title        string
	AutoNumber   bool
	Participants *orderedmap.OrderedMap[string, *Participant]
	Elements     []Element
	Boxes        []Box
}

// NewSequenceDiagram returns an empty diagram ready for parsing.
func NewSequenceDiagram() *SequenceDiagram {
	return &SequenceDiagram{
		Participants: orderedmap.New[string, *Participant](),
	}
}

// EnsureParticipant returns the participant with the given code,
// auto-creating it with TypeParticipant if it has not been declared yet.
// This is the "auto-creation on first reference" rule spec.md's parser
// contract requires for every family.
func (d *SequenceDiagram) EnsureParticipant(code string) *Participant {
	if p, ok := d.Participants.Get(code); ok {
		return p
	}
	p := &Participant{Code: code, DisplayName: code, Type: TypeParticipant}
	d.Participants.Set(code, p)
	return p
}

// OrderedParticipants returns participants in declaration order, unless
// one or more carry an explicit Order, in which case a stable sort by
// that value is applied (participants without an explicit order keep
// their relative position, sorted as if Order were +infinity).
func (d *SequenceDiagram) OrderedParticipants() []*Participant {
	out := make([]*Participant, 0, d.Participants.Len())
	anyOrder := false
	for pair := d.Participants.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
		if pair.Value.Order != nil {
			anyOrder = true
		}
	}
	if !anyOrder {
		return out
	}
	// stable insertion sort keyed on Order, nil sorts after everything
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && less(out[j], out[j-1]) {
			out[j], out[j-1] = out[j-1], out[j]
			j--
		}
	}
	return out
}

func less(a, b *Participant) bool {
	if a.Order == nil {
		return false
	}
	if b.Order == nil {
		return true
	}
	return *a.Order < *b.Order
}
