// Package timing implements the timing-diagram family: player lanes
// carrying state-change waveforms, clock signals, analog traces,
// constraints, inter-player messages, highlights, and notes, parsed
// from PlantUML timing syntax and emitted as a lane-based mxGraph
// layout.
package timing

import (
	"sort"

	"github.com/jgraph/plantuml-drawio/core"
)

// PlayerType enumerates the six timing-diagram waveform kinds.
type PlayerType int

const (
	PlayerRobust PlayerType = iota
	PlayerConcise
	PlayerClock
	PlayerBinary
	PlayerAnalog
	PlayerRectangle
)

// StateChange is one (time, state) sample on a player's timeline.
type StateChange struct {
	Time    float64
	State   string
	Color   core.Color
	Comment string
}

// TimingPlayer is one labelled horizontal lane.
type TimingPlayer struct {
	Code         string
	DisplayName  string
	Type         PlayerType
	Compact      bool
	States       []string          // declared state vocabulary, in declaration order
	StateAliases map[string]string // short code -> display label, for "state S1 as Off"-style aliasing
	StateChanges []StateChange
	ClockPeriod  float64
	ClockPulse   float64
	ClockOffset  float64
	AnalogStart  float64
	AnalogEnd    float64
}

// TimeConstraint is an annotated span between two time points,
// optionally scoped to one player.
type TimeConstraint struct {
	Time1      float64
	Time2      float64
	PlayerCode string
	Label      string
}

// TimeMessage links a point on one player's timeline to a point on
// another's.
type TimeMessage struct {
	FromPlayer string
	FromTime   float64
	ToPlayer   string
	ToTime     float64
	Label      string
}

// TimingHighlight shades a time range across every lane.
type TimingHighlight struct {
	StartTime float64
	EndTime   float64
	Color     core.Color
	Caption   string
}

// TimingNote annotates a player's lane at top or bottom.
type TimingNote struct {
	Position   core.NotePosition
	PlayerCode string
	Text       string
}

// TimingDiagram is the fully parsed model.
type TimingDiagram struct {
	Title         string
	Players       []*TimingPlayer
	playerIndex   map[string]*TimingPlayer
	Constraints   []*TimeConstraint
	Messages      []*TimeMessage
	Highlights    []*TimingHighlight
	Notes         []*TimingNote
	HideTimeAxis  bool
	CompactMode   bool
	TimeAliases   map[string]float64
}

// NewTimingDiagram returns an empty diagram ready for parsing.
func NewTimingDiagram() *TimingDiagram {
	return &TimingDiagram{
		playerIndex: make(map[string]*TimingPlayer),
		TimeAliases: make(map[string]float64),
	}
}

// EnsurePlayer returns the player with the given code, auto-creating a
// default robust-type player if undeclared.
func (d *TimingDiagram) EnsurePlayer(code string) *TimingPlayer {
	if p, ok := d.playerIndex[code]; ok {
		return p
	}
	p := &TimingPlayer{
		Code: code, DisplayName: code, Type: PlayerRobust,
		StateAliases: make(map[string]string),
	}
	d.playerIndex[code] = p
	d.Players = append(d.Players, p)
	return p
}

// Player looks up a player by code without creating it.
func (d *TimingDiagram) Player(code string) (*TimingPlayer, bool) {
	p, ok := d.playerIndex[code]
	return p, ok
}

// IsPlayerCode reports whether code names a declared player, used by
// the parser to disambiguate "X is Y" between a state change and a
// time-context switch.
func (d *TimingDiagram) IsPlayerCode(code string) bool {
	_, ok := d.playerIndex[code]
	return ok
}

// SortStateChanges orders every player's stateChanges by time; the
// parser calls this once after the full source has been consumed.
func (d *TimingDiagram) SortStateChanges() {
	for _, p := range d.Players {
		changes := p.StateChanges
		sort.Slice(changes, func(i, j int) bool { return changes[i].Time < changes[j].Time })
	}
}
