// Package harness implements the comparison harness described in
// spec.md §4.5: two regex-based extractors (one per XML vocabulary)
// project a draw.io candidate and a PlantUML reference SVG into a
// shared NormalizedDiagram, a two-phase greedy matcher pairs their
// elements, and a severity-classified diff produces a scored Report.
package harness

// Coarse TypeIndex buckets shared by both extractors, so a class-type
// mismatch (spec.md §4.5) is comparable across the draw.io/SVG divide
// without either side needing to recover the original EntityType.
const (
	KindGeneric = iota
	KindActor
	KindLifeline
	KindContainer
)

// NormalizedParticipant is a named, typed entity — a sequence
// participant, a class/component element, or a state.
type NormalizedParticipant struct {
	Name        string
	TypeIndex   int
	MemberCount int
}

// NormalizedEdge is a generic connection: a sequence message, a
// class/component relationship, or a state transition.
type NormalizedEdge struct {
	From      string
	To        string
	Label     string
	Dashed    bool
	ArrowType string
}

// NormalizedFragment is a sequence combined-fragment box (alt/loop/...).
type NormalizedFragment struct {
	Kind  string
	Label string
}

// NormalizedNote carries a note's text and rough position, independent
// of the family that produced it.
type NormalizedNote struct {
	Text     string
	Position string
}

// NormalizedDivider is a sequence divider/delay marker.
type NormalizedDivider struct {
	Label string
}

// NormalizedContainer is a class package or component container.
type NormalizedContainer struct {
	Name     string
	Children []string
}

// NormalizedPlayer is a timing-diagram lane, reduced to its segment
// boundary times for the timing-sort invariant (P6) and its label for
// matching.
type NormalizedPlayer struct {
	Name            string
	SegmentBoundary []float64
}

// NormalizedDiagram is the shared projection every family's extractors
// produce, regardless of whether the source was draw.io XML or
// PlantUML SVG.
type NormalizedDiagram struct {
	Family            string
	Participants      []NormalizedParticipant
	Edges             []NormalizedEdge
	Fragments         []NormalizedFragment
	Notes             []NormalizedNote
	Dividers          []NormalizedDivider
	Containers        []NormalizedContainer
	Players           []NormalizedPlayer
	ActivationCounts map[string]int
}

func newNormalizedDiagram(family string) *NormalizedDiagram {
	return &NormalizedDiagram{Family: family, ActivationCounts: make(map[string]int)}
}
