package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchDiagramsExactParticipants(t *testing.T) {
	ref := newNormalizedDiagram("sequence")
	ref.Participants = []NormalizedParticipant{{Name: "alice"}, {Name: "bob"}}
	cand := newNormalizedDiagram("sequence")
	cand.Participants = []NormalizedParticipant{{Name: "bob"}, {Name: "carol"}}

	m := MatchDiagrams(ref, cand)
	require.Len(t, m.Participants, 3)

	var missing, extra, matched int
	for _, mp := range m.Participants {
		switch {
		case mp.Reference != nil && mp.Candidate == nil:
			missing++
		case mp.Reference == nil && mp.Candidate != nil:
			extra++
		default:
			matched++
		}
	}
	assert.Equal(t, 1, missing)
	assert.Equal(t, 1, extra)
	assert.Equal(t, 1, matched)
}

func TestMatchDiagramsEdgeLabelFallback(t *testing.T) {
	ref := newNormalizedDiagram("sequence")
	ref.Edges = []NormalizedEdge{{From: "alice", To: "bob", Label: "ping"}}
	cand := newNormalizedDiagram("sequence")
	cand.Edges = []NormalizedEdge{{From: "alice", To: "carol", Label: "ping"}}

	m := MatchDiagrams(ref, cand)
	require.Len(t, m.Edges, 1)
	assert.False(t, m.Edges[0].Connected)
	assert.Equal(t, "bob", m.Edges[0].Reference.To)
	assert.Equal(t, "carol", m.Edges[0].Candidate.To)
}

func TestMatchDiagramsFragmentsByKind(t *testing.T) {
	ref := newNormalizedDiagram("sequence")
	ref.Fragments = []NormalizedFragment{{Kind: "alt"}, {Kind: "loop"}}
	cand := newNormalizedDiagram("sequence")
	cand.Fragments = []NormalizedFragment{{Kind: "loop"}, {Kind: "opt"}}

	m := MatchDiagrams(ref, cand)
	require.Len(t, m.Fragments, 3)

	var missing, extra, matched int
	for _, mf := range m.Fragments {
		switch {
		case mf.Reference != nil && mf.Candidate == nil:
			missing++
		case mf.Reference == nil && mf.Candidate != nil:
			extra++
		default:
			matched++
		}
	}
	assert.Equal(t, 1, missing)
	assert.Equal(t, 1, extra)
	assert.Equal(t, 1, matched)
}

func TestMatchDiagramsExactEdgeMatchPreferredOverFallback(t *testing.T) {
	ref := newNormalizedDiagram("sequence")
	ref.Edges = []NormalizedEdge{{From: "alice", To: "bob", Label: "ping"}}
	cand := newNormalizedDiagram("sequence")
	cand.Edges = []NormalizedEdge{{From: "alice", To: "bob", Label: "ping"}}

	m := MatchDiagrams(ref, cand)
	require.Len(t, m.Edges, 1)
	assert.True(t, m.Edges[0].Connected)
}
