package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffMissingParticipantIsBlocking(t *testing.T) {
	match := &MatchResult{
		Participants: []MatchedParticipant{
			{Reference: &NormalizedParticipant{Name: "alice"}},
		},
	}
	issues := Diff(match)
	assert := assert.New(t)
	assert.Len(issues, 1)
	assert.Equal(Blocking, issues[0].Severity)
}

func TestDiffArrowStyleMismatchIsImportant(t *testing.T) {
	ref := &NormalizedEdge{From: "a", To: "b", Label: "x", ArrowType: "filled"}
	cand := &NormalizedEdge{From: "a", To: "b", Label: "x", ArrowType: "open"}
	match := &MatchResult{
		Edges: []MatchedEdge{{Reference: ref, Candidate: cand, Connected: true}},
	}
	issues := Diff(match)
	assert := assert.New(t)
	assert.Len(issues, 1)
	assert.Equal(Important, issues[0].Severity)
}

func TestDiffWrongConnectivityIsBlocking(t *testing.T) {
	ref := &NormalizedEdge{From: "a", To: "b", Label: "x"}
	cand := &NormalizedEdge{From: "a", To: "c", Label: "x"}
	match := &MatchResult{
		Edges: []MatchedEdge{{Reference: ref, Candidate: cand, Connected: false}},
	}
	issues := Diff(match)
	assert := assert.New(t)
	assert.Len(issues, 1)
	assert.Equal(Blocking, issues[0].Severity)
}

func TestDiffClassTypeAndMemberCountMismatchAreImportant(t *testing.T) {
	match := &MatchResult{
		Participants: []MatchedParticipant{
			{
				Reference: &NormalizedParticipant{Name: "order", TypeIndex: KindContainer, MemberCount: 2},
				Candidate: &NormalizedParticipant{Name: "order", TypeIndex: KindGeneric, MemberCount: 1},
			},
		},
	}
	issues := Diff(match)
	assert := assert.New(t)
	assert.Len(issues, 2)
	assert.Equal(Important, issues[0].Severity)
	assert.Equal(Important, issues[1].Severity)
}

func TestDiffFragmentTypeMismatchIsImportant(t *testing.T) {
	match := &MatchResult{
		Fragments: []MatchedFragment{
			{Reference: &NormalizedFragment{Kind: "alt"}},
			{Candidate: &NormalizedFragment{Kind: "loop"}},
		},
	}
	issues := Diff(match)
	assert := assert.New(t)
	assert.Len(issues, 2)
	assert.Equal(Important, issues[0].Severity)
	assert.Equal(Important, issues[1].Severity)
}

func TestDiffActivationsMismatchIsImportant(t *testing.T) {
	ref := newNormalizedDiagram("sequence")
	ref.ActivationCounts["alice"] = 2
	cand := newNormalizedDiagram("sequence")
	cand.ActivationCounts["alice"] = 1

	issues := DiffActivations(ref, cand)
	assert := assert.New(t)
	assert.Len(issues, 1)
	assert.Equal(Important, issues[0].Severity)
}

func TestDiffNotesAndDividersCosmetic(t *testing.T) {
	ref := newNormalizedDiagram("sequence")
	ref.Notes = []NormalizedNote{{Text: "a"}}
	cand := newNormalizedDiagram("sequence")

	issues := DiffNotesAndDividers(ref, cand)
	assert := assert.New(t)
	assert.Len(issues, 1)
	assert.Equal(Cosmetic, issues[0].Severity)
}
