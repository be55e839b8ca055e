package harness

// MatchedParticipant pairs a reference participant with its candidate
// counterpart, or records that one side had no match.
type MatchedParticipant struct {
	Reference *NormalizedParticipant
	Candidate *NormalizedParticipant
}

// MatchedEdge pairs a reference edge with a candidate edge. Connected
// is false when the pairing came from the label-only fallback pass,
// meaning the endpoints differ between reference and candidate.
type MatchedEdge struct {
	Reference  *NormalizedEdge
	Candidate  *NormalizedEdge
	Connected  bool
}

// MatchedFragment pairs a reference combined-fragment with its
// candidate counterpart, matched by kind (the fragment keyword).
type MatchedFragment struct {
	Reference *NormalizedFragment
	Candidate *NormalizedFragment
}

// MatchResult is the output of matching two NormalizedDiagrams.
type MatchResult struct {
	Participants []MatchedParticipant
	Edges        []MatchedEdge
	Fragments    []MatchedFragment
}

// MatchDiagrams runs the two-phase greedy matcher from spec.md §4.5:
// participants (and by extension class/component/state entities) and
// fragments are matched by exact normalized-text key; messages are
// matched the same way first, then a second pass pairs any
// still-unmatched messages by label alone so a connectivity mismatch
// still surfaces as a paired issue rather than two orphaned entries.
func MatchDiagrams(reference, candidate *NormalizedDiagram) *MatchResult {
	res := &MatchResult{}

	candParticipants := make([]*NormalizedParticipant, len(candidate.Participants))
	for i := range candidate.Participants {
		candParticipants[i] = &candidate.Participants[i]
	}
	usedParticipant := make([]bool, len(candParticipants))

	for i := range reference.Participants {
		ref := &reference.Participants[i]
		matched := false
		for j, cand := range candParticipants {
			if usedParticipant[j] {
				continue
			}
			if cand.Name == ref.Name {
				res.Participants = append(res.Participants, MatchedParticipant{Reference: ref, Candidate: cand})
				usedParticipant[j] = true
				matched = true
				break
			}
		}
		if !matched {
			res.Participants = append(res.Participants, MatchedParticipant{Reference: ref})
		}
	}
	for j, cand := range candParticipants {
		if !usedParticipant[j] {
			res.Participants = append(res.Participants, MatchedParticipant{Candidate: cand})
		}
	}

	candEdges := make([]*NormalizedEdge, len(candidate.Edges))
	for i := range candidate.Edges {
		candEdges[i] = &candidate.Edges[i]
	}
	usedEdge := make([]bool, len(candEdges))

	var unmatchedRef []*NormalizedEdge
	for i := range reference.Edges {
		ref := &reference.Edges[i]
		matched := false
		for j, cand := range candEdges {
			if usedEdge[j] {
				continue
			}
			if cand.From == ref.From && cand.To == ref.To && cand.Label == ref.Label {
				res.Edges = append(res.Edges, MatchedEdge{Reference: ref, Candidate: cand, Connected: true})
				usedEdge[j] = true
				matched = true
				break
			}
		}
		if !matched {
			unmatchedRef = append(unmatchedRef, ref)
		}
	}

	for _, ref := range unmatchedRef {
		matched := false
		for j, cand := range candEdges {
			if usedEdge[j] {
				continue
			}
			if cand.Label == ref.Label && ref.Label != "" {
				res.Edges = append(res.Edges, MatchedEdge{Reference: ref, Candidate: cand, Connected: false})
				usedEdge[j] = true
				matched = true
				break
			}
		}
		if !matched {
			res.Edges = append(res.Edges, MatchedEdge{Reference: ref})
		}
	}
	for j, cand := range candEdges {
		if !usedEdge[j] {
			res.Edges = append(res.Edges, MatchedEdge{Candidate: cand})
		}
	}

	candFragments := make([]*NormalizedFragment, len(candidate.Fragments))
	for i := range candidate.Fragments {
		candFragments[i] = &candidate.Fragments[i]
	}
	usedFragment := make([]bool, len(candFragments))

	for i := range reference.Fragments {
		ref := &reference.Fragments[i]
		matched := false
		for j, cand := range candFragments {
			if usedFragment[j] {
				continue
			}
			if cand.Kind == ref.Kind {
				res.Fragments = append(res.Fragments, MatchedFragment{Reference: ref, Candidate: cand})
				usedFragment[j] = true
				matched = true
				break
			}
		}
		if !matched {
			res.Fragments = append(res.Fragments, MatchedFragment{Reference: ref})
		}
	}
	for j, cand := range candFragments {
		if !usedFragment[j] {
			res.Fragments = append(res.Fragments, MatchedFragment{Candidate: cand})
		}
	}

	return res
}
