package harness

// Severity classifies how much an issue matters to the converter's
// correctness, per spec.md §4.5.
type Severity int

const (
	Cosmetic Severity = iota
	Important
	Blocking
)

func (s Severity) String() string {
	switch s {
	case Blocking:
		return "blocking"
	case Important:
		return "important"
	default:
		return "cosmetic"
	}
}

// Issue is one diff finding between a reference and a candidate
// diagram.
type Issue struct {
	Severity Severity
	Message  string
}

// Diff compares a matched reference/candidate pair and produces a
// severity-classified issue list, per spec.md §4.5's blocking/
// important/cosmetic table.
func Diff(match *MatchResult) []Issue {
	var issues []Issue

	for _, mp := range match.Participants {
		switch {
		case mp.Reference != nil && mp.Candidate == nil:
			issues = append(issues, Issue{Blocking, "missing participant: " + mp.Reference.Name})
		case mp.Reference == nil && mp.Candidate != nil:
			issues = append(issues, Issue{Blocking, "extra participant: " + mp.Candidate.Name})
		case mp.Reference != nil && mp.Candidate != nil:
			if mp.Reference.TypeIndex != mp.Candidate.TypeIndex {
				issues = append(issues, Issue{Important, "class type mismatch for " + mp.Reference.Name})
			}
			if mp.Reference.MemberCount != mp.Candidate.MemberCount {
				issues = append(issues, Issue{Important, "member count mismatch for " + mp.Reference.Name})
			}
		}
	}

	for _, mf := range match.Fragments {
		switch {
		case mf.Reference != nil && mf.Candidate == nil:
			issues = append(issues, Issue{Important, "fragment-type mismatch: missing " + mf.Reference.Kind})
		case mf.Reference == nil && mf.Candidate != nil:
			issues = append(issues, Issue{Important, "fragment-type mismatch: extra " + mf.Candidate.Kind})
		}
	}

	for _, me := range match.Edges {
		switch {
		case me.Reference != nil && me.Candidate == nil:
			issues = append(issues, Issue{Blocking, "missing message: " + me.Reference.Label})
		case me.Reference == nil && me.Candidate != nil:
			issues = append(issues, Issue{Blocking, "extra message: " + me.Candidate.Label})
		case me.Reference != nil && me.Candidate != nil:
			if !me.Connected {
				issues = append(issues, Issue{Blocking, "wrong connectivity for message: " + me.Reference.Label})
				continue
			}
			if me.Reference.ArrowType != me.Candidate.ArrowType || me.Reference.Dashed != me.Candidate.Dashed {
				issues = append(issues, Issue{Important, "arrow style mismatch for message: " + me.Reference.Label})
			}
		}
	}

	return issues
}

// DiffActivations compares per-participant activation counts between
// a reference and candidate diagram; spec.md §4.5 classifies an
// activation-count mismatch as important.
func DiffActivations(reference, candidate *NormalizedDiagram) []Issue {
	var issues []Issue
	for name, refCount := range reference.ActivationCounts {
		if candidate.ActivationCounts[name] != refCount {
			issues = append(issues, Issue{Important, "activation bar count mismatch for " + name})
		}
	}
	for name, candCount := range candidate.ActivationCounts {
		if _, ok := reference.ActivationCounts[name]; !ok && candCount > 0 {
			issues = append(issues, Issue{Important, "activation bar count mismatch for " + name})
		}
	}
	return issues
}

// DiffNotesAndDividers compares note, divider and container counts:
// note and divider mismatches are cosmetic; a container missing from
// the candidate is important and an extra one is cosmetic.
func DiffNotesAndDividers(reference, candidate *NormalizedDiagram) []Issue {
	var issues []Issue
	if len(reference.Notes) != len(candidate.Notes) {
		issues = append(issues, Issue{Cosmetic, "note count mismatch"})
	}
	if len(reference.Dividers) != len(candidate.Dividers) {
		issues = append(issues, Issue{Cosmetic, "divider count mismatch"})
	}
	switch {
	case len(candidate.Containers) < len(reference.Containers):
		issues = append(issues, Issue{Important, "missing container"})
	case len(candidate.Containers) > len(reference.Containers):
		issues = append(issues, Issue{Cosmetic, "extra container"})
	}
	return issues
}
