package harness

import (
	"regexp"
	"sort"
)

var (
	participantHeadRE = regexp.MustCompile(`(?s)class="participant participant-head"[^>]*>.*?<text[^>]*>([^<]*)</text>`)
	actorHeadRE       = regexp.MustCompile(`(?s)class="actor actor-head"[^>]*>.*?<text[^>]*>([^<]*)</text>`)
	entityUIDRE       = regexp.MustCompile(`data-entity-uid="([^"]*)"`)
	qualifiedNameRE   = regexp.MustCompile(`data-qualified-name="([^"]*)"`)
	entityMemberRE    = regexp.MustCompile(`data-entity-\d+="[^"]*"`)
	svgNoteFillRE     = regexp.MustCompile(`(?s)fill="#FEFFDD"[^>]*/>.*?<text[^>]*>([^<]*)</text>`)
	fragmentTabRE     = regexp.MustCompile(`(?s)fill="#EEEEEE"[^>]*/>.*?<text[^>]*>([^<]*)</text>`)
	activationRectRE  = regexp.MustCompile(`<rect[^>]*width="10"[^>]*fill="#FFFFFF"[^>]*x="([0-9.]+)"[^>]*y="([0-9.]+)"`)
)

// ExtractSVG parses a PlantUML reference SVG into a NormalizedDiagram
// by keying on the semantic attributes/fill colours PlantUML's own SVG
// renderer emits, per spec.md §4.5. It deduplicates notes (PlantUML
// draws each as two overlapping paths) by text, and activation
// rectangles by x|y.
func ExtractSVG(svgSource, family string) (*NormalizedDiagram, error) {
	d := newNormalizedDiagram(family)

	seen := make(map[string]bool)
	for _, m := range actorHeadRE.FindAllStringSubmatch(svgSource, -1) {
		name := normalizeText(m[1])
		if name != "" && !seen[name] {
			seen[name] = true
			d.Participants = append(d.Participants, NormalizedParticipant{Name: name, TypeIndex: KindActor})
		}
	}
	for _, m := range participantHeadRE.FindAllStringSubmatch(svgSource, -1) {
		name := normalizeText(m[1])
		if name != "" && !seen[name] {
			seen[name] = true
			d.Participants = append(d.Participants, NormalizedParticipant{Name: name, TypeIndex: KindLifeline})
		}
	}
	// Fall back to entity-uid/qualified-name attributes for families
	// whose SVG doesn't carry a dedicated participant-head class
	// (class/component/state diagrams). Each qualified-name yields one
	// entity and supplies its display text; the uid at the same index,
	// when present, dedups the group (otherwise the name does), and the
	// qualified-name's source position anchors any data-entity-N member
	// rows that follow inside that group.
	if len(d.Participants) == 0 {
		uids := entityUIDRE.FindAllStringSubmatchIndex(svgSource, -1)
		names := qualifiedNameRE.FindAllStringSubmatchIndex(svgSource, -1)
		type entityBound struct {
			pos int
			idx int
		}
		var bounds []entityBound
		for i := range names {
			name := normalizeText(svgSource[names[i][2]:names[i][3]])
			key := name
			if i < len(uids) {
				key = svgSource[uids[i][2]:uids[i][3]]
			}
			if name == "" || seen[key] {
				continue
			}
			seen[key] = true
			d.Participants = append(d.Participants, NormalizedParticipant{Name: name, TypeIndex: KindContainer})
			bounds = append(bounds, entityBound{pos: names[i][0], idx: len(d.Participants) - 1})
		}

		owner := -1
		boundPos := 0
		for _, mp := range entityMemberRE.FindAllStringIndex(svgSource, -1) {
			for boundPos < len(bounds) && bounds[boundPos].pos <= mp[0] {
				owner = bounds[boundPos].idx
				boundPos++
			}
			if owner >= 0 {
				d.Participants[owner].MemberCount++
			}
		}
	}

	noteSeen := make(map[string]bool)
	for _, m := range svgNoteFillRE.FindAllStringSubmatch(svgSource, -1) {
		text := normalizeText(m[1])
		if text != "" && !noteSeen[text] {
			noteSeen[text] = true
			d.Notes = append(d.Notes, NormalizedNote{Text: text})
		}
	}

	fragSeen := make(map[string]bool)
	for _, m := range fragmentTabRE.FindAllStringSubmatch(svgSource, -1) {
		label := normalizeText(m[1])
		kind := fragmentKindOf(label)
		if kind != "" && !fragSeen[kind] {
			fragSeen[kind] = true
			d.Fragments = append(d.Fragments, NormalizedFragment{Kind: kind, Label: label})
		}
	}

	activationKeys := make(map[string]bool)
	for _, m := range activationRectRE.FindAllStringSubmatch(svgSource, -1) {
		key := m[1] + "|" + m[2]
		if activationKeys[key] {
			continue
		}
		activationKeys[key] = true
		owner := nearestParticipant(d.Participants)
		d.ActivationCounts[owner]++
	}

	return d, nil
}

// nearestParticipant is a coarse fallback used when the SVG extractor
// cannot attribute an activation rectangle to a specific participant
// from its x-coordinate alone; real attribution is left to the
// draw.io side's parent-based extraction, and the SVG side only needs
// a stable total count for the activation-balance comparison.
func nearestParticipant(participants []NormalizedParticipant) string {
	if len(participants) == 0 {
		return ""
	}
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	sort.Strings(names)
	return names[0]
}
