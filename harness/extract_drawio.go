package harness

import (
	"encoding/xml"
	"regexp"
	"strings"
)

type drawioCell struct {
	ID     string `xml:"id,attr"`
	Value  string `xml:"value,attr"`
	Style  string `xml:"style,attr"`
	Vertex string `xml:"vertex,attr"`
	Edge   string `xml:"edge,attr"`
	Parent string `xml:"parent,attr"`
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

type drawioDoc struct {
	XMLName xml.Name     `xml:"mxfile"`
	Cells   []drawioCell `xml:"diagram>mxGraphModel>root>mxCell"`
}

var (
	lifelineStyleRE   = regexp.MustCompile(`shape=umlLifeline`)
	actorStyleRE      = regexp.MustCompile(`shape=umlActor`)
	containerStyleRE  = regexp.MustCompile(`container=1|swimlane`)
	noteStyleRE       = regexp.MustCompile(`shape=note`)
	dashedStyleRE     = regexp.MustCompile(`dashed=1`)
	filledHeadRE      = regexp.MustCompile(`endArrow=block;endFill=1`)
	openHeadRE        = regexp.MustCompile(`endArrow=open`)
	activationStyleRE = regexp.MustCompile(`fillColor=#[0-9A-Fa-f]{6};strokeColor`)
	// fragmentStyleRE keys on the fillColor=none;...;horizontal=0 pair
	// unique to sequence/style.go's fragmentStyle() — entityStyle()'s
	// swimlanes also set verticalAlign=top, but never horizontal=0.
	fragmentStyleRE = regexp.MustCompile(`fillColor=none.*horizontal=0`)
)

// ExtractDrawio parses draw.io mxGraph XML (the converter's own output
// format) into a NormalizedDiagram by keying on known style
// substrings, per spec.md §4.5.
func ExtractDrawio(xmlSource, family string) (*NormalizedDiagram, error) {
	var doc drawioDoc
	if err := xml.Unmarshal([]byte(xmlSource), &doc); err != nil {
		return nil, err
	}
	d := newNormalizedDiagram(family)

	byID := make(map[string]drawioCell, len(doc.Cells))
	for _, c := range doc.Cells {
		byID[c.ID] = c
	}

	seenParticipant := make(map[string]bool)
	containerIdx := make(map[string]int)
	for _, c := range doc.Cells {
		if c.Vertex != "1" {
			continue
		}
		name := normalizeText(c.Value)
		switch {
		case fragmentStyleRE.MatchString(c.Style):
			d.Fragments = append(d.Fragments, NormalizedFragment{Kind: fragmentKindOf(name), Label: name})
		case lifelineStyleRE.MatchString(c.Style) || actorStyleRE.MatchString(c.Style):
			if name != "" && !seenParticipant[name] {
				seenParticipant[name] = true
				kind := KindLifeline
				if actorStyleRE.MatchString(c.Style) {
					kind = KindActor
				}
				d.Participants = append(d.Participants, NormalizedParticipant{Name: name, TypeIndex: kind})
			}
		case activationStyleRE.MatchString(c.Style):
			owner := normalizeText(byID[c.Parent].Value)
			d.ActivationCounts[owner]++
		case noteStyleRE.MatchString(c.Style):
			d.Notes = append(d.Notes, NormalizedNote{Text: name})
		case containerStyleRE.MatchString(c.Style):
			d.Containers = append(d.Containers, NormalizedContainer{Name: name})
			if name != "" && !seenParticipant[name] {
				seenParticipant[name] = true
				d.Participants = append(d.Participants, NormalizedParticipant{Name: name, TypeIndex: KindContainer})
				containerIdx[c.ID] = len(d.Participants) - 1
			}
		default:
			if name != "" && !seenParticipant[name] {
				seenParticipant[name] = true
				d.Participants = append(d.Participants, NormalizedParticipant{Name: name})
			}
		}
	}

	// Member rows are direct vertex children of a container-classified
	// cell (class/map/json swimlane body rows); counted here rather
	// than in the classification loop above since a row's parent may
	// not have been visited yet when the row cell itself is visited.
	for _, c := range doc.Cells {
		if c.Vertex != "1" {
			continue
		}
		if idx, ok := containerIdx[c.Parent]; ok {
			d.Participants[idx].MemberCount++
		}
	}

	for _, c := range doc.Cells {
		if c.Edge != "1" {
			continue
		}
		from := byID[c.Source].Value
		to := byID[c.Target].Value
		d.Edges = append(d.Edges, NormalizedEdge{
			From:      normalizeText(from),
			To:        normalizeText(to),
			Label:     normalizeText(c.Value),
			Dashed:    dashedStyleRE.MatchString(c.Style),
			ArrowType: arrowTypeOf(c.Style),
		})
	}

	return d, nil
}

// fragmentKindOf extracts the keyword ("alt", "loop", ...) from a
// fragment header's normalized text, matching sequence/emitter.go's
// `fmt.Sprintf("%s [%s]", fragmentKeyword(f.Type), condition)` format.
func fragmentKindOf(label string) string {
	if i := strings.Index(label, "["); i >= 0 {
		return strings.TrimSpace(label[:i])
	}
	return label
}

func arrowTypeOf(style string) string {
	switch {
	case filledHeadRE.MatchString(style):
		return "filled"
	case openHeadRE.MatchString(style):
		return "open"
	default:
		return "none"
	}
}

// normalizeText lowercases, HTML-decodes <br> to a space, and collapses
// whitespace, matching the matcher's "normalized-text key" contract
// (spec.md §4.5).
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "<br>", " ")
	s = strings.ToLower(s)
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
