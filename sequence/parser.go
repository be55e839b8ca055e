package sequence

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jgraph/plantuml-drawio/core"
)

// parserState tags the small multi-line state machine the parser holds,
// matching the NORMAL/MULTILINE_NOTE convention spec.md's parser
// contract describes for every family.
type parserState int

const (
	stateNormal parserState = iota
	stateMultilineNote
)

// participantKeywords is the classifier table for participant
// declarations. Lookups compare the whole first word for equality, so
// the table's order does not affect which entry matches.
var participantKeywords = []struct {
	keyword string
	typ     ParticipantType
}{
	{"participant", TypeParticipant},
	{"actor", TypeActor},
	{"boundary", TypeBoundary},
	{"control", TypeControl},
	{"entity", TypeEntity},
	{"queue", TypeQueue},
	{"database", TypeDatabase},
	{"collections", TypeCollections},
}

var participantDeclRE = regexp.MustCompile(
	`^(participant|actor|boundary|control|entity|queue|database|collections)\s+` +
		`(?:"([^"]+)"|(\S+))` +
		`(?:\s+as\s+(\S+))?` +
		`(?:\s+order\s+(\d+))?` +
		`(?:\s+(#[0-9A-Za-z]+))?\s*$`)

var fragmentKeywords = map[string]FragmentType{
	"alt":      FragAlt,
	"loop":     FragLoop,
	"opt":      FragOpt,
	"par":      FragPar,
	"break":    FragBreak,
	"critical": FragCritical,
	"group":    FragGroup,
}

var fragmentStartRE = regexp.MustCompile(`^(alt|loop|opt|par|break|critical|group)\b\s*(.*)$`)
var fragmentElseRE = regexp.MustCompile(`^(else|and)\b\s*(.*)$`)

// arrowRE splits a message line into left participant, arrow token,
// right participant, an optional activation suffix (++, --, **, !!),
// and trailing ": label". Participant names may be quoted or bare
// words; the arrow token is greedily the run of arrow-ish characters
// between them.
var arrowRE = regexp.MustCompile(
	`^(\[?)(?:"([^"]+)"|(\S+))?\s*` +
		`([<>ox.\-=]{2,}(?:\[#?[A-Za-z0-9]*(?:,\s*(?:dashed|dotted|bold|hidden))?\])?[<>ox.\-=]*)` +
		`\s*(?:"([^"]+)"|(\S+))?(\]?)\s*((?:\+\+|--|\*\*|!!)*)\s*(?::\s*(.*))?$`)

var noteRE = regexp.MustCompile(`(?i)^(note|hnote|rnote)\s+(left|right|top|bottom|over)\s*(?:of\s+)?(.*?)\s*:\s*(.*)$`)
var noteMultilineStartRE = regexp.MustCompile(`(?i)^(note|hnote|rnote)\s+(left|right|top|bottom|over)\s*(?:of\s+)?(.*?)\s*$`)
var noteEndRE = regexp.MustCompile(`^end\s*(note|hnote|rnote)?$`)
var autonumberRE = regexp.MustCompile(`^autonumber(?:\s+(\d+))?(?:\s+(\d+))?(?:\s+"([^"]*)")?$`)
var dividerRE = regexp.MustCompile(`^==\s*(.*?)\s*==$`)
var delayRE = regexp.MustCompile(`^\.\.\.(.*?)\.\.\.$`)
var boxStartRE = regexp.MustCompile(`^box\s*(?:"([^"]*)")?\s*(#[0-9A-Za-z]+)?\s*$`)
var activationSuffixRE = regexp.MustCompile(`(\+\+|--|\*\*|!!)+$`)
var refRE = regexp.MustCompile(`^ref\s+over\s+([^:]+?)\s*:\s*(.*)$`)
var titleRE = regexp.MustCompile(`^title\s+(.*)$`)

// Parser holds the mutable state for one parse of a sequence diagram.
type Parser struct {
	diagram    *SequenceDiagram
	state      parserState
	fragStack  []*Fragment
	sectionIdx []int // current section index within each open fragment
	boxStack   []*Box
	activeBox  []string // participants collected for the open box

	pendingNoteLines []string
	pendingNoteMeta  Note

	autoNum      bool
	autoCounter  int
}

// Parse parses full PlantUML sequence-diagram source into a model.
// It never returns an error: unrecognised lines are silently skipped,
// per spec.md's parser tie-breaking rule.
func Parse(source string) *SequenceDiagram {
	p := &Parser{diagram: NewSequenceDiagram()}
	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		p.handleLine(line)
	}
	return p.diagram
}

func (p *Parser) handleLine(line string) {
	if p.state == stateMultilineNote {
		if noteEndRE.MatchString(strings.ToLower(line)) {
			note := p.pendingNoteMeta
			note.Text = strings.Join(p.pendingNoteLines, "\n")
			p.appendElement(Element{Note: &note})
			p.pendingNoteLines = nil
			p.state = stateNormal
			return
		}
		p.pendingNoteLines = append(p.pendingNoteLines, line)
		return
	}

	if line == "" || isComment(line) || isStartEndMarker(line) {
		return
	}

	switch {
	case p.tryTitle(line):
	case p.tryAutonumber(line):
	case p.tryBoxStart(line):
	case strings.EqualFold(line, "end box"):
		p.endBox()
	case p.tryParticipantDecl(line):
	case p.tryFragmentStart(line):
	case p.tryFragmentElse(line):
	case strings.EqualFold(line, "end"):
		p.endFragment()
	case p.tryDivider(line):
	case p.tryDelay(line):
	case p.tryHSpace(line):
	case p.tryNote(line):
	case p.tryNoteMultilineStart(line):
	case p.tryReference(line):
	case p.tryLifeEventStandalone(line):
	case p.tryReturn(line):
	case p.tryMessage(line):
	default:
		// unrecognised line: skip per the parser's tolerance contract
	}
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "'") || strings.HasPrefix(line, "/'") || strings.HasSuffix(line, "'/")
}

func isStartEndMarker(line string) bool {
	return strings.HasPrefix(line, "@start") || strings.HasPrefix(line, "@end")
}

func (p *Parser) appendElement(e Element) {
	if len(p.fragStack) == 0 {
		p.diagram.Elements = append(p.diagram.Elements, e)
		return
	}
	top := p.fragStack[len(p.fragStack)-1]
	idx := len(top.Sections) - 1
	top.Sections[idx].Elements = append(top.Sections[idx].Elements, e)
}

func (p *Parser) tryTitle(line string) bool {
	m := titleRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	p.diagram.Title = m[1]
	return true
}

func (p *Parser) tryAutonumber(line string) bool {
	lower := strings.ToLower(line)
	if lower == "autonumber stop" {
		p.autoNum = false
		return true
	}
	if lower == "autonumber resume" {
		p.autoNum = true
		return true
	}
	m := autonumberRE.FindStringSubmatch(lower)
	if m == nil {
		return false
	}
	p.autoNum = true
	p.diagram.AutoNumber = true
	if m[1] != "" {
		p.autoCounter, _ = strconv.Atoi(m[1])
	}
	return true
}

func (p *Parser) tryBoxStart(line string) bool {
	m := boxStartRE.FindStringSubmatch(line)
	if m == nil || !strings.HasPrefix(strings.ToLower(line), "box") {
		return false
	}
	b := &Box{Title: m[1], Color: core.Color(m[2])}
	p.boxStack = append(p.boxStack, b)
	p.activeBox = append(p.activeBox, "")
	return true
}

func (p *Parser) endBox() {
	if len(p.boxStack) == 0 {
		return
	}
	b := p.boxStack[len(p.boxStack)-1]
	p.boxStack = p.boxStack[:len(p.boxStack)-1]
	p.activeBox = p.activeBox[:len(p.activeBox)-1]
	p.diagram.Boxes = append(p.diagram.Boxes, *b)
}

// trackBoxMembership records a participant reference against the
// currently open box, if any.
func (p *Parser) trackBoxMembership(code string) {
	if len(p.boxStack) == 0 {
		return
	}
	b := p.boxStack[len(p.boxStack)-1]
	for _, existing := range b.Participants {
		if existing == code {
			return
		}
	}
	b.Participants = append(b.Participants, code)
}

func (p *Parser) tryParticipantDecl(line string) bool {
	lowerFirst := strings.ToLower(firstWord(line))
	found := false
	for _, kw := range participantKeywords {
		if kw.keyword == lowerFirst {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	m := participantDeclRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	var typ ParticipantType
	for _, kw := range participantKeywords {
		if kw.keyword == strings.ToLower(m[1]) {
			typ = kw.typ
			break
		}
	}
	display := m[2]
	if display == "" {
		display = m[3]
	}
	code := m[4]
	if code == "" {
		code = display
	}
	part := p.diagram.EnsureParticipant(code)
	part.Type = typ
	part.DisplayName = display
	if m[5] != "" {
		order, _ := strconv.Atoi(m[5])
		part.Order = &order
	}
	if m[6] != "" {
		part.Color = core.Color(m[6])
	}
	p.trackBoxMembership(code)
	return true
}

func (p *Parser) tryFragmentStart(line string) bool {
	m := fragmentStartRE.FindStringSubmatch(strings.ToLower(line))
	if m == nil {
		return false
	}
	typ, ok := fragmentKeywords[m[1]]
	if !ok {
		return false
	}
	// recover original-case label from the original line
	label := strings.TrimSpace(line[len(m[1]):])
	frag := &Fragment{Type: typ, Label: label, Sections: []FragmentSection{{Condition: label}}}
	p.appendElement(Element{Fragment: frag})
	p.fragStack = append(p.fragStack, frag)
	return true
}

func (p *Parser) tryFragmentElse(line string) bool {
	if len(p.fragStack) == 0 {
		return false
	}
	m := fragmentElseRE.FindStringSubmatch(strings.ToLower(line))
	if m == nil {
		return false
	}
	label := strings.TrimSpace(line[len(m[1]):])
	top := p.fragStack[len(p.fragStack)-1]
	top.Sections = append(top.Sections, FragmentSection{Condition: label})
	return true
}

func (p *Parser) endFragment() {
	if len(p.fragStack) == 0 {
		return
	}
	p.fragStack = p.fragStack[:len(p.fragStack)-1]
}

func (p *Parser) tryDivider(line string) bool {
	m := dividerRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	p.appendElement(Element{Divider: &Divider{Label: m[1]}})
	return true
}

func (p *Parser) tryDelay(line string) bool {
	m := delayRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	p.appendElement(Element{Delay: &Delay{Label: m[1]}})
	return true
}

func (p *Parser) tryHSpace(line string) bool {
	lower := strings.ToLower(line)
	if !strings.HasPrefix(lower, "|||") {
		return false
	}
	inner := strings.TrimSpace(strings.Trim(line, "|"))
	size, _ := strconv.Atoi(inner)
	p.appendElement(Element{HSpace: &HSpace{Size: size}})
	return true
}

func (p *Parser) tryNote(line string) bool {
	m := noteRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	// recover original-case text after the first ':'
	idx := strings.Index(line, ":")
	text := ""
	if idx >= 0 {
		text = strings.TrimSpace(line[idx+1:])
	}
	note := p.buildNoteMeta(strings.ToLower(m[1]), strings.ToLower(m[2]), m[3])
	note.Text = text
	p.appendElement(Element{Note: &note})
	return true
}

func (p *Parser) tryNoteMultilineStart(line string) bool {
	m := noteMultilineStartRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	p.pendingNoteMeta = p.buildNoteMeta(strings.ToLower(m[1]), strings.ToLower(m[2]), m[3])
	p.state = stateMultilineNote
	return true
}

func (p *Parser) buildNoteMeta(styleWord, posWord, who string) Note {
	var style NoteStyle
	switch styleWord {
	case "hnote":
		style = NoteStyleHexagon
	case "rnote":
		style = NoteStyleRounded
	default:
		style = NoteStyleNote
	}
	var pos core.NotePosition
	switch posWord {
	case "left":
		pos = core.NoteLeft
	case "right":
		pos = core.NoteRight
	case "top":
		pos = core.NoteTop
	case "bottom":
		pos = core.NoteBottom
	default:
		pos = core.NoteOver
	}
	isAcross := false
	var participants []string
	who = strings.TrimSpace(who)
	if strings.EqualFold(who, "all") || who == "" {
		isAcross = true
	} else {
		for _, name := range strings.Split(who, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				p.diagram.EnsureParticipant(name)
				participants = append(participants, name)
			}
		}
	}
	return Note{Participants: participants, Position: pos, Style: style, IsAcross: isAcross}
}

func (p *Parser) tryReference(line string) bool {
	m := refRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	var participants []string
	for _, name := range strings.Split(m[1], ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			p.diagram.EnsureParticipant(name)
			participants = append(participants, name)
		}
	}
	p.appendElement(Element{Reference: &Reference{Participants: participants, Text: m[2]}})
	return true
}

var standaloneLifeEventRE = regexp.MustCompile(`^(activate|deactivate|destroy)\s+(\S+)(?:\s+(#[0-9A-Fa-f]{3,8}))?$`)

func (p *Parser) tryLifeEventStandalone(line string) bool {
	m := standaloneLifeEventRE.FindStringSubmatch(strings.ToLower(line))
	if m == nil {
		return false
	}
	// recover original-case participant token
	fields := strings.Fields(line)
	code := fields[1]
	p.diagram.EnsureParticipant(code)
	var typ LifeEventType
	switch m[1] {
	case "activate":
		typ = EventActivate
	case "deactivate":
		typ = EventDeactivate
	case "destroy":
		typ = EventDestroy
	}
	p.appendElement(Element{LifeEvent: &LifeEvent{Participant: code, Type: typ, Color: core.Color(m[3])}})
	return true
}

var returnRE = regexp.MustCompile(`^return\b\s*(.*)$`)

func (p *Parser) tryReturn(line string) bool {
	m := returnRE.FindStringSubmatch(strings.ToLower(line))
	if m == nil {
		return false
	}
	text := strings.TrimSpace(line[len("return"):])
	p.appendElement(Element{Message: &Message{IsReturn: true, Label: text}})
	return true
}

func (p *Parser) tryMessage(line string) bool {
	body := line
	var trailingSuffix string
	if m := activationSuffixRE.FindString(strings.TrimRight(body, " ")); m != "" {
		trailingSuffix = m
		body = strings.TrimSuffix(strings.TrimRight(body, " "), m)
	}

	m := arrowRE.FindStringSubmatch(body)
	if m == nil || m[4] == "" {
		return false
	}
	leftBracket, rightBracket := m[1], m[7]
	fromLeft := m[2]
	if fromLeft == "" {
		fromLeft = m[3]
	}
	toRight := m[5]
	if toRight == "" {
		toRight = m[6]
	}
	if toRight == "" {
		// the arrow regex puts the right participant name in group 5
		// (quoted) or 6 (bare); if both are empty the line had no
		// right-hand participant, which makes it not a message.
		return false
	}
	if trailingSuffix == "" {
		trailingSuffix = m[8]
	}
	label := m[9]

	arrow := parseArrowToken(m[4])

	exo := leftBracket == "[" || rightBracket == "]"
	if exo {
		participant := fromLeft
		if participant == "" {
			participant = toRight
		}
		p.diagram.EnsureParticipant(participant)
		var et ExoType
		switch {
		case leftBracket == "[" && arrowPointsRight(arrow):
			et = ExoFromLeft
		case leftBracket == "[":
			et = ExoToLeft
		case rightBracket == "]" && arrowPointsRight(arrow):
			et = ExoToRight
		default:
			et = ExoFromRight
		}
		p.appendElement(Element{ExoMessage: &ExoMessage{Participant: participant, Label: label, Arrow: arrow, ExoType: et}})
		return true
	}

	if fromLeft == "" {
		return false
	}
	p.diagram.EnsureParticipant(fromLeft)
	p.diagram.EnsureParticipant(toRight)

	msg := &Message{From: fromLeft, To: toRight, Label: label, Arrow: arrow}
	p.appendSuffixEvents(msg, trailingSuffix, toRight)
	p.appendElement(Element{Message: msg})
	return true
}

func (p *Parser) appendSuffixEvents(msg *Message, suffix, target string) {
	if suffix == "" {
		return
	}
	for i := 0; i < len(suffix); i += 2 {
		tok := suffix[i : i+2]
		var ev LifeEvent
		ev.Participant = target
		switch tok {
		case "++":
			ev.Type = EventActivate
		case "--":
			ev.Type = EventDeactivate
		case "**":
			ev.Type = EventCreate
		case "!!":
			ev.Type = EventDestroy
		}
		msg.ActivateAfter = append(msg.ActivateAfter, ev)
	}
}

func arrowPointsRight(a ArrowConfig) bool {
	return a.Head2 != "" || !a.Bidirectional
}

var arrowColorRE = regexp.MustCompile(`\[#?([A-Za-z0-9]+)?(?:,\s*(dashed|dotted|bold|hidden))?\]`)

// parseArrowToken decomposes a raw arrow string (already isolated by
// arrowRE) into an ArrowConfig, per spec.md's parseArrow contract: body
// style from the repeated line character, heads from leading/trailing
// glyphs, inline [#color] / [style] fragments applied on top.
func parseArrowToken(token string) ArrowConfig {
	var cfg ArrowConfig
	cfg.Body = core.LineSolid

	if m := arrowColorRE.FindStringSubmatch(token); m != nil {
		if m[1] != "" {
			cfg.Color = core.Color("#" + m[1])
		}
		if m[2] != "" {
			switch m[2] {
			case "dashed":
				cfg.Body = core.LineDashed
			case "dotted":
				cfg.Body = core.LineDotted
			case "bold":
				cfg.Body = core.LineBold
			case "hidden":
				cfg.Body = core.LineHidden
			}
		}
		token = arrowColorRE.ReplaceAllString(token, "")
	}

	switch {
	case strings.Contains(token, "="):
		cfg.Body = core.LineBold
	case strings.Contains(token, "."):
		cfg.Body = core.LineDotted
	}

	// strip the repeated line characters to find the head glyphs
	line := strings.NewReplacer("-", "", "=", "", ".", "").Replace(token)

	leftHeads := "<>ox"
	i := 0
	for i < len(line) && strings.ContainsRune(leftHeads, rune(line[i])) {
		i++
	}
	cfg.Head1 = line[:i]
	j := len(line)
	for j > i && strings.ContainsRune(leftHeads, rune(line[j-1])) {
		j--
	}
	cfg.Head2 = line[j:]

	if cfg.Head1 != "" && cfg.Head2 != "" {
		cfg.Bidirectional = true
	}
	return cfg
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return strings.ToLower(s[:i])
	}
	return strings.ToLower(s)
}
