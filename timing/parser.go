package timing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jgraph/plantuml-drawio/core"
)

var playerTypeKeywords = []struct {
	keyword string
	ptype   PlayerType
}{
	{"rectangle", PlayerRectangle},
	{"concise", PlayerConcise},
	{"robust", PlayerRobust},
	{"binary", PlayerBinary},
	{"analog", PlayerAnalog},
	{"clock", PlayerClock},
}

var playerDeclRE = regexp.MustCompile(
	`^(compact\s+)?(rectangle|concise|robust|binary|analog|clock)\s+` +
		`(?:"([^"]+)"|(\S+))\s+as\s+(\S+)(?:\s+with\s+(.+)|\s+between\s+(\S+)\s+and\s+(\S+))?$`)

var atTimeRE = regexp.MustCompile(`^@(\+)?([0-9]+(?:\.[0-9]+)?)(?:\s+as\s+:(\S+))?$`)
var atPlayerRE = regexp.MustCompile(`^@(\S+)$`)

var stateChangeRE = regexp.MustCompile(`^(\S+)\s+is\s+(?:"([^"]+)"|(\S+))\s*(#[0-9A-Za-z]+)?$`)
var highlightRE = regexp.MustCompile(`^highlight\s+(\S+)\s+to\s+(\S+)(?:\s+(#[0-9A-Za-z]+))?(?:\s*:\s*(.*))?$`)
var noteRE = regexp.MustCompile(`^note\s+(top|bottom)\s+of\s+(\S+)\s*:\s*(.*)$`)
var constraintRE = regexp.MustCompile(`^\{?([^{}\s]+)\}?\s*<->\s*\{?([^{}\s]+)\}?\s*(?::\s*(.*))?$`)
var messageRE = regexp.MustCompile(`^(\S+)@(\S+)\s*->\s*(\S+)@(\S+)\s*(?::\s*(.*))?$`)
var hideTimeAxisRE = regexp.MustCompile(`^hide\s+time-axis$`)
var titleRE = regexp.MustCompile(`^title\s+(.*)$`)
var periodRE = regexp.MustCompile(`period\s+(\S+)`)
var pulseRE = regexp.MustCompile(`pulse\s+(\S+)`)
var offsetRE = regexp.MustCompile(`offset\s+(\S+)`)

// Parser holds mutable state for one timing-diagram parse: the current
// player and time context that bare "X is Y" lines and @-lines update.
type Parser struct {
	diagram       *TimingDiagram
	currentPlayer string
	currentTime   float64
	haveTime      bool
}

// Parse parses full PlantUML timing-diagram source into a model.
func Parse(source string) *TimingDiagram {
	p := &Parser{diagram: NewTimingDiagram()}
	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		p.handleLine(line)
	}
	p.diagram.SortStateChanges()
	return p.diagram
}

func (p *Parser) handleLine(line string) {
	if line == "" || isComment(line) || isStartEndMarker(line) {
		return
	}
	switch {
	case p.tryTitle(line):
	case p.tryHideTimeAxis(line):
	case p.tryPlayerDecl(line):
	case p.tryAtTime(line):
	case p.tryAtPlayer(line):
	case p.tryHighlight(line):
	case p.tryNote(line):
	case p.tryMessage(line):
	case p.tryConstraint(line):
	case p.tryStateChange(line):
	}
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "'") || strings.HasPrefix(line, "/'") || strings.HasSuffix(line, "'/")
}

func isStartEndMarker(line string) bool {
	return strings.HasPrefix(line, "@start") || strings.HasPrefix(line, "@end")
}

func (p *Parser) tryTitle(line string) bool {
	m := titleRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	p.diagram.Title = m[1]
	return true
}

func (p *Parser) tryHideTimeAxis(line string) bool {
	if !hideTimeAxisRE.MatchString(strings.ToLower(line)) {
		return false
	}
	p.diagram.HideTimeAxis = true
	return true
}

func (p *Parser) tryPlayerDecl(line string) bool {
	m := playerDeclRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	display := m[3]
	if display == "" {
		display = m[4]
	}
	code := m[5]
	pl := p.diagram.EnsurePlayer(code)
	pl.DisplayName = display
	pl.Compact = strings.TrimSpace(m[1]) == "compact"
	for _, t := range playerTypeKeywords {
		if t.keyword == strings.ToLower(m[2]) {
			pl.Type = t.ptype
			break
		}
	}
	if m[6] != "" {
		if pm := periodRE.FindStringSubmatch(m[6]); pm != nil {
			pl.ClockPeriod, _ = strconv.ParseFloat(pm[1], 64)
		}
		if pm := pulseRE.FindStringSubmatch(m[6]); pm != nil {
			pl.ClockPulse, _ = strconv.ParseFloat(pm[1], 64)
		}
		if pm := offsetRE.FindStringSubmatch(m[6]); pm != nil {
			pl.ClockOffset, _ = strconv.ParseFloat(pm[1], 64)
		}
	}
	if m[7] != "" && m[8] != "" {
		pl.AnalogStart, _ = strconv.ParseFloat(m[7], 64)
		pl.AnalogEnd, _ = strconv.ParseFloat(m[8], 64)
	}
	return true
}

// tryAtTime handles "@<number>", "@+<number>", and the optional
// "as :name" alias binding, switching the parser's current-time
// context. It must be tried before tryAtPlayer since both share the
// "@" prefix.
func (p *Parser) tryAtTime(line string) bool {
	m := atTimeRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	val, _ := strconv.ParseFloat(m[2], 64)
	if m[1] == "+" && p.haveTime {
		p.currentTime += val
	} else {
		p.currentTime = val
	}
	p.haveTime = true
	if m[3] != "" {
		p.diagram.TimeAliases[m[3]] = p.currentTime
	}
	return true
}

func (p *Parser) tryAtPlayer(line string) bool {
	m := atPlayerRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	p.currentPlayer = m[1]
	p.diagram.EnsurePlayer(m[1])
	return true
}

// tryStateChange handles a bare "X is Y" line. Per the timing-parser
// contract, X is a state change on player X at the current time if X
// names a known player; otherwise, if X is numeric, it sets the
// current time and records a state change on the current player.
func (p *Parser) tryStateChange(line string) bool {
	m := stateChangeRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	left := m[1]
	state := m[2]
	if state == "" {
		state = m[3]
	}
	var color core.Color
	if m[4] != "" {
		color = core.Color(m[4])
	}

	if p.diagram.IsPlayerCode(left) {
		if !p.haveTime {
			return false
		}
		pl, _ := p.diagram.Player(left)
		pl.StateChanges = append(pl.StateChanges, StateChange{Time: p.currentTime, State: state, Color: color})
		return true
	}
	if t, ok := resolveTimeToken(left, p.diagram, 0, false); ok {
		p.currentTime = t
		p.haveTime = true
		if p.currentPlayer == "" {
			return true
		}
		pl, _ := p.diagram.Player(p.currentPlayer)
		if pl == nil {
			return true
		}
		pl.StateChanges = append(pl.StateChanges, StateChange{Time: p.currentTime, State: state, Color: color})
		return true
	}
	return false
}

func (p *Parser) tryHighlight(line string) bool {
	m := highlightRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	start, ok1 := resolveTimeToken(m[1], p.diagram, p.currentTime, p.haveTime)
	end, ok2 := resolveTimeToken(m[2], p.diagram, p.currentTime, p.haveTime)
	if !ok1 || !ok2 {
		return false
	}
	h := &TimingHighlight{StartTime: start, EndTime: end, Caption: m[4]}
	if m[3] != "" {
		h.Color = core.Color(m[3])
	}
	p.diagram.Highlights = append(p.diagram.Highlights, h)
	return true
}

func (p *Parser) tryNote(line string) bool {
	m := noteRE.FindStringSubmatch(strings.ToLower(line))
	if m == nil {
		return false
	}
	idx := strings.Index(line, ":")
	text := ""
	if idx >= 0 {
		text = strings.TrimSpace(line[idx+1:])
	}
	pos := core.NoteTop
	if m[1] == "bottom" {
		pos = core.NoteBottom
	}
	fields := strings.Fields(line)
	code := fields[3]
	p.diagram.EnsurePlayer(code)
	p.diagram.Notes = append(p.diagram.Notes, &TimingNote{Position: pos, PlayerCode: code, Text: text})
	return true
}

func (p *Parser) tryMessage(line string) bool {
	m := messageRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	fromTime, ok1 := resolveTimeToken(m[2], p.diagram, p.currentTime, p.haveTime)
	toTime, ok2 := resolveTimeToken(m[4], p.diagram, p.currentTime, p.haveTime)
	if !ok1 || !ok2 {
		return false
	}
	p.diagram.EnsurePlayer(m[1])
	p.diagram.EnsurePlayer(m[3])
	p.diagram.Messages = append(p.diagram.Messages, &TimeMessage{
		FromPlayer: m[1], FromTime: fromTime, ToPlayer: m[3], ToTime: toTime, Label: m[5],
	})
	return true
}

func (p *Parser) tryConstraint(line string) bool {
	if !strings.Contains(line, "<->") {
		return false
	}
	m := constraintRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	t1, ok1 := resolveTimeToken(m[1], p.diagram, p.currentTime, p.haveTime)
	t2, ok2 := resolveTimeToken(m[2], p.diagram, p.currentTime, p.haveTime)
	if !ok1 || !ok2 {
		return false
	}
	p.diagram.Constraints = append(p.diagram.Constraints, &TimeConstraint{Time1: t1, Time2: t2, Label: m[3]})
	return true
}

// resolveTimeToken resolves a time reference token: a named alias
// (":name"), an "@"-prefixed absolute/relative time, or a bare
// number. fallback/haveFallback supply the current-time context for
// relative "+N" tokens.
func resolveTimeToken(token string, d *TimingDiagram, fallback float64, haveFallback bool) (float64, bool) {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, ":") {
		t, ok := d.TimeAliases[strings.TrimPrefix(token, ":")]
		return t, ok
	}
	if strings.HasPrefix(token, "@") {
		token = strings.TrimPrefix(token, "@")
	}
	if strings.HasPrefix(token, "+") {
		if !haveFallback {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimPrefix(token, "+"), 64)
		if err != nil {
			return 0, false
		}
		return fallback + v, true
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
