package state

import (
	"regexp"
	"strings"

	"github.com/jgraph/plantuml-drawio/core"
)

var stateDeclRE = regexp.MustCompile(
	`^state\s+(?:"([^"]+)"|(\S+))(?:\s+as\s+(\S+))?` +
		`(?:\s*<<(choice|fork|join|history|deep_history|\w+)>>)?` +
		`\s*(#[0-9A-Za-z]+)?\s*(\{)?\s*$`)

var transitionRE = regexp.MustCompile(
	`^(\[\*\]|\S+)\s*([\-.=~]{2,}>)\s*(\[\*\]|\S+)\s*(?::\s*(.*))?$`)

var descriptionRE = regexp.MustCompile(`^(\S+)\s*:\s*(.*)$`)
var noteRE = regexp.MustCompile(`^note\s+(left|right|top|bottom)\s+of\s+(\S+)\s*:\s*(.*)$`)
var titleRE = regexp.MustCompile(`^title\s+(.*)$`)
var directionRE = regexp.MustCompile(`^(?:left to right direction|top to bottom direction|ltr|ttb)$`)

type scopeFrame struct {
	code       string
	regionIdx  int
	regionHead []string // accumulator for the current region's direct children
}

// Parser holds mutable state for one state-diagram parse.
type Parser struct {
	diagram    *StateDiagram
	scopeStack []scopeFrame
}

// Parse parses full PlantUML state-diagram source into a model.
func Parse(source string) *StateDiagram {
	p := &Parser{diagram: NewStateDiagram()}
	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		p.handleLine(line)
	}
	return p.diagram
}

func (p *Parser) handleLine(line string) {
	if line == "" || isComment(line) || isStartEndMarker(line) {
		return
	}
	switch {
	case p.tryTitle(line):
	case p.tryDirection(line):
	case line == "--" && len(p.scopeStack) > 0:
		p.newConcurrentRegion()
	case line == "}":
		p.endComposite()
	case p.tryStateDecl(line):
	case p.tryNote(line):
	case p.tryTransition(line):
	case p.tryDescription(line):
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

func (p *Parser) tryDirection(line string) bool {
	lower := strings.ToLower(line)
	if !directionRE.MatchString(lower) {
		return false
	}
	if strings.Contains(lower, "left to right") || lower == "ltr" {
		p.diagram.Direction = DirLeftToRight
	} else {
		p.diagram.Direction = DirTopToBottom
	}
	return true
}

func (p *Parser) currentScope() string {
	if len(p.scopeStack) == 0 {
		return ""
	}
	return p.scopeStack[len(p.scopeStack)-1].code
}

func (p *Parser) newConcurrentRegion() {
	top := &p.scopeStack[len(p.scopeStack)-1]
	parent := p.diagram.Elements[top.code]
	parent.ConcurrentRegions = append(parent.ConcurrentRegions, top.regionHead)
	top.regionHead = nil
	top.regionIdx++
}

func (p *Parser) endComposite() {
	if len(p.scopeStack) == 0 {
		return
	}
	top := p.scopeStack[len(p.scopeStack)-1]
	parent := p.diagram.Elements[top.code]
	if len(parent.ConcurrentRegions) > 0 || top.regionIdx > 0 {
		parent.ConcurrentRegions = append(parent.ConcurrentRegions, top.regionHead)
	}
	p.scopeStack = p.scopeStack[:len(p.scopeStack)-1]
}

func (p *Parser) addChildToScope(code string) {
	if len(p.scopeStack) == 0 {
		return
	}
	top := &p.scopeStack[len(p.scopeStack)-1]
	parent := p.diagram.Elements[top.code]
	parent.Children = append(parent.Children, code)
	top.regionHead = append(top.regionHead, code)
}

func (p *Parser) tryStateDecl(line string) bool {
	if !strings.HasPrefix(strings.ToLower(line), "state ") {
		return false
	}
	m := stateDeclRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	display := m[1]
	if display == "" {
		display = m[2]
	}
	code := m[3]
	if code == "" {
		code = display
	}
	e := p.diagram.EnsureElement(code)
	e.DisplayName = display
	e.ParentCode = p.currentScope()
	switch strings.ToLower(m[4]) {
	case "choice":
		e.Type = TypeChoice
	case "fork", "join":
		e.Type = TypeForkJoin
	case "history":
		e.Type = TypeHistory
	case "deep_history":
		e.Type = TypeDeepHistory
	default:
		if m[4] != "" {
			e.Stereotypes = append(e.Stereotypes, m[4])
		}
	}
	if m[5] != "" {
		e.Color = core.Color(m[5])
	}
	p.addChildToScope(code)

	if m[6] == "{" {
		p.scopeStack = append(p.scopeStack, scopeFrame{code: code})
	}
	return true
}

func (p *Parser) pseudoCode(kind string) string {
	scope := p.currentScope()
	key := scope + "::" + kind
	if e, ok := p.diagram.Elements[key]; ok {
		return e.Code
	}
	e := p.diagram.EnsureElement(key)
	e.ParentCode = scope
	if kind == "initial" {
		e.Type = TypeInitial
	} else {
		e.Type = TypeFinal
	}
	e.DisplayName = ""
	return key
}

func (p *Parser) resolveStateToken(token string, isSource bool) string {
	if token == "[*]" {
		if isSource {
			code := p.pseudoCode("initial")
			p.addChildToScope(code)
			return code
		}
		code := p.pseudoCode("final")
		p.addChildToScope(code)
		return code
	}
	if _, ok := p.diagram.Elements[token]; !ok {
		e := p.diagram.EnsureElement(token)
		e.ParentCode = p.currentScope()
		p.addChildToScope(token)
	}
	return token
}

func (p *Parser) tryTransition(line string) bool {
	m := transitionRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	from := p.resolveStateToken(m[1], true)
	to := p.resolveStateToken(m[3], false)
	token := m[2]

	lineStyle := core.LineSolid
	switch {
	case strings.Contains(token, "."):
		lineStyle = core.LineDotted
	case strings.Contains(token, "="):
		lineStyle = core.LineBold
	case strings.Contains(token, "~"):
		lineStyle = core.LineDashed
	}

	p.diagram.Transitions = append(p.diagram.Transitions, &Transition{
		From: from, To: to, Label: m[4], LineStyle: lineStyle,
		CrossStart: m[1] == "[*]", CircleEnd: m[3] == "[*]",
	})
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
	var pos core.NotePosition
	switch m[1] {
	case "left":
		pos = core.NoteLeft
	case "right":
		pos = core.NoteRight
	case "top":
		pos = core.NoteTop
	default:
		pos = core.NoteBottom
	}
	fields := strings.Fields(line)
	code := fields[3]
	p.diagram.EnsureElement(code)
	p.diagram.Notes = append(p.diagram.Notes, &Note{Position: pos, Text: text, EntityCode: code})
	return true
}

func (p *Parser) tryDescription(line string) bool {
	m := descriptionRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	code := m[1]
	if code == "[*]" {
		return false
	}
	e := p.diagram.EnsureElement(code)
	e.ParentCode = p.currentScope()
	e.Descriptions = append(e.Descriptions, m[2])
	return true
}
