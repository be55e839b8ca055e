package component

import (
	"regexp"
	"strings"

	"github.com/jgraph/plantuml-drawio/core"
)

var containerKeywords = []string{
	"package", "node", "cloud", "database", "storage", "folder", "frame",
	"rectangle", "card", "file", "artifact", "queue", "stack", "agent",
}

var containerStartRE = regexp.MustCompile(
	`^(package|node|cloud|database|storage|folder|frame|rectangle|card|file|artifact|queue|stack|agent)\s+` +
		`(?:"([^"]+)"|(\S+))` +
		`(?:\s+as\s+(\S+))?\s*(#[0-9A-Fa-f]{3,8})?\s*\{?\s*$`)

// shorthandRE matches bracket/paren/colon-delimited shorthand element
// declarations: [Component], () Interface, :Actor:, (Use Case), with
// an optional business-variant "/" suffix and an optional "as alias".
var shorthandRE = regexp.MustCompile(
	`^(\[|\(\)|\(|:)\s*"?([^"\]\)\:]+?)"?(/)?\s*(\]|\(\)|\)|:)\s*(?:as\s+(\S+))?\s*(#[0-9A-Fa-f]{3,8})?\s*$`)

var keywordDeclRE = regexp.MustCompile(
	`^(component|interface|actor|usecase|class|database)\s+` +
		`(?:"([^"]+)"|(\S+))` +
		`(?:\s+as\s+(\S+))?\s*(#[0-9A-Fa-f]{3,8})?\s*$`)

var relationshipRE = regexp.MustCompile(
	`^(?:"([^"]+)"|(\S+))\s*([<>o.\-+~^]{2,})\s*(?:"([^"]+)"|(\S+))\s*(?::\s*(.*))?$`)

var titleRE = regexp.MustCompile(`^title\s+(.*)$`)
var noteRE = regexp.MustCompile(`^note\s+(left|right|top|bottom)\s+of\s+(\S+)\s*:\s*(.*)$`)

// Parser holds mutable state for one component-family parse.
type Parser struct {
	diagram        *ComponentDiagram
	containerStack []*ComponentContainer
}

// Parse parses full PlantUML component/deployment/use-case source into
// a model.
func Parse(source string) *ComponentDiagram {
	p := &Parser{diagram: NewComponentDiagram()}
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
	case p.tryContainerStart(line):
	case line == "}":
		p.endContainer()
	case p.tryKeywordDecl(line):
	case p.tryShorthandDecl(line):
	case p.tryNote(line):
	case p.tryRelationship(line):
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

func (p *Parser) tryContainerStart(line string) bool {
	lowerFirst := strings.ToLower(firstWord(line))
	isContainerKw := false
	for _, kw := range containerKeywords {
		if kw == lowerFirst {
			isContainerKw = true
			break
		}
	}
	if !isContainerKw || !strings.HasSuffix(line, "{") {
		return false
	}
	m := containerStartRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	name := m[2]
	if name == "" {
		name = m[3]
	}
	c := &ComponentContainer{Name: name, Type: strings.ToLower(m[1]), Color: core.Color(m[5])}
	if len(p.containerStack) > 0 {
		parent := p.containerStack[len(p.containerStack)-1]
		c.Parent = parent
		c.Path = parent.Path + "." + name
		parent.Children = append(parent.Children, c)
	} else {
		c.Path = name
		p.diagram.Containers = append(p.diagram.Containers, c)
	}
	p.containerStack = append(p.containerStack, c)
	return true
}

func (p *Parser) endContainer() {
	if len(p.containerStack) == 0 {
		return
	}
	p.containerStack = p.containerStack[:len(p.containerStack)-1]
}

func (p *Parser) currentContainerPath() string {
	if len(p.containerStack) == 0 {
		return ""
	}
	return p.containerStack[len(p.containerStack)-1].Path
}

func (p *Parser) registerElement(e *ComponentElement) {
	e.ContainerPath = p.currentContainerPath()
	if len(p.containerStack) > 0 {
		c := p.containerStack[len(p.containerStack)-1]
		c.Elements = append(c.Elements, e)
	}
}

func (p *Parser) tryKeywordDecl(line string) bool {
	m := keywordDeclRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	var typ ElementType
	switch strings.ToLower(m[1]) {
	case "component":
		typ = TypeComponent
	case "interface":
		typ = TypeInterface
	case "actor":
		typ = TypeActor
	case "usecase":
		typ = TypeUseCase
	case "class":
		typ = TypeClass
	case "database":
		typ = TypeDatabase
	}
	display := m[2]
	if display == "" {
		display = m[3]
	}
	code := m[4]
	if code == "" {
		code = display
	}
	e := p.diagram.EnsureElement(code)
	e.Type = typ
	e.DisplayName = display
	if m[5] != "" {
		e.Color = core.Color(m[5])
	}
	p.registerElement(e)
	return true
}

func (p *Parser) tryShorthandDecl(line string) bool {
	m := shorthandRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	open, display, business, code := m[1], strings.TrimSpace(m[2]), m[3], m[5]
	if code == "" {
		code = display
	}
	var typ ElementType
	switch open {
	case "[":
		typ = TypeComponent
	case "()":
		typ = TypeInterface
	case ":":
		typ = TypeActor
		if business != "" {
			typ = TypeActorBusiness
		}
	case "(":
		typ = TypeUseCase
		if business != "" {
			typ = TypeUsecaseBusiness
		}
	}
	e := p.diagram.EnsureElement(code)
	e.Type = typ
	e.DisplayName = display
	if m[6] != "" {
		e.Color = core.Color(m[6])
	}
	p.registerElement(e)
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
	p.diagram.Notes = append(p.diagram.Notes, &ComponentNote{Position: pos, Text: text, ElementCode: code})
	return true
}

var leftDecorTable = []struct {
	token string
	decor DecorKind
}{
	{"<|", DecorExtends},
	{"<", DecorArrow},
}

var rightDecorTable = []struct {
	token string
	decor DecorKind
}{
	{"|>", DecorExtends},
	{">", DecorArrow},
}

func (p *Parser) tryRelationship(line string) bool {
	m := relationshipRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	from := m[1]
	if from == "" {
		from = m[2]
	}
	to := m[4]
	if to == "" {
		to = m[5]
	}
	if from == "" || to == "" {
		return false
	}
	token := m[3]

	lineStyle := core.LineSolid
	if strings.Contains(token, "..") {
		lineStyle = core.LineDotted
	}

	p.diagram.EnsureElement(from)
	p.diagram.EnsureElement(to)
	rel := &ComponentRelationship{
		From: from, To: to, LineStyle: lineStyle, Label: m[6],
		LeftDecor:  decorFromTable(token, leftDecorTable, true),
		RightDecor: decorFromTable(token, rightDecorTable, false),
	}
	p.diagram.Relationships = append(p.diagram.Relationships, rel)
	return true
}

func decorFromTable(token string, table []struct {
	token string
	decor DecorKind
}, leftSide bool) DecorKind {
	for _, entry := range table {
		if leftSide && strings.HasPrefix(token, entry.token) {
			return entry.decor
		}
		if !leftSide && strings.HasSuffix(token, entry.token) {
			return entry.decor
		}
	}
	return DecorNone
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return strings.ToLower(s[:i])
	}
	return strings.ToLower(s)
}
