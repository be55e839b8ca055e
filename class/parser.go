package class

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/jgraph/plantuml-drawio/core"
)

type bodyState int

const (
	bodyNone bodyState = iota
	bodyEntity
	bodyMap
	bodyJSON
)

// classifierKeywords is the longest-first classifier table: "abstract
// class" must win over a bare "abstract" or "class" prefix match.
var classifierKeywords = []struct {
	keyword string
	typ     EntityType
}{
	{"abstract class", TypeAbstractClass},
	{"abstract", TypeAbstractClass},
	{"class", TypeClass},
	{"interface", TypeInterface},
	{"enum", TypeEnum},
	{"annotation", TypeAnnotation},
	{"entity", TypeEntity},
	{"protocol", TypeProtocol},
	{"struct", TypeStruct},
	{"exception", TypeException},
	{"metaclass", TypeMetaclass},
	{"stereotype", TypeStereotypeType},
	{"dataclass", TypeDataclass},
	{"record", TypeRecord},
	{"circle", TypeCircle},
	{"diamond", TypeDiamond},
	{"object", TypeObject},
	{"map", TypeMap},
	{"json", TypeJSON},
}

var entityDeclRE = regexp.MustCompile(
	`^(abstract class|abstract|class|interface|enum|annotation|entity|protocol|struct|exception|metaclass|stereotype|dataclass|record|circle|diamond|object|map|json)\s+` +
		`(?:"([^"]+)"|(\S+))` +
		`(?:\s*<([^>]*)>)?` +
		`(?:\s+as\s+(\S+))?` +
		`((?:\s+<<[^>]+>>)*)` +
		`\s*(#[0-9A-Fa-f]{3,8})?\s*(\{)?\s*$`)

var relationshipRE = regexp.MustCompile(
	`^(?:"([^"]+)"|(\S+))\s*(?:"([^"]*)")?\s*` +
		`([<>o*#|.\-+~^]{2,})\s*(?:"([^"]*)")?\s*` +
		`(?:"([^"]+)"|(\S+))\s*(?::\s*(.*))?$`)

var memberVisRE = regexp.MustCompile(`^([+\-#~])?\s*(\{static\}|\{abstract\}|\{field\}|\{method\})?\s*(.*)$`)
var separatorRE = regexp.MustCompile(`^(--|\.\.|==|__)(.*?)(--|\.\.|==|__)?$`)
var mapEntryRE = regexp.MustCompile(`^(.+?)\s*(\*-->|o-->|-->)\s*(.+)$`)
var mapPlainEntryRE = regexp.MustCompile(`^(.+?)\s*=>\s*(.*)$`)
var noteRE = regexp.MustCompile(`^note\s+(left|right|top|bottom)\s+of\s+(\S+)\s*:\s*(.*)$`)
var titleRE = regexp.MustCompile(`^title\s+(.*)$`)
var packageStartRE = regexp.MustCompile(`^package\s+(?:"([^"]+)"|(\S+))\s*\{?\s*$`)

// Parser holds mutable state for one class-diagram parse.
type Parser struct {
	diagram       *ClassDiagram
	state         bodyState
	currentEntity *ClassEntity
	jsonDepth     int
	jsonBuf       strings.Builder
	packageStack  []*Package
}

// Parse parses full PlantUML class-diagram source into a model.
func Parse(source string) *ClassDiagram {
	p := &Parser{diagram: NewClassDiagram()}
	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)
		p.handleLine(trimmed)
	}
	return p.diagram
}

func (p *Parser) handleLine(line string) {
	switch p.state {
	case bodyEntity:
		if line == "}" {
			p.state = bodyNone
			p.currentEntity = nil
			return
		}
		p.parseMemberLine(line)
		return
	case bodyMap:
		if line == "}" {
			p.state = bodyNone
			p.currentEntity = nil
			return
		}
		p.parseMapLine(line)
		return
	case bodyJSON:
		p.jsonBuf.WriteString(line)
		p.jsonDepth += strings.Count(line, "{") + strings.Count(line, "[")
		p.jsonDepth -= strings.Count(line, "}") + strings.Count(line, "]")
		if p.jsonDepth <= 0 {
			p.finishJSONBody()
		}
		return
	}

	if line == "" || isComment(line) || isStartEndMarker(line) {
		return
	}

	switch {
	case p.tryTitle(line):
	case p.tryPackageStart(line):
	case line == "}":
		p.endPackage()
	case p.tryEntityDecl(line):
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

func (p *Parser) tryPackageStart(line string) bool {
	m := packageStartRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	name := m[1]
	if name == "" {
		name = m[2]
	}
	pkg := &Package{Name: name}
	if len(p.packageStack) > 0 {
		parent := p.packageStack[len(p.packageStack)-1]
		pkg.Parent = parent
		pkg.Path = parent.Path + "." + name
		parent.SubPackages = append(parent.SubPackages, pkg)
	} else {
		pkg.Path = name
		p.diagram.Packages = append(p.diagram.Packages, pkg)
	}
	p.packageStack = append(p.packageStack, pkg)
	return true
}

func (p *Parser) endPackage() {
	if len(p.packageStack) == 0 {
		return
	}
	p.packageStack = p.packageStack[:len(p.packageStack)-1]
}

func (p *Parser) currentPackagePath() string {
	if len(p.packageStack) == 0 {
		return ""
	}
	return p.packageStack[len(p.packageStack)-1].Path
}

func (p *Parser) tryEntityDecl(line string) bool {
	lowerLine := strings.ToLower(line)
	matchedKeyword := ""
	for _, kw := range classifierKeywords {
		if strings.HasPrefix(lowerLine, kw.keyword+" ") {
			if len(kw.keyword) > len(matchedKeyword) {
				matchedKeyword = kw.keyword
			}
		}
	}
	if matchedKeyword == "" {
		return false
	}
	m := entityDeclRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	var typ EntityType
	for _, kw := range classifierKeywords {
		if kw.keyword == strings.ToLower(m[1]) {
			typ = kw.typ
			break
		}
	}
	display := m[2]
	if display == "" {
		display = m[3]
	}
	code := m[5]
	if code == "" {
		code = display
	}
	e := p.diagram.EnsureEntity(code)
	e.Type = typ
	e.DisplayName = display
	e.GenericParams = m[4]
	e.PackagePath = p.currentPackagePath()
	if m[6] != "" {
		for _, stereo := range strings.Split(m[6], ">>") {
			stereo = strings.TrimSpace(strings.TrimPrefix(stereo, "<<"))
			if stereo != "" {
				e.Stereotypes = append(e.Stereotypes, stereo)
			}
		}
	}
	if m[7] != "" {
		e.Color = core.Color(m[7])
	}
	if len(p.packageStack) > 0 {
		pkg := p.packageStack[len(p.packageStack)-1]
		pkg.Entities = append(pkg.Entities, e)
	}

	if m[8] == "{" {
		p.currentEntity = e
		switch typ {
		case TypeMap:
			p.state = bodyMap
		case TypeJSON:
			p.state = bodyJSON
			p.jsonDepth = 1
			p.jsonBuf.Reset()
			p.jsonBuf.WriteString("{")
		default:
			p.state = bodyEntity
		}
	}
	return true
}

func (p *Parser) parseMemberLine(line string) {
	if line == "" {
		return
	}
	if m := separatorRE.FindStringSubmatch(line); m != nil && isPureSeparator(line) {
		style := separatorStyleFor(m[1])
		p.currentEntity.Members = append(p.currentEntity.Members, EntityMember{
			Separator: &Separator{Label: strings.TrimSpace(m[2]), Style: style},
		})
		return
	}

	m := memberVisRE.FindStringSubmatch(line)
	vis := VisNone
	isStatic, isAbstract := false, false
	rest := line
	if m != nil {
		switch m[1] {
		case "+":
			vis = VisPublic
		case "-":
			vis = VisPrivate
		case "#":
			vis = VisProtected
		case "~":
			vis = VisPackage
		}
		switch m[2] {
		case "{static}":
			isStatic = true
		case "{abstract}":
			isAbstract = true
		}
		rest = strings.TrimSpace(m[3])
	}

	kind := MemberField
	name := rest
	var returnType, params string
	if idx := strings.Index(rest, "("); idx >= 0 {
		kind = MemberMethod
		name = strings.TrimSpace(rest[:idx])
		closeIdx := strings.LastIndex(rest, ")")
		if closeIdx > idx {
			params = rest[idx+1 : closeIdx]
			returnType = strings.TrimSpace(rest[closeIdx+1:])
			returnType = strings.TrimPrefix(returnType, ":")
			returnType = strings.TrimSpace(returnType)
		}
	} else if idx := strings.LastIndex(rest, ":"); idx >= 0 {
		name = strings.TrimSpace(rest[:idx])
		returnType = strings.TrimSpace(rest[idx+1:])
	}

	p.currentEntity.Members = append(p.currentEntity.Members, EntityMember{
		Member: &Member{
			RawText: line, Kind: kind, Visibility: vis, Name: name,
			ReturnType: returnType, Parameters: params,
			IsStatic: isStatic, IsAbstract: isAbstract,
		},
	})
}

func isPureSeparator(line string) bool {
	stripped := strings.TrimSpace(line)
	for _, sep := range []string{"--", "..", "==", "__"} {
		if strings.HasPrefix(stripped, sep) {
			rest := strings.TrimPrefix(stripped, sep)
			rest = strings.TrimSuffix(rest, sep)
			return !strings.ContainsAny(rest, "(){}:") || rest == strings.TrimSpace(rest)
		}
	}
	return false
}

func separatorStyleFor(token string) SeparatorStyle {
	switch token {
	case "..":
		return SepDotted
	case "==":
		return SepDouble
	case "__":
		return SepThick
	default:
		return SepSolid
	}
}

func (p *Parser) parseMapLine(line string) {
	if line == "" {
		return
	}
	if m := mapEntryRE.FindStringSubmatch(line); m != nil {
		target := strings.TrimSpace(m[3])
		p.currentEntity.MapEntries = append(p.currentEntity.MapEntries, MapEntry{
			Key: strings.TrimSpace(m[1]), LinkedTarget: target,
		})
		p.diagram.EnsureEntity(target)
		p.diagram.Relationships = append(p.diagram.Relationships, &Relationship{
			From: p.currentEntity.Code, To: target,
			RightDecor: DecorKind(decorForMapArrow(m[2])),
		})
		return
	}
	if m := mapPlainEntryRE.FindStringSubmatch(line); m != nil {
		p.currentEntity.MapEntries = append(p.currentEntity.MapEntries, MapEntry{
			Key: strings.TrimSpace(m[1]), Value: strings.TrimSpace(m[2]),
		})
	}
}

func decorForMapArrow(tok string) DecorKind {
	switch tok {
	case "*-->":
		return DecorComposition
	case "o-->":
		return DecorAggregation
	default:
		return DecorArrow
	}
}

func (p *Parser) finishJSONBody() {
	text := p.jsonBuf.String()
	node := parseJSONText(text)
	p.currentEntity.JSONNode = node
	p.state = bodyNone
	p.currentEntity = nil
}

func parseJSONText(text string) *JSONNode {
	var raw interface{}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return &JSONNode{Type: JSONPrimitive, Value: text}
	}
	return jsonValueToNode(raw)
}

func jsonValueToNode(v interface{}) *JSONNode {
	switch val := v.(type) {
	case map[string]interface{}:
		node := &JSONNode{Type: JSONObject, Entries: make(map[string]*JSONNode)}
		for k, child := range val {
			node.Entries[k] = jsonValueToNode(child)
			node.Keys = append(node.Keys, k)
		}
		return node
	case []interface{}:
		node := &JSONNode{Type: JSONArray}
		for _, child := range val {
			node.Items = append(node.Items, jsonValueToNode(child))
		}
		return node
	default:
		return &JSONNode{Type: JSONPrimitive, Value: toPrimitiveString(val)}
	}
}

func toPrimitiveString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "null"
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
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
	entityCode := fields[3]
	p.diagram.EnsureEntity(entityCode)
	p.diagram.Notes = append(p.diagram.Notes, &Note{Position: pos, Text: text, EntityCode: entityCode})
	return true
}

// leftDecorTable and rightDecorTable map the character sequences
// PlantUML uses on either end of a relationship arrow to a DecorKind,
// searched longest-first per spec.md's link-decorator-table contract.
var leftDecorTable = []struct {
	token string
	decor DecorKind
}{
	{"<|..", DecorImplements},
	{"<|--", DecorExtends},
	{"*--", DecorComposition},
	{"o--", DecorAggregation},
	{"<|", DecorExtends},
	{"*", DecorComposition},
	{"o", DecorAggregation},
	{"<", DecorArrow},
}

var rightDecorTable = []struct {
	token string
	decor DecorKind
}{
	{"..|>", DecorImplements},
	{"--|>", DecorExtends},
	{"--*", DecorComposition},
	{"--o", DecorAggregation},
	{"|>", DecorExtends},
	{"*", DecorComposition},
	{"o", DecorAggregation},
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
	to := m[6]
	if to == "" {
		to = m[7]
	}
	if from == "" || to == "" {
		return false
	}
	token := m[4]

	lineStyle := core.LineSolid
	switch {
	case strings.Contains(token, ".."):
		lineStyle = core.LineDotted
	case strings.Contains(token, "=="):
		lineStyle = core.LineBold
	}

	leftDecor := decorFromTable(token, leftDecorTable, true)
	rightDecor := decorFromTable(token, rightDecorTable, false)

	p.diagram.EnsureEntity(from)
	p.diagram.EnsureEntity(to)
	rel := &Relationship{
		From: from, To: to, LeftDecor: leftDecor, RightDecor: rightDecor,
		LineStyle: lineStyle, Label: m[8], LeftLabel: m[3], RightLabel: m[5],
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
