// Package mxbuilder is the shared mxGraph construction layer described
// in spec.md §4.1: it owns cell identity, z-ordering discipline, XML
// escaping, and the draw.io document envelope. Every per-family emitter
// builds its cells through a Builder rather than writing XML by hand.
package mxbuilder

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jgraph/plantuml-drawio/core"
)

// ErrMissingID is returned when CellOptions.ID is empty; spec.md §7
// calls this a structural error that must fail immediately.
var ErrMissingID = errors.New("mxbuilder: cell id is required")

// ErrMissingPlantUML is returned by BuildDocument when the original
// PlantUML source is empty; the UserObject round-trip contract (§4.4)
// depends on that attribute always being present.
var ErrMissingPlantUML = errors.New("mxbuilder: UserObject requires non-empty plantUml source")

// RootCellID and GroupParentID are the two standard draw.io root cells
// every document envelope carries (§4.1).
const (
	RootCellID    = "0"
	GroupParentID = "1"
)

// CellOptions is the input contract for BuildCell, matching spec.md
// §4.1's options record.
type CellOptions struct {
	ID          string
	Value       string
	Style       StyleMap
	Vertex      bool
	Edge        bool
	Parent      string
	Source      string
	Target      string
	Geometry    *core.Geometry
	SourcePoint *core.Point
	TargetPoint *core.Point
	Waypoints   []core.Point
	HTMLLabel   bool // when true, newlines in Value become <br> and html=1 is set on the style
}

// IDAllocator hands out sequential cell ids with a caller-chosen prefix
// ("puml-1", "puml-2", ...), scoped to one emitter instance — per
// spec.md §5 each conversion owns its allocator exclusively, so
// IDAllocator carries no synchronization.
type IDAllocator struct {
	prefix string
	next   int
}

// NewIDAllocator creates an allocator that yields "<prefix>-1",
// "<prefix>-2", and so on.
func NewIDAllocator(prefix string) *IDAllocator {
	return &IDAllocator{prefix: prefix, next: 1}
}

// Next returns the next sequential id and advances the counter.
func (a *IDAllocator) Next() string {
	id := a.prefix + "-" + strconv.Itoa(a.next)
	a.next++
	return id
}

// Builder accumulates z-ordered mxCell fragments for one diagram
// conversion. It is not safe for concurrent use; spec.md §5 expects one
// Builder per conversion, one conversion per worker.
type Builder struct {
	IDs   *IDAllocator
	cells []string
}

// NewBuilder creates a Builder whose cell ids are allocated from the
// given prefix (conventionally "puml").
func NewBuilder(idPrefix string) *Builder {
	return &Builder{IDs: NewIDAllocator(idPrefix)}
}

// Cells returns the accumulated cell fragments in emission (z) order.
func (b *Builder) Cells() []string { return b.cells }

// Add appends a pre-built fragment to the z-order, e.g. one produced by
// BuildCell.
func (b *Builder) Add(fragment string) { b.cells = append(b.cells, fragment) }

// BuildCell renders one mxCell element per spec.md §4.1: id is
// mandatory, value and style are XML-escaped, source/target are
// emitted verbatim as id references.
func BuildCell(opts CellOptions) (string, error) {
	if opts.ID == "" {
		return "", ErrMissingID
	}

	var b strings.Builder
	b.WriteString("<mxCell id=\"")
	b.WriteString(EscapeXMLAttr(opts.ID))
	b.WriteByte('"')

	value := opts.Value
	style := opts.Style.Clone()
	if opts.HTMLLabel {
		value = ToHTMLLabel(value)
		style.Set("html", "1")
	}
	if value != "" {
		fmt.Fprintf(&b, " value=\"%s\"", EscapeXMLAttr(value))
	}
	if s := style.String(); s != "" {
		fmt.Fprintf(&b, " style=\"%s\"", EscapeXMLAttr(s))
	}
	if opts.Vertex {
		b.WriteString(" vertex=\"1\"")
	}
	if opts.Edge {
		b.WriteString(" edge=\"1\"")
	}
	if opts.Parent != "" {
		fmt.Fprintf(&b, " parent=\"%s\"", EscapeXMLAttr(opts.Parent))
	}
	if opts.Source != "" {
		fmt.Fprintf(&b, " source=\"%s\"", EscapeXMLAttr(opts.Source))
	}
	if opts.Target != "" {
		fmt.Fprintf(&b, " target=\"%s\"", EscapeXMLAttr(opts.Target))
	}

	hasBody := opts.Geometry != nil || opts.SourcePoint != nil || opts.TargetPoint != nil || len(opts.Waypoints) > 0
	if !hasBody {
		b.WriteString("/>")
		return b.String(), nil
	}
	b.WriteString(">")
	writeGeometryBody(&b, opts)
	b.WriteString("</mxCell>")
	return b.String(), nil
}

func writeGeometryBody(b *strings.Builder, opts CellOptions) {
	if opts.Geometry != nil {
		g := opts.Geometry
		fmt.Fprintf(b, "<mxGeometry x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\"", g.X, g.Y, g.Width, g.Height)
		if g.Relative {
			b.WriteString(" relative=\"1\"")
		}
		hasPoints := opts.SourcePoint != nil || opts.TargetPoint != nil || len(opts.Waypoints) > 0
		if !hasPoints {
			b.WriteString(" as=\"geometry\"/>")
			return
		}
		b.WriteString(" as=\"geometry\">")
		writePoints(b, opts)
		b.WriteString("</mxGeometry>")
		return
	}
	b.WriteString("<mxGeometry relative=\"1\" as=\"geometry\">")
	writePoints(b, opts)
	b.WriteString("</mxGeometry>")
}

func writePoints(b *strings.Builder, opts CellOptions) {
	if opts.SourcePoint != nil {
		fmt.Fprintf(b, "<mxPoint x=\"%d\" y=\"%d\" as=\"sourcePoint\"/>", opts.SourcePoint.X, opts.SourcePoint.Y)
	}
	if opts.TargetPoint != nil {
		fmt.Fprintf(b, "<mxPoint x=\"%d\" y=\"%d\" as=\"targetPoint\"/>", opts.TargetPoint.X, opts.TargetPoint.Y)
	}
	if len(opts.Waypoints) > 0 {
		b.WriteString("<Array as=\"points\">")
		for _, p := range opts.Waypoints {
			fmt.Fprintf(b, "<mxPoint x=\"%d\" y=\"%d\"/>", p.X, p.Y)
		}
		b.WriteString("</Array>")
	}
}

// DocumentOptions configures BuildDocument.
type DocumentOptions struct {
	DiagramName    string // "diagram" element's name attribute
	GroupCellID    string // id of the root group cell wrapped by UserObject
	GroupWidth     int
	GroupHeight    int
	PlantUMLSource string
	Cells          []string // pre-built, z-ordered mxCell fragments (children of GroupCellID or of "1")
}

// BuildDocument wraps the accumulated cells in the draw.io envelope
// described by spec.md §6: a single <mxfile> with one <diagram>, one
// <mxGraphModel>, the two standard root cells, a UserObject carrying
// the original PlantUML source, and then the caller's cells in order.
func BuildDocument(opts DocumentOptions) (string, error) {
	if opts.PlantUMLSource == "" {
		return "", ErrMissingPlantUML
	}
	if opts.GroupCellID == "" {
		return "", ErrMissingID
	}

	name := opts.DiagramName
	if name == "" {
		name = "PlantUML Import"
	}

	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString("<mxfile host=\"plantuml-drawio\">")
	fmt.Fprintf(&b, "<diagram name=\"%s\">", EscapeXMLAttr(name))
	b.WriteString("<mxGraphModel dx=\"800\" dy=\"600\" grid=\"1\" gridSize=\"10\" guides=\"1\" tooltips=\"1\" connect=\"1\" arrows=\"1\" fold=\"1\" page=\"1\" pageScale=\"1\" pageWidth=\"850\" pageHeight=\"1100\" math=\"0\" shadow=\"0\"><root>")
	fmt.Fprintf(&b, "<mxCell id=\"%s\"/>", RootCellID)
	fmt.Fprintf(&b, "<mxCell id=\"%s\" parent=\"%s\"/>", GroupParentID, RootCellID)

	fmt.Fprintf(&b, "<UserObject label=\"\" plantUml=\"%s\" id=\"%s\">", EscapeXMLAttr(opts.PlantUMLSource), EscapeXMLAttr(opts.GroupCellID))
	groupCell, err := BuildCell(CellOptions{
		ID:     opts.GroupCellID,
		Style:  NewStyle("group", "", "editable", "0", "connectable", "0"),
		Vertex: true,
		Parent: GroupParentID,
		Geometry: &core.Geometry{
			X: 0, Y: 0, Width: opts.GroupWidth, Height: opts.GroupHeight,
		},
	})
	if err != nil {
		return "", err
	}
	b.WriteString(groupCell)
	b.WriteString("</UserObject>")

	for _, cell := range opts.Cells {
		b.WriteString(cell)
	}

	b.WriteString("</root></mxGraphModel></diagram></mxfile>")
	return b.String(), nil
}

// EscapeXMLAttr escapes s for use inside a double-quoted XML attribute.
func EscapeXMLAttr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	// xml.EscapeText is conservative about quotes inside character data;
	// attributes additionally need the surrounding quote character escaped.
	return strings.ReplaceAll(buf.String(), `"`, "&#34;")
}

// ToHTMLLabel escapes s and converts newlines to "<br>" the way draw.io
// expects for an html=1 labelled cell, per spec.md §4.3's "All text
// destined for mxCell value attributes is XML-escaped and newlines are
// converted to <br> for HTML text."
func ToHTMLLabel(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = EscapeXMLAttr(line)
	}
	return strings.Join(lines, "<br>")
}
