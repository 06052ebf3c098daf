// Package rendering turns structured content into laid-out documents and PDF bytes.
package rendering

import (
	"strconv"
	"strings"
)

// Kind identifies how an element is drawn.
type Kind int

// Element kinds
const (
	KindTitle Kind = iota
	KindHeading
	KindSubheading
	KindParagraph
	KindBullet
	KindNotice
	KindTable
	KindCheckGrid
	KindSpacer
	KindPageBreak
	KindSignatureLine
)

var kindNames = [...]string{
	KindTitle:         "title",
	KindHeading:       "heading",
	KindSubheading:    "subheading",
	KindParagraph:     "paragraph",
	KindBullet:        "bullet",
	KindNotice:        "notice",
	KindTable:         "table",
	KindCheckGrid:     "check_grid",
	KindSpacer:        "spacer",
	KindPageBreak:     "page_break",
	KindSignatureLine: "signature_line",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Table is a grid of text cells under a header row.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Check is one labeled box in a CheckGrid.
type Check struct {
	Label   string
	Checked bool
}

// CheckGrid is a fixed grid of labeled boxes.
type CheckGrid struct {
	Rows [][]Check
}

// Element is one block of a document. Only the fields relevant to Kind are set.
type Element struct {
	Kind   Kind
	Text   string
	Level  int    // bullet nesting depth
	Marker string // list marker, "" for a plain bullet
	Table  *Table
	Grid   *CheckGrid
}

// Title returns a document title element.
func Title(text string) Element { return Element{Kind: KindTitle, Text: text} }

// Heading returns a section heading element.
func Heading(text string) Element { return Element{Kind: KindHeading, Text: text} }

// Subheading returns a subsection heading element.
func Subheading(text string) Element { return Element{Kind: KindSubheading, Text: text} }

// Paragraph returns a body text element.
func Paragraph(text string) Element { return Element{Kind: KindParagraph, Text: text} }

// Bullet returns a list item at nesting depth level.
func Bullet(text string, level int) Element {
	return Element{Kind: KindBullet, Text: text, Level: level}
}

// NumberedItem returns an ordered list item.
func NumberedItem(n int, text string, level int) Element {
	return Element{Kind: KindBullet, Text: text, Level: level, Marker: strconv.Itoa(n) + "."}
}

// Notice returns a highlighted warning or error message.
func Notice(text string) Element { return Element{Kind: KindNotice, Text: text} }

// Spacer returns vertical whitespace.
func Spacer() Element { return Element{Kind: KindSpacer} }

// PageBreak returns a page separator.
func PageBreak() Element { return Element{Kind: KindPageBreak} }

// SignatureLine returns a blank line to sign on, captioned with label.
func SignatureLine(label string) Element { return Element{Kind: KindSignatureLine, Text: label} }

// TableElement wraps t as an element.
func TableElement(t Table) Element {
	c := t.clone()
	return Element{Kind: KindTable, Table: &c}
}

// GridElement wraps g as an element.
func GridElement(g CheckGrid) Element {
	c := g.clone()
	return Element{Kind: KindCheckGrid, Grid: &c}
}

func (t Table) clone() Table {
	out := Table{Headers: append([]string(nil), t.Headers...)}
	if t.Rows != nil {
		out.Rows = make([][]string, len(t.Rows))
		for i, r := range t.Rows {
			out.Rows[i] = append([]string(nil), r...)
		}
	}
	return out
}

func (g CheckGrid) clone() CheckGrid {
	out := CheckGrid{Rows: make([][]Check, len(g.Rows))}
	for i, r := range g.Rows {
		out.Rows[i] = append([]Check(nil), r...)
	}
	return out
}

func (e Element) clone() Element {
	if e.Table != nil {
		t := e.Table.clone()
		e.Table = &t
	}
	if e.Grid != nil {
		g := e.Grid.clone()
		e.Grid = &g
	}
	return e
}

// Metadata is written into the PDF information dictionary.
type Metadata struct {
	Title   string
	Author  string
	Subject string
}

// Builder accumulates elements for one output document. The zero value is ready to use.
type Builder struct {
	meta     Metadata
	elements []Element
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetMetadata sets the document properties.
func (b *Builder) SetMetadata(m Metadata) *Builder {
	b.meta = m
	return b
}

// AddTitle appends a title.
func (b *Builder) AddTitle(text string) *Builder {
	return b.Append(Title(text))
}

// AddSection appends a heading followed by body.
func (b *Builder) AddSection(heading string, body ...Element) *Builder {
	b.Append(Heading(heading))
	return b.Append(body...)
}

// AddParagraph appends body text.
func (b *Builder) AddParagraph(text string) *Builder {
	return b.Append(Paragraph(text))
}

// AddTable appends a table.
func (b *Builder) AddTable(t Table) *Builder {
	return b.Append(TableElement(t))
}

// AddPageBreak starts a new page. It does nothing at the start of the document
// or directly after another page break.
func (b *Builder) AddPageBreak() *Builder {
	if n := len(b.elements); n == 0 || b.elements[n-1].Kind == KindPageBreak {
		return b
	}
	b.elements = append(b.elements, PageBreak())
	return b
}

// Append adds elements in order. Page breaks follow the AddPageBreak rules.
func (b *Builder) Append(elements ...Element) *Builder {
	for _, e := range elements {
		if e.Kind == KindPageBreak {
			b.AddPageBreak()
			continue
		}
		b.elements = append(b.elements, e.clone())
	}
	return b
}

// Len returns the number of elements added so far.
func (b *Builder) Len() int {
	return len(b.elements)
}

// Build returns the finished document. Trailing page breaks are dropped. The
// builder may continue to be used; later changes do not affect the result.
func (b *Builder) Build() Document {
	elements := b.elements
	for len(elements) > 0 && elements[len(elements)-1].Kind == KindPageBreak {
		elements = elements[:len(elements)-1]
	}
	out := make([]Element, len(elements))
	for i, e := range elements {
		out[i] = e.clone()
	}
	return Document{meta: b.meta, elements: out}
}

// Document is an immutable sequence of elements.
type Document struct {
	meta     Metadata
	elements []Element
}

// Metadata returns the document properties.
func (d Document) Metadata() Metadata {
	return d.meta
}

// Len returns the number of elements.
func (d Document) Len() int {
	return len(d.elements)
}

// Elements returns a copy of the element sequence.
func (d Document) Elements() []Element {
	out := make([]Element, len(d.elements))
	for i, e := range d.elements {
		out[i] = e.clone()
	}
	return out
}

// PageBreaks counts the page separators.
func (d Document) PageBreaks() int {
	n := 0
	for _, e := range d.elements {
		if e.Kind == KindPageBreak {
			n++
		}
	}
	return n
}

// Sections splits the document at page breaks.
func (d Document) Sections() [][]Element {
	if len(d.elements) == 0 {
		return nil
	}
	var (
		sections [][]Element
		current  []Element
	)
	for _, e := range d.elements {
		if e.Kind == KindPageBreak {
			sections = append(sections, current)
			current = nil
			continue
		}
		current = append(current, e.clone())
	}
	return append(sections, current)
}

// PlainText renders the document as text, one element per line. Tables are
// written with " | " between cells and check grids as [x]/[ ] boxes.
func (d Document) PlainText() string {
	var sb strings.Builder
	for _, e := range d.elements {
		switch e.Kind {
		case KindPageBreak:
			sb.WriteString("\f\n")
		case KindSpacer:
			sb.WriteString("\n")
		case KindBullet:
			sb.WriteString(strings.Repeat("  ", e.Level))
			if e.Marker != "" {
				sb.WriteString(e.Marker + " ")
			} else {
				sb.WriteString("- ")
			}
			sb.WriteString(e.Text)
			sb.WriteString("\n")
		case KindSignatureLine:
			sb.WriteString("____________________ ")
			sb.WriteString(e.Text)
			sb.WriteString("\n")
		case KindTable:
			sb.WriteString(strings.Join(e.Table.Headers, " | "))
			sb.WriteString("\n")
			for _, row := range e.Table.Rows {
				sb.WriteString(strings.Join(row, " | "))
				sb.WriteString("\n")
			}
		case KindCheckGrid:
			for _, row := range e.Grid.Rows {
				cells := make([]string, len(row))
				for i, c := range row {
					box := "[ ]"
					if c.Checked {
						box = "[x]"
					}
					cells[i] = box + " " + c.Label
				}
				sb.WriteString(strings.Join(cells, " "))
				sb.WriteString("\n")
			}
		default:
			sb.WriteString(e.Text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
