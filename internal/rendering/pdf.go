package rendering

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimetres on US Letter.
const (
	marginLeft   = 20.0
	marginTop    = 18.0
	marginRight  = 20.0
	marginBottom = 20.0
	lineHeight   = 5.0
	cellPadding  = 1.5
)

// PDF is a serialized document. MissingGlyphs lists characters the embedded
// font cannot draw; each was printed as "?".
type PDF struct {
	Bytes         []byte
	Pages         int
	MissingGlyphs []rune
}

// RenderPDF serializes doc into PDF bytes.
func RenderPDF(doc Document) (*PDF, error) {
	var buf bytes.Buffer
	pages, missing, err := writePDF(&buf, doc)
	if err != nil {
		return nil, err
	}
	return &PDF{Bytes: buf.Bytes(), Pages: pages, MissingGlyphs: missing}, nil
}

// WritePDF serializes doc to w.
func WritePDF(w io.Writer, doc Document) error {
	_, _, err := writePDF(w, doc)
	return err
}

type pdfWriter struct {
	pdf    *fpdf.Fpdf
	glyphs *glyphFilter
}

func writePDF(w io.Writer, doc Document) (int, []rune, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AliasNbPages("")
	if err := registerFonts(pdf); err != nil {
		return 0, nil, err
	}
	glyphs, err := newGlyphFilter()
	if err != nil {
		return 0, nil, err
	}

	pw := &pdfWriter{pdf: pdf, glyphs: glyphs}

	meta := doc.Metadata()
	if meta.Title != "" {
		pdf.SetTitle(pw.text(meta.Title), true)
	}
	if meta.Author != "" {
		pdf.SetAuthor(pw.text(meta.Author), true)
	}
	if meta.Subject != "" {
		pdf.SetSubject(pw.text(meta.Subject), true)
	}
	pdf.SetCreator("onboarding", true)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	for _, e := range doc.elements {
		pw.draw(e)
		if pdf.Err() {
			return 0, nil, &RenderError{Message: fmt.Sprintf("failed to lay out %s", e.Kind), Cause: pdf.Error()}
		}
	}

	pages := pdf.PageNo()
	if err := pdf.Output(w); err != nil {
		return 0, nil, &RenderError{Message: "failed to write PDF", Cause: err}
	}
	return pages, glyphs.Missing(), nil
}

func (pw *pdfWriter) text(s string) string {
	return pw.glyphs.apply(SanitizeText(s))
}

func (pw *pdfWriter) contentWidth() float64 {
	width, _ := pw.pdf.GetPageSize()
	return width - marginLeft - marginRight
}

// ensureSpace starts a new page when h millimetres do not fit on the current one.
func (pw *pdfWriter) ensureSpace(h float64) {
	_, height := pw.pdf.GetPageSize()
	if pw.pdf.GetY()+h > height-marginBottom {
		pw.pdf.AddPage()
	}
}

func (pw *pdfWriter) draw(e Element) {
	pdf := pw.pdf
	switch e.Kind {
	case KindTitle:
		pdf.SetFont(fontFamily, "B", 16)
		pdf.MultiCell(0, 8, pw.text(e.Text), "", "C", false)
		pdf.Ln(3)
	case KindHeading:
		pw.ensureSpace(16)
		pdf.Ln(2)
		pdf.SetFont(fontFamily, "B", 13)
		pdf.MultiCell(0, 7, pw.text(e.Text), "", "L", false)
		y := pdf.GetY()
		pdf.SetDrawColor(160, 160, 160)
		pdf.Line(marginLeft, y, marginLeft+pw.contentWidth(), y)
		pdf.SetDrawColor(0, 0, 0)
		pdf.Ln(2)
	case KindSubheading:
		pw.ensureSpace(12)
		pdf.Ln(1)
		pdf.SetFont(fontFamily, "B", 11)
		pdf.MultiCell(0, 6, pw.text(e.Text), "", "L", false)
		pdf.Ln(1)
	case KindParagraph:
		pdf.SetFont(fontFamily, "", 10)
		pdf.MultiCell(0, lineHeight, pw.text(e.Text), "", "L", false)
		pdf.Ln(1.5)
	case KindBullet:
		pw.drawBullet(e)
	case KindNotice:
		pdf.SetFont(fontFamily, "B", 10)
		pdf.SetFillColor(253, 236, 236)
		pdf.SetTextColor(150, 20, 20)
		pdf.MultiCell(0, 6, pw.text(e.Text), "1", "L", true)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFillColor(255, 255, 255)
		pdf.Ln(2)
	case KindTable:
		pw.drawTable(e.Table)
	case KindCheckGrid:
		pw.drawGrid(e.Grid)
	case KindSpacer:
		pdf.Ln(4)
	case KindPageBreak:
		pdf.AddPage()
	case KindSignatureLine:
		pw.ensureSpace(18)
		pdf.Ln(10)
		y := pdf.GetY()
		pdf.Line(marginLeft, y, marginLeft+80, y)
		pdf.Ln(1)
		pdf.SetFont(fontFamily, "", 8)
		pdf.CellFormat(80, 4, pw.text(e.Text), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}
}

func (pw *pdfWriter) drawBullet(e Element) {
	pdf := pw.pdf
	indent := 4.0 + float64(e.Level)*6
	marker := e.Marker
	if marker == "" {
		marker = "•"
	}
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetX(marginLeft + indent)
	pdf.CellFormat(6, lineHeight, pw.text(marker), "", 0, "L", false, 0, "")
	pdf.MultiCell(pw.contentWidth()-indent-6, lineHeight, pw.text(e.Text), "", "L", false)
	pdf.Ln(0.5)
}

func (pw *pdfWriter) drawTable(t *Table) {
	pdf := pw.pdf
	cols := len(t.Headers)
	if cols == 0 {
		for _, r := range t.Rows {
			cols = max(cols, len(r))
		}
	}
	if cols == 0 {
		return
	}
	width := pw.contentWidth() / float64(cols)

	if len(t.Headers) > 0 {
		pdf.SetFont(fontFamily, "B", 9)
		pdf.SetFillColor(230, 230, 230)
		pw.drawRow(t.Headers, cols, width, true)
		pdf.SetFillColor(255, 255, 255)
	}
	pdf.SetFont(fontFamily, "", 9)
	for _, r := range t.Rows {
		pw.drawRow(r, cols, width, false)
	}
	pdf.Ln(3)
}

// drawRow draws one table row, growing its height to the tallest wrapped cell.
// Cells beyond cols are not drawn.
func (pw *pdfWriter) drawRow(cells []string, cols int, width float64, fill bool) {
	pdf := pw.pdf
	texts := make([]string, cols)
	lines := 1
	for i := 0; i < cols && i < len(cells); i++ {
		texts[i] = pw.text(cells[i])
		lines = max(lines, len(pdf.SplitText(texts[i], width-2*cellPadding)))
	}
	height := float64(lines)*lineHeight + 2

	pw.ensureSpace(height)
	x, y := marginLeft, pdf.GetY()
	style := "D"
	if fill {
		style = "FD"
	}
	for i := 0; i < cols; i++ {
		pdf.Rect(x, y, width, height, style)
		pdf.SetXY(x+cellPadding, y+1)
		pdf.MultiCell(width-2*cellPadding, lineHeight, texts[i], "", "L", false)
		x += width
	}
	pdf.SetXY(marginLeft, y+height)
}

func (pw *pdfWriter) drawGrid(g *CheckGrid) {
	pdf := pw.pdf
	cols := 0
	for _, r := range g.Rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return
	}
	width := pw.contentWidth() / float64(cols)
	const box = 4.0

	pdf.SetFont(fontFamily, "", 9)
	for _, row := range g.Rows {
		pw.ensureSpace(8)
		x, y := marginLeft, pdf.GetY()
		for _, c := range row {
			style := "D"
			if c.Checked {
				pdf.SetFillColor(0, 0, 0)
				style = "FD"
			}
			pdf.Rect(x, y+1.5, box, box, style)
			pdf.SetFillColor(255, 255, 255)
			pdf.SetXY(x+box+1.5, y)
			pdf.CellFormat(width-box-1.5, 7, pw.text(strings.TrimSpace(c.Label)), "", 0, "L", false, 0, "")
			x += width
		}
		pdf.SetXY(marginLeft, y+8)
	}
	pdf.Ln(2)
}
