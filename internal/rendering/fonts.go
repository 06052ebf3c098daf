package rendering

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/sfnt"
)

// fontFamily is the embedded UTF-8 face every element is drawn with.
const fontFamily = "DejaVu"

// replacementChar stands in for characters the embedded face cannot draw.
const replacementChar = '?'

var (
	//go:embed fonts/DejaVuSans.ttf
	regularTTF []byte
	//go:embed fonts/DejaVuSans-Bold.ttf
	boldTTF []byte
)

var coverage = sync.OnceValues(func() (*sfnt.Font, error) {
	return sfnt.Parse(regularTTF)
})

// registerFonts adds the regular and bold faces to pdf.
func registerFonts(pdf *fpdf.Fpdf) error {
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularTTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldTTF)
	if pdf.Err() {
		return &RenderError{Message: "failed to load embedded font", Cause: pdf.Error()}
	}
	return nil
}

// glyphFilter replaces characters without a glyph and remembers which ones it
// replaced.
type glyphFilter struct {
	face    *sfnt.Font
	buf     sfnt.Buffer
	missing map[rune]struct{}
}

func newGlyphFilter() (*glyphFilter, error) {
	face, err := coverage()
	if err != nil {
		return nil, &RenderError{Message: "failed to parse embedded font", Cause: err}
	}
	return &glyphFilter{face: face, missing: make(map[rune]struct{})}, nil
}

func (g *glyphFilter) apply(s string) string {
	out := make([]rune, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		if r == '\n' || g.drawable(r) {
			out = append(out, r)
			continue
		}
		g.missing[r] = struct{}{}
		out = append(out, replacementChar)
	}
	return string(out)
}

// drawable reports whether the face has a glyph for r. The PDF writer only
// addresses the Basic Multilingual Plane.
func (g *glyphFilter) drawable(r rune) bool {
	if r > 0xFFFF || r == utf8.RuneError {
		return false
	}
	idx, err := g.face.GlyphIndex(&g.buf, r)
	return err == nil && idx != 0
}

// Missing returns the replaced characters in code point order.
func (g *glyphFilter) Missing() []rune {
	out := make([]rune, 0, len(g.missing))
	for r := range g.missing {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// FormatRunes renders runes as U+XXXX code points for logging.
func FormatRunes(rs []rune) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = fmt.Sprintf("U+%04X", r)
	}
	return out
}
