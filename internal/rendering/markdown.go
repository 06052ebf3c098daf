package rendering

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// MarkdownToElements converts Markdown into layout elements. Heading levels 1-3
// become Title, Heading and Subheading; everything else becomes body text,
// list items, tables or spacers.
func MarkdownToElements(src string) ([]Element, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return nil, &RenderError{Message: "failed to convert markdown", Cause: err}
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return nil, &RenderError{Message: "failed to parse converted markdown", Cause: err}
	}

	var out []Element
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		out = append(out, blockElements(s)...)
	})
	return out, nil
}

func blockElements(s *goquery.Selection) []Element {
	switch goquery.NodeName(s) {
	case "h1":
		return textElement(Title, s)
	case "h2":
		return textElement(Heading, s)
	case "h3":
		return textElement(Subheading, s)
	case "ul":
		return listElements(s, 0, false)
	case "ol":
		return listElements(s, 0, true)
	case "table":
		return []Element{TableElement(tableFromSelection(s))}
	case "hr":
		return []Element{Spacer()}
	case "pre":
		text := strings.TrimRight(s.Text(), "\n")
		if text == "" {
			return nil
		}
		return []Element{Paragraph(text)}
	default:
		// h4-h6, p, blockquote and raw blocks
		return textElement(Paragraph, s)
	}
}

func textElement(build func(string) Element, s *goquery.Selection) []Element {
	text := normalizeSpace(s.Text())
	if text == "" {
		return nil
	}
	return []Element{build(text)}
}

func listElements(list *goquery.Selection, level int, ordered bool) []Element {
	var out []Element
	list.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		own := li.Clone()
		own.Find("ul, ol").Remove()
		text := normalizeSpace(own.Text())
		if ordered {
			out = append(out, NumberedItem(i+1, text, level))
		} else {
			out = append(out, Bullet(text, level))
		}
		li.ChildrenFiltered("ul, ol").Each(func(_ int, nested *goquery.Selection) {
			out = append(out, listElements(nested, level+1, goquery.NodeName(nested) == "ol")...)
		})
	})
	return out
}

func tableFromSelection(s *goquery.Selection) Table {
	var t Table
	s.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var cells []string
		tr.Children().Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, normalizeSpace(cell.Text()))
		})
		if t.Headers == nil && (i == 0 || tr.Find("th").Length() > 0) {
			t.Headers = cells
			return
		}
		t.Rows = append(t.Rows, cells)
	})
	return t
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
