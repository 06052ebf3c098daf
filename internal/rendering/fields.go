package rendering

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MinTableRows is the fewest data rows a padded table shows.
const MinTableRows = 3

// Field pairs a source key with its display label.
type Field struct {
	Key   string
	Label string
}

// Placeholder returns the sentence shown when a section has no data.
func Placeholder(title string) string {
	return fmt.Sprintf("No %s provided", strings.ToLower(strings.TrimSpace(title)))
}

// ValuesOf converts a JSON-tagged struct (or pointer to one) into a map keyed by
// JSON field name. A nil pointer yields a nil map.
func ValuesOf(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}

// FormatValue renders a single value for display. It reports false for values
// that count as absent: nil and blank strings.
func FormatValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case bool:
		return YesNo(val), true
	case *bool:
		if val == nil {
			return "", false
		}
		return YesNo(*val), true
	case string:
		s := strings.TrimSpace(val)
		return s, s != ""
	case []string:
		s := strings.Join(val, ", ")
		return s, s != ""
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := FormatValue(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), len(parts) > 0
	case float64:
		return fmt.Sprintf("%g", val), true
	default:
		return fmt.Sprint(val), true
	}
}

// YesNo renders a boolean answer.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// LabeledLines renders a heading followed by one "Label: value" paragraph per
// field, in field order. Absent keys are skipped. When nothing remains the
// heading is followed by the placeholder sentence.
func LabeledLines(title string, fields []Field, values map[string]any) []Element {
	out := []Element{Heading(title)}
	for _, f := range fields {
		s, ok := FormatValue(values[f.Key])
		if !ok {
			continue
		}
		out = append(out, Paragraph(f.Label+": "+s))
	}
	if len(out) == 1 {
		out = append(out, Paragraph(Placeholder(title)))
	}
	return out
}

// BulletList renders a heading and one bullet per non-blank item, or the
// placeholder sentence when there are none.
func BulletList(title string, items []string) []Element {
	out := []Element{Heading(title)}
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, Bullet(s, 0))
		}
	}
	if len(out) == 1 {
		out = append(out, Paragraph(Placeholder(title)))
	}
	return out
}

// PaddedTable builds a table with at least minRows data rows, adding blank rows
// as needed. Rows are never dropped; short rows are padded to the header width.
func PaddedTable(headers []string, rows [][]string, minRows int) Table {
	width := len(headers)
	t := Table{Headers: append([]string(nil), headers...)}
	for _, r := range rows {
		row := append([]string(nil), r...)
		for len(row) < width {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row)
	}
	for len(t.Rows) < minRows {
		t.Rows = append(t.Rows, make([]string, width))
	}
	return t
}

// TableSection renders a heading and a padded table. With no rows the
// placeholder sentence precedes the blank table.
func TableSection(title string, headers []string, rows [][]string) []Element {
	out := []Element{Heading(title)}
	if len(rows) == 0 {
		out = append(out, Paragraph(Placeholder(title)))
	}
	return append(out, TableElement(PaddedTable(headers, rows, MinTableRows)))
}
