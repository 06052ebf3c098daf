package rendering

import "strings"

// SanitizeText prepares text for the PDF writer. Line endings are normalized,
// tabs become spaces, other control characters are dropped, and a few
// typographic characters are mapped to plain equivalents.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text))

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, r := range text {
		switch {
		case r == '\n':
			result.WriteRune(r)
		case r == '\t':
			result.WriteString("    ")
		case r == '\r':
			result.WriteRune('\n')
		case r < 0x20 || r == 0x7f:
			// dropped
		case r == '\u00a0' || r == '\u2007' || r == '\u202f':
			result.WriteRune(' ')
		case r == '\u2010' || r == '\u2011' || r == '\u2012' || r == '\u2212':
			result.WriteRune('-')
		case r == '\u2713' || r == '\u2714':
			result.WriteRune('x')
		case r == '\u2192':
			result.WriteString("->")
		case r == '\u2264':
			result.WriteString("<=")
		case r == '\u2265':
			result.WriteString(">=")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
