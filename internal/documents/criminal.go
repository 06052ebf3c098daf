package documents

import (
	"strings"

	"github.com/journeyhouse/onboarding/internal/types"
)

// Fallback text for criminal history placeholders with nothing to report.
const (
	NoPendingCharges = "No pending charges reported."
	NoConvictions    = "No convictions reported."
	NoLegalStatus    = "No legal status information reported."
)

// LegalStatusSummary turns the legal status flags into a Markdown bullet list.
// Unanswered flags are left out.
func LegalStatusSummary(ls *types.LegalStatus) string {
	if ls == nil {
		return NoLegalStatus
	}

	var lines []string
	add := func(flag *bool, yes, no string) {
		if flag == nil {
			return
		}
		if *flag {
			lines = append(lines, yes)
		} else {
			lines = append(lines, no)
		}
	}

	supervision := "On probation or pretrial supervision"
	if j := jurisdiction(ls); j != "" {
		supervision += " in " + EscapeMarkdown(j)
	}
	add(ls.HasProbationPretrial, supervision, "Not on probation or pretrial supervision")
	add(ls.HasPendingCharges, "Has pending charges", "No pending charges")
	add(ls.HasConvictions, "Has prior convictions", "No prior convictions")
	add(ls.IsWanted, "Currently wanted by law enforcement", "Not currently wanted by law enforcement")

	onBond := "Currently on bond"
	if b := strings.TrimSpace(ls.BondsmanName); b != "" {
		onBond += " (bondsman: " + EscapeMarkdown(b) + ")"
	}
	add(ls.IsOnBond, onBond, "Not on bond")
	add(ls.IsSexOffender, "Registered sex offender", "Not a registered sex offender")

	if len(lines) == 0 {
		return NoLegalStatus
	}
	return markdownList(lines)
}

func jurisdiction(ls *types.LegalStatus) string {
	if strings.EqualFold(strings.TrimSpace(ls.Jurisdiction), "other") {
		return strings.TrimSpace(ls.OtherJurisdiction)
	}
	return strings.TrimSpace(ls.Jurisdiction)
}

// PendingChargesText enumerates pending charges as a Markdown bullet list.
func PendingChargesText(charges []types.PendingCharge) string {
	var lines []string
	for _, c := range charges {
		desc := strings.TrimSpace(c.ChargeDescription)
		if desc == "" {
			continue
		}
		line := EscapeMarkdown(desc)
		if loc := strings.TrimSpace(c.Location); loc != "" {
			line += " (" + EscapeMarkdown(loc) + ")"
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return NoPendingCharges
	}
	return markdownList(lines)
}

// ConvictionsText enumerates convictions as a Markdown bullet list.
func ConvictionsText(convictions []types.Conviction) string {
	var lines []string
	for _, c := range convictions {
		if offense := strings.TrimSpace(c.Offense); offense != "" {
			lines = append(lines, EscapeMarkdown(offense))
		}
	}
	if len(lines) == 0 {
		return NoConvictions
	}
	return markdownList(lines)
}

func markdownList(lines []string) string {
	return "- " + strings.Join(lines, "\n- ")
}

// EscapeMarkdown backslash-escapes ASCII punctuation and flattens line breaks
// so submitted text is rendered literally inside a template.
func EscapeMarkdown(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			sb.WriteRune(' ')
		case r < 0x80 && strings.ContainsRune("\\`*_{}[]()#+-.!|<>~&'\"$%,:;=?@^/", r):
			sb.WriteRune('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
