package rendering

import (
	"sort"
	"strings"
)

// DrugPanel is the fixed layout of the intake drug screen.
var DrugPanel = [2][]string{
	{"AMP", "BAR", "BUP", "BZO", "COC", "mAMP", "MDMA", "MOP"},
	{"MTD", "OXY", "PCP", "THC", "ETG", "FTY", "TRA", "K2"},
}

// DrugScreenGrid renders the panel with each box checked when results reports
// the substance positive. Codes missing from results are unchecked. Keys match
// exactly first, then case-insensitively.
func DrugScreenGrid(results map[string]bool) CheckGrid {
	folded := make(map[string]bool, len(results))
	for k, v := range results {
		folded[strings.ToUpper(k)] = folded[strings.ToUpper(k)] || v
	}

	var g CheckGrid
	for _, codes := range DrugPanel {
		row := make([]Check, len(codes))
		for i, code := range codes {
			checked, ok := results[code]
			if !ok {
				checked = folded[strings.ToUpper(code)]
			}
			row[i] = Check{Label: code, Checked: checked}
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// UnknownDrugCodes returns the sorted result keys that are not on the panel.
func UnknownDrugCodes(results map[string]bool) []string {
	known := make(map[string]bool)
	for _, codes := range DrugPanel {
		for _, c := range codes {
			known[strings.ToUpper(c)] = true
		}
	}
	var out []string
	for k := range results {
		if !known[strings.ToUpper(k)] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
