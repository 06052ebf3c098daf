package rendering

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checked(g CheckGrid) []string {
	var out []string
	for _, row := range g.Rows {
		for _, c := range row {
			if c.Checked {
				out = append(out, c.Label)
			}
		}
	}
	return out
}

func TestDrugScreenGrid_Layout(t *testing.T) {
	g := DrugScreenGrid(nil)
	require.Len(t, g.Rows, 2)
	require.Len(t, g.Rows[0], 8)
	require.Len(t, g.Rows[1], 8)
	assert.Equal(t, "AMP", g.Rows[0][0].Label)
	assert.Equal(t, "K2", g.Rows[1][7].Label)
	assert.Empty(t, checked(g), "absent results render unchecked")
}

func TestDrugScreenGrid_FollowsInputOnly(t *testing.T) {
	results := map[string]bool{"THC": true, "COC": false, "mAMP": true}
	got := checked(DrugScreenGrid(results))
	if diff := cmp.Diff([]string{"mAMP", "THC"}, got); diff != "" {
		t.Errorf("checked boxes mismatch (-want +got):\n%s", diff)
	}

	allNegative := map[string]bool{}
	for _, codes := range DrugPanel {
		for _, c := range codes {
			allNegative[c] = false
		}
	}
	assert.Empty(t, checked(DrugScreenGrid(allNegative)))
}

func TestDrugScreenGrid_CaseInsensitiveFallback(t *testing.T) {
	got := checked(DrugScreenGrid(map[string]bool{"thc": true, "MAMP": true}))
	assert.Equal(t, []string{"mAMP", "THC"}, got)
}

func TestUnknownDrugCodes(t *testing.T) {
	assert.Equal(t, []string{"KRATOM", "XYZ"},
		UnknownDrugCodes(map[string]bool{"THC": true, "XYZ": true, "KRATOM": false, "mamp": true}))
	assert.Nil(t, UnknownDrugCodes(nil))
}
