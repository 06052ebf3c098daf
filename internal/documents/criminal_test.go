package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/journeyhouse/onboarding/internal/types"
)

func TestLegalStatusSummary(t *testing.T) {
	tests := []struct {
		name string
		in   *types.LegalStatus
		want string
	}{
		{"nil", nil, NoLegalStatus},
		{"nothing answered", &types.LegalStatus{Jurisdiction: "Travis"}, NoLegalStatus},
		{
			name: "probation with other jurisdiction",
			in: &types.LegalStatus{
				HasProbationPretrial: boolPtr(true),
				Jurisdiction:         "other",
				OtherJurisdiction:    "Hays",
				HasConvictions:       boolPtr(false),
			},
			want: "- On probation or pretrial supervision in Hays\n- No prior convictions",
		},
		{
			name: "on bond with bondsman",
			in:   &types.LegalStatus{IsOnBond: boolPtr(true), BondsmanName: "A1 Bail", IsSexOffender: boolPtr(false)},
			want: "- Currently on bond (bondsman: A1 Bail)\n- Not a registered sex offender",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LegalStatusSummary(tt.in))
		})
	}
}

func TestPendingChargesText(t *testing.T) {
	assert.Equal(t, NoPendingCharges, PendingChargesText(nil))
	assert.Equal(t, NoPendingCharges, PendingChargesText([]types.PendingCharge{{ChargeDescription: "  "}}))
	assert.Equal(t, "- DUI \\(Austin\\)\n- Theft",
		PendingChargesText([]types.PendingCharge{{ChargeDescription: "DUI", Location: "Austin"}, {ChargeDescription: "Theft"}}))
}

func TestConvictionsText(t *testing.T) {
	assert.Equal(t, NoConvictions, ConvictionsText(nil))
	assert.Equal(t, "- Possession\n- Burglary", ConvictionsText([]types.Conviction{{Offense: "Possession"}, {Offense: ""}, {Offense: "Burglary"}}))
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `\*\*bold\*\* \[x\]\(y\)`, EscapeMarkdown("**bold** [x](y)"))
	assert.Equal(t, "line one line two", EscapeMarkdown("line one\nline two"))
	assert.Equal(t, "José", EscapeMarkdown("José"))
}
