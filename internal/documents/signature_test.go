package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/journeyhouse/onboarding/internal/rendering"
	"github.com/journeyhouse/onboarding/internal/types"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-03-01T15:04:00Z", "March 1, 2024 at 3:04 PM UTC"},
		{"2024-03-01T15:04:00.123456Z", "March 1, 2024 at 3:04 PM UTC"},
		{"2024-03-01T09:30:00", "March 1, 2024 at 9:30 AM UTC"},
		{"2024-03-01", "March 1, 2024 at 12:00 AM UTC"},
		{" 2024-03-01 ", "March 1, 2024 at 12:00 AM UTC"},
		{"yesterday afternoon", "yesterday afternoon"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.raw))
		})
	}
}

func TestSignatureBlock_Unsigned(t *testing.T) {
	got := SignatureBlock(nil, "doc-1")
	assert.Equal(t, []rendering.Element{
		rendering.Heading("Signature Verification"),
		rendering.Paragraph("Not signed"),
		rendering.Paragraph("Document ID: doc-1"),
		rendering.SignatureLine("Resident Signature"),
		rendering.SignatureLine("Date"),
	}, got)
}

func TestSignatureBlock_SignedWithWitness(t *testing.T) {
	sig := &types.SignatureRecord{
		Signature:          "Jane Doe",
		SignatureID:        "sig-1",
		SignatureTimestamp: "not a time",
		WitnessSignature:   "Staff Member",
		WitnessSignatureID: "wit-1",
		WitnessTimestamp:   "2024-03-01",
		Agreed:             boolPtr(true),
	}

	assert.Equal(t, []string{
		"Signed by: Jane Doe",
		"Signed on: not a time",
		"Signature ID: sig-1",
		"Agreed: Yes",
		"Witness: Staff Member",
		"Witnessed on: March 1, 2024 at 12:00 AM UTC",
		"Witness Signature ID: wit-1",
		"Document ID: doc-2",
	}, texts(SignatureBlock(sig, "doc-2"), rendering.KindParagraph))
}

func TestSignatureBlock_MissingTimestamp(t *testing.T) {
	got := texts(SignatureBlock(&types.SignatureRecord{SignatureID: "sig-1"}, "d"), rendering.KindParagraph)
	assert.Contains(t, got, "Signed on: not recorded")
	assert.NotContains(t, got, "Not signed")
}
