package documents

import (
	"strings"
	"time"

	"github.com/journeyhouse/onboarding/internal/rendering"
	"github.com/journeyhouse/onboarding/internal/types"
)

// TimestampLayout is how signature times are shown.
const TimestampLayout = "January 2, 2006 at 3:04 PM MST"

var timestampInputs = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatTimestamp renders a client timestamp in long form. Unparseable input is
// returned unchanged.
func FormatTimestamp(raw string) string {
	s := strings.TrimSpace(raw)
	for _, layout := range timestampInputs {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimestampLayout)
		}
	}
	return raw
}

// SignatureBlock renders the verification block closing each document.
func SignatureBlock(sig *types.SignatureRecord, documentID string) []rendering.Element {
	out := []rendering.Element{rendering.Heading("Signature Verification")}

	if sig == nil {
		out = append(out, rendering.Paragraph("Not signed"))
	} else {
		if name := strings.TrimSpace(sig.Signature); name != "" {
			out = append(out, rendering.Paragraph("Signed by: "+name))
		}
		if sig.SignatureTimestamp != "" {
			out = append(out, rendering.Paragraph("Signed on: "+FormatTimestamp(sig.SignatureTimestamp)))
		} else {
			out = append(out, rendering.Paragraph("Signed on: not recorded"))
		}
		if sig.SignatureID != "" {
			out = append(out, rendering.Paragraph("Signature ID: "+sig.SignatureID))
		}
		if sig.Agreed != nil {
			out = append(out, rendering.Paragraph("Agreed: "+rendering.YesNo(*sig.Agreed)))
		}
		if sig.HasWitness() {
			if sig.WitnessSignature != "" {
				out = append(out, rendering.Paragraph("Witness: "+sig.WitnessSignature))
			}
			if sig.WitnessTimestamp != "" {
				out = append(out, rendering.Paragraph("Witnessed on: "+FormatTimestamp(sig.WitnessTimestamp)))
			}
			if sig.WitnessSignatureID != "" {
				out = append(out, rendering.Paragraph("Witness Signature ID: "+sig.WitnessSignatureID))
			}
		}
	}

	return append(out,
		rendering.Paragraph("Document ID: "+documentID),
		rendering.SignatureLine("Resident Signature"),
		rendering.SignatureLine("Date"),
	)
}
