// Package documents composes the onboarding documents requested for a
// submission and assembles them into one PDF.
package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/journeyhouse/onboarding/internal/rendering"
	"github.com/journeyhouse/onboarding/internal/templates"
	"github.com/journeyhouse/onboarding/internal/types"
)

// UnsignedName fills the resident name when the submission has none.
const UnsignedName = "_______________"

// Request is the input to one composer call.
type Request struct {
	Submission *types.Submission
	Type       types.DocumentType
	Tag        string // as requested, kept for unrecognized types
	Date       time.Time
}

// Composer builds the elements of one document. sig is nil when the resident
// has not signed that document.
type Composer func(ctx context.Context, req *Request, sig *types.SignatureRecord) ([]rendering.Element, error)

// composeIntakeForm renders the intake summary straight from the submission.
func (r *Registry) composeIntakeForm(_ context.Context, req *Request, sig *types.SignatureRecord) ([]rendering.Element, error) {
	s := req.Submission
	out := []rendering.Element{rendering.Title("Journey House Intake Form")}

	sections := [][]rendering.Element{
		PersonalSection(s),
		IntakeDetailsSection(s),
		InsuranceSection(s.Insurances),
		EmergencyContactSection(s.EmergencyContact),
		VehicleSection(s.Vehicle),
		MedicalSection(s.MedicalInformation),
		MedicationsSection(s.Medications),
		AuthorizedPeopleSection(s.AuthorizedPeople),
		HealthStatusSection(s.HealthStatus),
		LegalStatusSection(s.LegalStatus),
		PendingChargesSection(s.PendingCharges),
		ConvictionsSection(s.Convictions),
		DrugScreenSection(s.DrugScreen),
		RecoveryResidencesSection(s.RecoveryResidences),
		HospitalizationsSection(s.Hospitalizations),
		IncarcerationsSection(s.Incarcerations),
		ConsentSignaturesSection(s.Signatures),
	}
	for _, section := range sections {
		out = append(out, section...)
	}

	out = append(out, rendering.Heading("Certification"), rendering.Paragraph(CertificationText))
	out = append(out, SignatureBlock(sig, r.newID())...)
	return append(out,
		rendering.SignatureLine("Witness Signature"),
		rendering.SignatureLine("Date"),
		rendering.SignatureLine("Printed Name"),
	), nil
}

// composeUnknown renders a notice in place of an unrecognized document.
func (r *Registry) composeUnknown(_ context.Context, req *Request, _ *types.SignatureRecord) ([]rendering.Element, error) {
	return []rendering.Element{
		rendering.Title("Document Type Not Recognized"),
		rendering.Notice(fmt.Sprintf("The requested document type %q is not recognized and was not generated.", req.Tag)),
	}, nil
}

// markdownComposer renders a template after substituting values(req).
func (r *Registry) markdownComposer(values func(*Request) map[string]string) Composer {
	return func(ctx context.Context, req *Request, sig *types.SignatureRecord) ([]rendering.Element, error) {
		tmpl, err := r.loader.Load(ctx, req.Type)
		if err != nil {
			return nil, err
		}

		text := templates.Substitute(tmpl.Body, values(req))
		if left := templates.Placeholders(text); len(left) > 0 {
			r.logger.Warn("template has unreplaced placeholders",
				zap.String("type", string(req.Type)),
				zap.Strings("placeholders", left))
		}

		elements, err := rendering.MarkdownToElements(text)
		if err != nil {
			return nil, err
		}
		if len(elements) == 0 || elements[0].Kind != rendering.KindTitle {
			elements = append([]rendering.Element{rendering.Title(tmpl.Title)}, elements...)
		}
		return append(elements, SignatureBlock(sig, r.newID())...), nil
	}
}

// baseValues are substituted into every template.
func baseValues(req *Request) map[string]string {
	name := UnsignedName
	if req.Submission != nil {
		if full := req.Submission.FullName(); full != "" {
			name = EscapeMarkdown(full)
		}
	}
	return map[string]string{
		templates.ResidentName: name,
		templates.Date:         req.Date.Format("January 2, 2006"),
	}
}

// criminalHistoryValues adds the legal status summary and enumerations.
func criminalHistoryValues(req *Request) map[string]string {
	values := baseValues(req)
	var s types.Submission
	if req.Submission != nil {
		s = *req.Submission
	}
	values[templates.LegalStatusSummary] = LegalStatusSummary(s.LegalStatus)
	values[templates.PendingCharges] = PendingChargesText(s.PendingCharges)
	values[templates.Convictions] = ConvictionsText(s.Convictions)
	return values
}

// errorNotice replaces a document that failed to compose.
func errorNotice(tag string, err error) []rendering.Element {
	title := types.DisplayName(tag)
	if strings.TrimSpace(title) == "" {
		title = "Document"
	}
	return []rendering.Element{
		rendering.Title(title),
		rendering.Notice("An error occurred while rendering this document: " + err.Error()),
	}
}
