package documents

import (
	"strings"

	"github.com/journeyhouse/onboarding/internal/rendering"
	"github.com/journeyhouse/onboarding/internal/types"
)

// Field lists for the labeled sections of the intake form.
var (
	personalFields = []rendering.Field{
		{Key: "firstName", Label: "First Name"},
		{Key: "lastName", Label: "Last Name"},
		{Key: "dateOfBirth", Label: "Date of Birth"},
		{Key: "socialSecurityNumber", Label: "Social Security Number"},
		{Key: "sex", Label: "Sex"},
		{Key: "email", Label: "Email"},
		{Key: "phoneNumber", Label: "Phone Number"},
		{Key: "driversLicenseNumber", Label: "Driver's License Number"},
	}
	intakeFields = []rendering.Field{
		{Key: "intakeDate", Label: "Intake Date"},
		{Key: "housingLocation", Label: "Housing Location"},
	}
	emergencyContactFields = []rendering.Field{
		{Key: "firstName", Label: "First Name"},
		{Key: "lastName", Label: "Last Name"},
		{Key: "phone", Label: "Phone"},
		{Key: "relationship", Label: "Relationship"},
		{Key: "otherRelationship", Label: "Other Relationship"},
	}
	vehicleFields = []rendering.Field{
		{Key: "make", Label: "Make"},
		{Key: "model", Label: "Model"},
		{Key: "tagNumber", Label: "Tag Number"},
		{Key: "insured", Label: "Insured"},
		{Key: "insuranceType", Label: "Insurance Type"},
		{Key: "policyNumber", Label: "Policy Number"},
	}
	medicalFields = []rendering.Field{
		{Key: "dualDiagnosis", Label: "Dual Diagnosis"},
		{Key: "mat", Label: "Medication-Assisted Treatment"},
		{Key: "matMedication", Label: "MAT Medication"},
		{Key: "matMedicationOther", Label: "Other MAT Medication"},
		{Key: "needPsychMedication", Label: "Needs Psychiatric Medication"},
	}
	legalFields = []rendering.Field{
		{Key: "hasProbationPretrial", Label: "On Probation or Pretrial"},
		{Key: "jurisdiction", Label: "Jurisdiction"},
		{Key: "otherJurisdiction", Label: "Other Jurisdiction"},
		{Key: "hasPendingCharges", Label: "Pending Charges"},
		{Key: "hasConvictions", Label: "Prior Convictions"},
		{Key: "isWanted", Label: "Currently Wanted"},
		{Key: "isOnBond", Label: "On Bond"},
		{Key: "bondsmanName", Label: "Bondsman"},
		{Key: "isSexOffender", Label: "Registered Sex Offender"},
	}
	demographicFields = []rendering.Field{
		{Key: "race", Label: "Race"},
		{Key: "ethnicity", Label: "Ethnicity"},
		{Key: "householdIncome", Label: "Household Income"},
		{Key: "employmentStatus", Label: "Employment Status"},
	}
)

// CertificationText closes the intake form.
const CertificationText = "I certify that the information provided in this intake form is true and complete " +
	"to the best of my knowledge. I understand that providing false information may result in " +
	"discharge from Journey House."

// MaskSSN keeps only the last four digits of a social security number.
func MaskSSN(ssn string) string {
	var digits []rune
	for _, r := range ssn {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return ""
	}
	return "***-**-" + string(digits[len(digits)-4:])
}

// PersonalSection renders identity fields with the SSN masked.
func PersonalSection(s *types.Submission) []rendering.Element {
	values := rendering.ValuesOf(s)
	if values != nil {
		values["socialSecurityNumber"] = MaskSSN(s.SocialSecurityNumber)
	}
	return rendering.LabeledLines("Personal Information", personalFields, values)
}

// IntakeDetailsSection renders the intake date and housing location.
func IntakeDetailsSection(s *types.Submission) []rendering.Element {
	return rendering.LabeledLines("Intake Details", intakeFields, rendering.ValuesOf(s))
}

// InsuranceSection renders the health insurance table.
func InsuranceSection(insurances []types.Insurance) []rendering.Element {
	rows := make([][]string, 0, len(insurances))
	for _, ins := range insurances {
		rows = append(rows, []string{ins.InsuranceType, ins.PolicyNumber})
	}
	return rendering.TableSection("Insurance", []string{"Insurance Type", "Policy Number"}, rows)
}

// EmergencyContactSection renders the emergency contact.
func EmergencyContactSection(c *types.EmergencyContact) []rendering.Element {
	return rendering.LabeledLines("Emergency Contact", emergencyContactFields, rendering.ValuesOf(c))
}

// VehicleSection renders the vehicle details.
func VehicleSection(v *types.Vehicle) []rendering.Element {
	if v.IsEmpty() {
		return rendering.LabeledLines("Vehicle Information", vehicleFields, nil)
	}
	return rendering.LabeledLines("Vehicle Information", vehicleFields, rendering.ValuesOf(v))
}

// MedicalSection renders diagnosis and MAT answers.
func MedicalSection(m *types.MedicalInformation) []rendering.Element {
	return rendering.LabeledLines("Medical Information", medicalFields, rendering.ValuesOf(m))
}

// MedicationsSection renders the medication table.
func MedicationsSection(medications []string) []rendering.Element {
	var rows [][]string
	for _, m := range medications {
		if m = strings.TrimSpace(m); m != "" {
			rows = append(rows, []string{m})
		}
	}
	return rendering.TableSection("Medications", []string{"Medication"}, rows)
}

// AuthorizedPeopleSection renders the people allowed to receive information.
func AuthorizedPeopleSection(people []types.AuthorizedPerson) []rendering.Element {
	rows := make([][]string, 0, len(people))
	for _, p := range people {
		name := strings.TrimSpace(p.FirstName + " " + p.LastName)
		rows = append(rows, []string{name, p.Relationship, p.Phone})
	}
	return rendering.TableSection("Authorized People", []string{"Name", "Relationship", "Phone"}, rows)
}

// HealthStatusSection renders the self-reported conditions and demographics.
func HealthStatusSection(h *types.HealthStatus) []rendering.Element {
	out := []rendering.Element{rendering.Heading("Health Status")}
	if h == nil {
		return append(out, rendering.Paragraph(rendering.Placeholder("Health Status")))
	}

	var reported []rendering.Element
	for _, f := range h.Flags() {
		if f.Set {
			reported = append(reported, rendering.Bullet(f.Label, 0))
		}
	}
	for _, other := range h.Others {
		if other = strings.TrimSpace(other); other != "" {
			reported = append(reported, rendering.Bullet(other, 0))
		}
	}
	if len(reported) == 0 {
		out = append(out, rendering.Paragraph("No health conditions reported"))
	} else {
		out = append(out, reported...)
	}

	demographics := rendering.LabeledLines("Demographics", demographicFields, rendering.ValuesOf(h))
	demographics[0] = rendering.Subheading("Demographics")
	return append(out, demographics...)
}

// LegalStatusSection renders the legal status answers.
func LegalStatusSection(ls *types.LegalStatus) []rendering.Element {
	return rendering.LabeledLines("Legal Status", legalFields, rendering.ValuesOf(ls))
}

// PendingChargesSection renders the pending charges table.
func PendingChargesSection(charges []types.PendingCharge) []rendering.Element {
	rows := make([][]string, 0, len(charges))
	for _, c := range charges {
		rows = append(rows, []string{c.ChargeDescription, c.Location})
	}
	return rendering.TableSection("Pending Charges", []string{"Charge", "Location"}, rows)
}

// ConvictionsSection renders the convictions table.
func ConvictionsSection(convictions []types.Conviction) []rendering.Element {
	rows := make([][]string, 0, len(convictions))
	for _, c := range convictions {
		rows = append(rows, []string{c.Offense})
	}
	return rendering.TableSection("Convictions", []string{"Offense"}, rows)
}

// DrugScreenSection renders the intake drug panel. Without results the grid is
// shown with every box unchecked under the placeholder sentence.
func DrugScreenSection(ds *types.DrugScreen) []rendering.Element {
	out := []rendering.Element{rendering.Heading("Drug Screen")}
	if ds == nil {
		return append(out,
			rendering.Paragraph(rendering.Placeholder("Drug Screen")),
			rendering.GridElement(rendering.DrugScreenGrid(nil)))
	}

	if d := strings.TrimSpace(ds.Date); d != "" {
		out = append(out, rendering.Paragraph("Date: "+d))
	}
	if a := strings.TrimSpace(ds.AdministeredBy); a != "" {
		out = append(out, rendering.Paragraph("Administered By: "+a))
	}
	out = append(out, rendering.GridElement(rendering.DrugScreenGrid(ds.Results)))

	if other := rendering.UnknownDrugCodes(ds.Results); len(other) > 0 {
		parts := make([]string, len(other))
		for i, code := range other {
			parts[i] = code + " " + positiveNegative(ds.Results[code])
		}
		out = append(out, rendering.Paragraph("Other results: "+strings.Join(parts, ", ")))
	}
	return out
}

func positiveNegative(b bool) string {
	if b {
		return "positive"
	}
	return "negative"
}

// RecoveryResidencesSection renders previous sober-living stays.
func RecoveryResidencesSection(residences []types.RecoveryResidence) []rendering.Element {
	rows := make([][]string, 0, len(residences))
	for _, r := range residences {
		rows = append(rows, []string{r.Name, r.Location, r.StartDate, r.EndDate})
	}
	return rendering.TableSection("Recovery Residences",
		[]string{"Residence", "Location", "Start Date", "End Date"}, rows)
}

// HospitalizationsSection renders previous inpatient stays.
func HospitalizationsSection(stays []types.Hospitalization) []rendering.Element {
	rows := make([][]string, 0, len(stays))
	for _, h := range stays {
		rows = append(rows, []string{h.Facility, h.Reason, h.Date})
	}
	return rendering.TableSection("Hospitalizations", []string{"Facility", "Reason", "Date"}, rows)
}

// IncarcerationsSection renders previous periods of incarceration.
func IncarcerationsSection(records []types.Incarceration) []rendering.Element {
	rows := make([][]string, 0, len(records))
	for _, i := range records {
		rows = append(rows, []string{i.Facility, i.ReleaseDate, i.Reason})
	}
	return rendering.TableSection("Incarcerations", []string{"Facility", "Release Date", "Reason"}, rows)
}

// ConsentSignaturesSection lists every signature captured with the submission.
func ConsentSignaturesSection(records []types.SignatureRecord) []rendering.Element {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			types.DisplayName(r.SignatureType),
			r.SignatureID,
			FormatTimestamp(r.SignatureTimestamp),
		})
	}
	return rendering.TableSection("Consent Signatures", []string{"Document", "Signature ID", "Signed On"}, rows)
}
