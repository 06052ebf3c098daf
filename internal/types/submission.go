// Package types provides type definitions for the onboarding submission and the
// document requests built from it.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Submission is the onboarding form as posted by the intake client. It is also the
// body of a document generation request, which adds DocumentTypes/DocumentType.
type Submission struct {
	// Personal information
	FirstName            string `json:"firstName" validate:"required"`
	LastName             string `json:"lastName" validate:"required"`
	IntakeDate           string `json:"intakeDate" validate:"required"`
	HousingLocation      string `json:"housingLocation" validate:"required"`
	DateOfBirth          string `json:"dateOfBirth" validate:"required"`
	SocialSecurityNumber string `json:"socialSecurityNumber" validate:"required,ssn"`
	Sex                  string `json:"sex" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	PhoneNumber          string `json:"phoneNumber,omitempty"`
	DriversLicenseNumber string `json:"driversLicenseNumber" validate:"required"`

	HealthStatus       *HealthStatus       `json:"healthStatus,omitempty"`
	Vehicle            *Vehicle            `json:"vehicle,omitempty"`
	Insurances         []Insurance         `json:"insurances,omitempty" validate:"dive"`
	EmergencyContact   *EmergencyContact   `json:"emergencyContact,omitempty" validate:"required"`
	MedicalInformation *MedicalInformation `json:"medicalInformation,omitempty"`
	Medications        []string            `json:"medications,omitempty"`
	AuthorizedPeople   []AuthorizedPerson  `json:"authorizedPeople,omitempty" validate:"dive"`

	LegalStatus    *LegalStatus    `json:"legalStatus,omitempty"`
	PendingCharges []PendingCharge `json:"pendingCharges,omitempty"`
	Convictions    []Conviction    `json:"convictions,omitempty"`

	RecoveryResidences []RecoveryResidence `json:"recoveryResidences,omitempty"`
	Hospitalizations   []Hospitalization   `json:"hospitalizations,omitempty"`
	Incarcerations     []Incarceration     `json:"incarcerations,omitempty"`
	DrugScreen         *DrugScreen         `json:"drugScreen,omitempty"`

	Signatures []SignatureRecord `json:"signatures,omitempty" validate:"dive"`

	// Document generation request fields
	DocumentTypes []string `json:"documentTypes,omitempty"`
	DocumentType  string   `json:"documentType,omitempty"`
}

// FullName returns "First Last", skipping whichever part is blank.
func (s *Submission) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
}

// Validate checks the submission against the strict intake rules.
func (s *Submission) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// HealthStatus holds the self-reported health and demographic flags.
type HealthStatus struct {
	Pregnant                bool     `json:"pregnant"`
	DevelopmentallyDisabled bool     `json:"developmentallyDisabled"`
	CoOccurringDisorder     bool     `json:"coOccurringDisorder"`
	DocSupervision          bool     `json:"docSupervision"`
	Felon                   bool     `json:"felon"`
	PhysicallyHandicapped   bool     `json:"physicallyHandicapped"`
	PostPartum              bool     `json:"postPartum"`
	PrimaryFemaleCaregiver  bool     `json:"primaryFemaleCaregiver"`
	RecentlyIncarcerated    bool     `json:"recentlyIncarcerated"`
	SexOffender             bool     `json:"sexOffender"`
	LGBTQ                   bool     `json:"lgbtq"`
	Veteran                 bool     `json:"veteran"`
	InsulinDependent        bool     `json:"insulinDependent"`
	HistoryOfSeizures       bool     `json:"historyOfSeizures"`
	Others                  []string `json:"others,omitempty"`

	Race             string `json:"race,omitempty"`
	Ethnicity        string `json:"ethnicity,omitempty"`
	HouseholdIncome  string `json:"householdIncome,omitempty"`
	EmploymentStatus string `json:"employmentStatus,omitempty"`
}

// HealthFlag pairs a display label with its value.
type HealthFlag struct {
	Label string
	Set   bool
}

// Flags returns the boolean conditions in display order.
func (h *HealthStatus) Flags() []HealthFlag {
	return []HealthFlag{
		{"Pregnant", h.Pregnant},
		{"Developmentally Disabled", h.DevelopmentallyDisabled},
		{"Co-Occurring Disorder", h.CoOccurringDisorder},
		{"DOC Supervision", h.DocSupervision},
		{"Felon", h.Felon},
		{"Physically Handicapped", h.PhysicallyHandicapped},
		{"Post-Partum", h.PostPartum},
		{"Primary Female Caregiver", h.PrimaryFemaleCaregiver},
		{"Recently Incarcerated", h.RecentlyIncarcerated},
		{"Sex Offender", h.SexOffender},
		{"LGBTQ+", h.LGBTQ},
		{"Veteran", h.Veteran},
		{"Insulin Dependent", h.InsulinDependent},
		{"History of Seizures", h.HistoryOfSeizures},
	}
}

// Vehicle describes the resident's vehicle. Pointer booleans distinguish "not
// answered" from an explicit "No".
type Vehicle struct {
	Make          string `json:"make,omitempty"`
	Model         string `json:"model,omitempty"`
	TagNumber     string `json:"tagNumber,omitempty"`
	Insured       *bool  `json:"insured,omitempty"`
	InsuranceType string `json:"insuranceType,omitempty"`
	PolicyNumber  string `json:"policyNumber,omitempty"`
}

// IsEmpty reports whether no vehicle detail was provided.
func (v *Vehicle) IsEmpty() bool {
	return v == nil || (v.Make == "" && v.Model == "" && v.TagNumber == "" &&
		v.Insured == nil && v.InsuranceType == "" && v.PolicyNumber == "")
}

// Insurance is one health insurance entry.
type Insurance struct {
	InsuranceType string `json:"insuranceType" validate:"required"`
	PolicyNumber  string `json:"policyNumber,omitempty"`
}

// EmergencyContact is the person to call in an emergency.
type EmergencyContact struct {
	FirstName         string `json:"firstName" validate:"required"`
	LastName          string `json:"lastName" validate:"required"`
	Phone             string `json:"phone" validate:"required,min=10"`
	Relationship      string `json:"relationship" validate:"required"`
	OtherRelationship string `json:"otherRelationship,omitempty"`
}

// MedicalInformation captures diagnosis and medication-assisted treatment answers.
type MedicalInformation struct {
	DualDiagnosis       *bool  `json:"dualDiagnosis,omitempty"`
	MAT                 *bool  `json:"mat,omitempty"`
	MATMedication       string `json:"matMedication,omitempty"`
	MATMedicationOther  string `json:"matMedicationOther,omitempty"`
	NeedPsychMedication *bool  `json:"needPsychMedication,omitempty"`
}

// AuthorizedPerson may receive information about the resident.
type AuthorizedPerson struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
	Phone        string `json:"phone" validate:"required,min=10"`
}

// LegalStatus captures supervision and criminal history flags.
type LegalStatus struct {
	HasProbationPretrial *bool  `json:"hasProbationPretrial,omitempty"`
	Jurisdiction         string `json:"jurisdiction,omitempty"`
	OtherJurisdiction    string `json:"otherJurisdiction,omitempty"`
	HasPendingCharges    *bool  `json:"hasPendingCharges,omitempty"`
	HasConvictions       *bool  `json:"hasConvictions,omitempty"`
	IsWanted             *bool  `json:"isWanted,omitempty"`
	IsOnBond             *bool  `json:"isOnBond,omitempty"`
	BondsmanName         string `json:"bondsmanName,omitempty"`
	IsSexOffender        *bool  `json:"isSexOffender,omitempty"`
}

// PendingCharge is an open criminal charge.
type PendingCharge struct {
	ChargeDescription string `json:"chargeDescription"`
	Location          string `json:"location,omitempty"`
}

// Conviction is a prior conviction.
type Conviction struct {
	Offense string `json:"offense"`
}

// RecoveryResidence is a previous sober-living stay.
type RecoveryResidence struct {
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Hospitalization is a previous inpatient stay.
type Hospitalization struct {
	Facility string `json:"facility"`
	Reason   string `json:"reason,omitempty"`
	Date     string `json:"date,omitempty"`
}

// Incarceration is a previous period of incarceration.
type Incarceration struct {
	Facility    string `json:"facility"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// DrugScreen holds an intake drug panel. Results is keyed by substance code and
// true means the substance tested positive.
type DrugScreen struct {
	Date           string          `json:"date,omitempty"`
	AdministeredBy string          `json:"administeredBy,omitempty"`
	Results        map[string]bool `json:"results,omitempty"`
}

// SignatureRecord is the proof of consent for one document type.
type SignatureRecord struct {
	SignatureType      string `json:"signatureType" validate:"required"`
	Signature          string `json:"signature,omitempty"`
	SignatureID        string `json:"signatureId" validate:"required"`
	SignatureTimestamp string `json:"signatureTimestamp" validate:"required"`
	WitnessSignature   string `json:"witnessSignature,omitempty"`
	WitnessSignatureID string `json:"witnessSignatureId,omitempty"`
	WitnessTimestamp   string `json:"witnessTimestamp,omitempty"`
	Agreed             *bool  `json:"agreed,omitempty"`
}

// HasWitness reports whether witness details were captured.
func (r *SignatureRecord) HasWitness() bool {
	return r.WitnessSignature != "" || r.WitnessSignatureID != "" || r.WitnessTimestamp != ""
}
