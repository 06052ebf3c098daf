package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/journeyhouse/onboarding/internal/config"
	"github.com/journeyhouse/onboarding/internal/types"
)

// Consent tables
const (
	TableConsents           = "consents"
	TableMedicationConsents = "medication_consents"
	TableTreatmentConsents  = "treatment_consents"
	TablePriceConsents      = "price_consents"
	TableDisclosureConsents = "disclosure_consents"
)

// Sealer encrypts the SSN. additionalData is the participant ID.
type Sealer interface {
	Seal(plaintext, additionalData string) (config.SealedValue, error)
}

// ConsentTable returns the table a signature of the given type is stored in.
func ConsentTable(signatureType string) string {
	switch strings.ToLower(strings.TrimSpace(signatureType)) {
	case "medication":
		return TableMedicationConsents
	case "treatment":
		return TableTreatmentConsents
	case "price_consent":
		return TablePriceConsents
	case "disclosure":
		return TableDisclosureConsents
	default:
		return TableConsents
	}
}

// SaveSubmission writes s in one transaction and returns the new participant
// ID. Any failed insert rolls back everything and returns *PersistenceError.
func (db *DB) SaveSubmission(ctx context.Context, s *types.Submission, sealer Sealer) (_ uuid.UUID, err error) {
	if s == nil {
		return uuid.Nil, &PersistenceError{Cause: fmt.Errorf("submission is nil")}
	}
	if sealer == nil {
		return uuid.Nil, &PersistenceError{Table: "participant_sensitive_info", Cause: fmt.Errorf("no sealer configured")}
	}

	tx, err := db.begin.Begin(ctx)
	if err != nil {
		return uuid.Nil, &PersistenceError{Cause: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer func() {
		// A failed rollback is reported alongside the error that caused it.
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			err = errors.Join(err, fmt.Errorf("failed to roll back transaction: %w", rErr))
		}
	}()

	id := uuid.New()
	w := &submissionWriter{ctx: ctx, tx: tx, id: id}
	w.write(s, sealer)
	if w.err != nil {
		return uuid.Nil, w.err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, &PersistenceError{Cause: fmt.Errorf("failed to commit transaction: %w", err)}
	}
	return id, nil
}

// submissionWriter runs the inserts for one participant, stopping at the first
// failure.
type submissionWriter struct {
	ctx context.Context
	tx  pgx.Tx
	id  uuid.UUID
	err error
}

func (w *submissionWriter) exec(table, sql string, args ...any) {
	if w.err != nil {
		return
	}
	if _, err := w.tx.Exec(w.ctx, sql, args...); err != nil {
		w.err = &PersistenceError{Table: table, Cause: err}
	}
}

func (w *submissionWriter) write(s *types.Submission, sealer Sealer) {
	w.exec("participants",
		`INSERT INTO participants (participant_id, first_name, last_name, intake_date, housing_location,
		     date_of_birth, sex, email, phone_number, drivers_license_number)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		w.id, s.FirstName, s.LastName, nullIfEmpty(s.IntakeDate), nullIfEmpty(s.HousingLocation),
		nullIfEmpty(s.DateOfBirth), nullIfEmpty(strings.ToLower(s.Sex)), nullIfEmpty(strings.ToLower(s.Email)),
		nullIfEmpty(s.PhoneNumber), nullIfEmpty(s.DriversLicenseNumber),
	)

	if w.err == nil {
		sealed, err := sealer.Seal(s.SocialSecurityNumber, w.id.String())
		if err != nil {
			w.err = &PersistenceError{Table: "participant_sensitive_info", Cause: err}
			return
		}
		w.exec("participant_sensitive_info",
			`INSERT INTO participant_sensitive_info (participant_id, ssn_encrypted, encryption_iv)
			 VALUES ($1, $2, $3)`,
			w.id, sealed.Ciphertext, sealed.Nonce,
		)
	}

	if v := s.Vehicle; !v.IsEmpty() {
		w.exec("vehicles",
			`INSERT INTO vehicles (participant_id, make, model, tag_number, is_insured, insurance_type, policy_number)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			w.id, nullIfEmpty(v.Make), nullIfEmpty(v.Model), nullIfEmpty(v.TagNumber), v.Insured,
			nullIfEmpty(v.InsuranceType), nullIfEmpty(v.PolicyNumber),
		)
	}

	for _, ins := range s.Insurances {
		w.exec("insurance",
			`INSERT INTO insurance (participant_id, insurance_type, policy_number) VALUES ($1, $2, $3)`,
			w.id, ins.InsuranceType, nullIfEmpty(ins.PolicyNumber),
		)
	}

	if c := s.EmergencyContact; c != nil {
		w.exec("emergency_contacts",
			`INSERT INTO emergency_contacts (participant_id, first_name, last_name, phone, relationship, other_relationship)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			w.id, c.FirstName, c.LastName, c.Phone, c.Relationship, nullIfEmpty(c.OtherRelationship),
		)
	}

	if m := s.MedicalInformation; m != nil {
		w.exec("medical_info",
			`INSERT INTO medical_info (participant_id, dual_diagnosis, mat, mat_medication, mat_medication_other,
			     need_psych_medication)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			w.id, m.DualDiagnosis, m.MAT, nullIfEmpty(m.MATMedication), nullIfEmpty(m.MATMedicationOther),
			m.NeedPsychMedication,
		)
	}

	for _, med := range s.Medications {
		if med = strings.TrimSpace(med); med == "" {
			continue
		}
		w.exec("medications",
			`INSERT INTO medications (participant_id, medication_name) VALUES ($1, $2)`,
			w.id, med,
		)
	}

	if ls := s.LegalStatus; ls != nil {
		w.exec("legal_info",
			`INSERT INTO legal_info (participant_id, has_probation_or_pretrial, jurisdiction, other_jurisdiction,
			     has_pending_charges, has_convictions, is_wanted, is_on_bond, bondsman_name, is_sex_offender)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			w.id, ls.HasProbationPretrial, nullIfEmpty(ls.Jurisdiction), nullIfEmpty(ls.OtherJurisdiction),
			ls.HasPendingCharges, ls.HasConvictions, ls.IsWanted, ls.IsOnBond, nullIfEmpty(ls.BondsmanName),
			ls.IsSexOffender,
		)
	}

	for _, p := range s.AuthorizedPeople {
		w.exec("authorized_people",
			`INSERT INTO authorized_people (participant_id, first_name, last_name, relationship, phone)
			 VALUES ($1, $2, $3, $4, $5)`,
			w.id, p.FirstName, p.LastName, p.Relationship, p.Phone,
		)
	}

	for _, sig := range s.Signatures {
		table := ConsentTable(sig.SignatureType)
		w.exec(table,
			fmt.Sprintf(`INSERT INTO %s (participant_id, signature_type, signature, signature_id, signature_timestamp,
			     agreed, witness_signature, witness_signature_id, witness_timestamp)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, table),
			w.id, sig.SignatureType, nullIfEmpty(sig.Signature), sig.SignatureID, nullIfEmpty(sig.SignatureTimestamp),
			sig.Agreed, nullIfEmpty(sig.WitnessSignature), nullIfEmpty(sig.WitnessSignatureID),
			nullIfEmpty(sig.WitnessTimestamp),
		)
	}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
