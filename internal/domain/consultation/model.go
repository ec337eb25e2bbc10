package consultation

import (
	"time"

	"github.com/google/uuid"
)

// Consultation is a clinician-authored visit record on a patient's
// chart, together with its diagnoses and prescriptions. It is only
// ever written as one unit, under the patient's signed consent.
type Consultation struct {
	ID              uuid.UUID      `json:"id"`
	PatientID       uuid.UUID      `json:"patient_id"`
	DoctorProfileID uuid.UUID      `json:"doctor_profile_id"`
	Notes           string         `json:"notes"`
	CreatedAt       time.Time      `json:"created_at"`
	Diagnoses       []Diagnosis    `json:"diagnoses"`
	Prescriptions   []Prescription `json:"prescriptions"`
}

type Diagnosis struct {
	ID             uuid.UUID `json:"id"`
	ConsultationID uuid.UUID `json:"consultation_id"`
	Name           string    `json:"name"`
	Notes          *string   `json:"notes,omitempty"`
}

type Prescription struct {
	ID             uuid.UUID  `json:"id"`
	ConsultationID uuid.UUID  `json:"consultation_id"`
	MedicineName   string     `json:"medicine_name"`
	Dosage         string     `json:"dosage"`
	Quantity       int        `json:"quantity"`
	PurchasedAt    *time.Time `json:"purchased_at,omitempty"`
	ReminderAt     *time.Time `json:"reminder_at,omitempty"`
}

// SignedRecord is the exact action payload the patient's device signs.
// The nonce binds the signature to one server challenge; any change to
// any field after signing invalidates the consent.
type SignedRecord struct {
	Nonce         string              `json:"nonce"`
	PatientID     uuid.UUID           `json:"patient_id"`
	Notes         string              `json:"notes"`
	Diagnoses     []DiagnosisInput    `json:"diagnoses"`
	Prescriptions []PrescriptionInput `json:"prescriptions"`
}

// SignedNonce implements consent.NonceBearer: the verifier rejects
// the record unless this nonce is the one it just consumed.
func (r SignedRecord) SignedNonce() string {
	return r.Nonce
}

type DiagnosisInput struct {
	Name  string  `json:"name"`
	Notes *string `json:"notes,omitempty"`
}

type PrescriptionInput struct {
	MedicineName string `json:"medicine_name"`
	Dosage       string `json:"dosage"`
	Quantity     int    `json:"quantity"`
}
