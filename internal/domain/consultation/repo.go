package consultation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts the consultation and all of its diagnoses and
	// prescriptions. Callers are expected to run it inside a
	// transaction so a failure leaves no partial record.
	Create(ctx context.Context, c *Consultation) error
	// GetByID returns nil when no such consultation exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error)
	ListByDoctor(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*Consultation, int, error)
	// GetPrescription also reports the patient who owns it; nil when
	// the prescription does not exist.
	GetPrescription(ctx context.Context, id uuid.UUID) (*Prescription, uuid.UUID, error)
	// MarkPurchased stamps purchased_at once; re-marking is a no-op.
	MarkPurchased(ctx context.Context, prescriptionID uuid.UUID, at time.Time) error
	SetReminder(ctx context.Context, prescriptionID uuid.UUID, at time.Time) error
}
