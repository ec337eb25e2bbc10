package consultation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
	"github.com/medigram/medigram/internal/platform/auth"
	"github.com/medigram/medigram/internal/platform/consent"
)

// LocationApprover reports whether a doctor profile has at least one
// approved practice location.
type LocationApprover interface {
	HasApprovedLocation(ctx context.Context, profileID uuid.UUID) (bool, error)
}

// TxRunner executes fn atomically; the context passed to fn carries
// the transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo       Repository
	verifier   *consent.Verifier
	locations  LocationApprover
	clinicians auth.ClinicianDirectory
	runTx      TxRunner
}

func NewService(repo Repository, verifier *consent.Verifier, locations LocationApprover, clinicians auth.ClinicianDirectory, runTx TxRunner) *Service {
	return &Service{
		repo:       repo,
		verifier:   verifier,
		locations:  locations,
		clinicians: clinicians,
		runTx:      runTx,
	}
}

// CreateRequest is the inbound shape for writing a consultation: the
// patient's consent assertion alongside the signed record itself.
type CreateRequest struct {
	Consent consent.Consent `json:"consent"`
	SignedRecord
}

// Create writes a consultation to the patient's chart. The caller
// must be a clinician with an approved practice location, and the
// patient must have signed the exact record being written. The
// consultation and all of its diagnoses and prescriptions are
// inserted in one transaction.
func (s *Service) Create(ctx context.Context, clinician *auth.Clinician, req CreateRequest) (*Consultation, error) {
	if clinician == nil {
		return nil, apperror.New(apperror.NotLicensed, "doctor profile required")
	}
	approved, err := s.locations.HasApprovedLocation(ctx, clinician.ProfileID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, apperror.New(apperror.LocationNotApproved, "no approved practice location")
	}

	if err := s.verifier.Verify(ctx, req.Consent, req.PatientID, req.SignedRecord); err != nil {
		return nil, err
	}

	c := &Consultation{
		PatientID:       req.PatientID,
		DoctorProfileID: clinician.ProfileID,
		Notes:           req.Notes,
	}
	for _, d := range req.Diagnoses {
		c.Diagnoses = append(c.Diagnoses, Diagnosis{Name: d.Name, Notes: d.Notes})
	}
	for _, p := range req.Prescriptions {
		c.Prescriptions = append(c.Prescriptions, Prescription{
			MedicineName: p.MedicineName,
			Dosage:       p.Dosage,
			Quantity:     p.Quantity,
		})
	}

	if err := s.runTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	}); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "writing consultation", err)
	}
	return c, nil
}

// Get returns the consultation if the requester is the patient or the
// clinician who wrote it.
func (s *Service) Get(ctx context.Context, requester uuid.UUID, id uuid.UUID) (*Consultation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "loading consultation", err)
	}
	if c == nil {
		return nil, apperror.New(apperror.NotFound, "consultation not found")
	}
	if err := s.authorize(ctx, requester, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) authorize(ctx context.Context, requester uuid.UUID, c *Consultation) error {
	if c.PatientID == requester {
		return nil
	}
	clinician, err := s.clinicians.FindClinician(ctx, requester)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "resolving clinician", err)
	}
	if clinician != nil && clinician.ProfileID == c.DoctorProfileID {
		return nil
	}
	return apperror.New(apperror.NotSameUser, "record belongs to another user")
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	consultations, total, err := s.repo.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.Internal, "listing consultations", err)
	}
	return consultations, total, nil
}

// ListPatientChart returns another user's consultations. Only the
// patient themselves or a licensed clinician may read a chart.
func (s *Service) ListPatientChart(ctx context.Context, requester uuid.UUID, clinician *auth.Clinician, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	if requester != patientID && clinician == nil {
		return nil, 0, apperror.New(apperror.NotSameUser, "chart belongs to another user")
	}
	return s.ListForPatient(ctx, patientID, limit, offset)
}

// ListAuthored returns the consultations the calling clinician wrote.
func (s *Service) ListAuthored(ctx context.Context, clinician *auth.Clinician, limit, offset int) ([]*Consultation, int, error) {
	if clinician == nil {
		return nil, 0, apperror.New(apperror.NotLicensed, "doctor profile required")
	}
	consultations, total, err := s.repo.ListByDoctor(ctx, clinician.ProfileID, limit, offset)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.Internal, "listing authored consultations", err)
	}
	return consultations, total, nil
}

func (s *Service) ownedPrescription(ctx context.Context, userID, id uuid.UUID) (*Prescription, error) {
	p, patientID, err := s.repo.GetPrescription(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "loading prescription", err)
	}
	if p == nil {
		return nil, apperror.New(apperror.NotFound, "prescription not found")
	}
	if patientID != userID {
		return nil, apperror.New(apperror.NotSameUser, "prescription belongs to another user")
	}
	return p, nil
}

// MarkPurchased lets the patient record that a prescribed medicine
// was bought. Marking twice keeps the first timestamp.
func (s *Service) MarkPurchased(ctx context.Context, userID, prescriptionID uuid.UUID) (*Prescription, error) {
	p, err := s.ownedPrescription(ctx, userID, prescriptionID)
	if err != nil {
		return nil, err
	}
	if p.PurchasedAt == nil {
		now := time.Now()
		if err := s.repo.MarkPurchased(ctx, prescriptionID, now); err != nil {
			return nil, apperror.Wrap(apperror.Internal, "marking prescription purchased", err)
		}
		p.PurchasedAt = &now
	}
	return p, nil
}

// SetReminder schedules a patient's intake reminder for a
// prescription.
func (s *Service) SetReminder(ctx context.Context, userID, prescriptionID uuid.UUID, at time.Time) (*Prescription, error) {
	if at.Before(time.Now()) {
		return nil, apperror.New(apperror.Invalid, "reminder must be in the future")
	}
	p, err := s.ownedPrescription(ctx, userID, prescriptionID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetReminder(ctx, prescriptionID, at); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "setting reminder", err)
	}
	p.ReminderAt = &at
	return p, nil
}
