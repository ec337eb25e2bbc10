package allergy

import (
	"context"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
	"github.com/medigram/medigram/internal/platform/auth"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Add(ctx context.Context, a *Allergy) error {
	if a.Name == "" {
		return apperror.New(apperror.Invalid, "allergy name is required")
	}
	if !KnownSeverity(a.Severity) {
		return apperror.New(apperror.Invalid, "severity must be mild, moderate or severe")
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return apperror.Wrap(apperror.Internal, "creating allergy", err)
	}
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Allergy, int, error) {
	allergies, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.Internal, "listing allergies", err)
	}
	return allergies, total, nil
}

// ListForPatient returns another user's allergies. Readable by the
// patient themselves or any licensed clinician.
func (s *Service) ListForPatient(ctx context.Context, requester uuid.UUID, clinician *auth.Clinician, patientID uuid.UUID, limit, offset int) ([]*Allergy, int, error) {
	if requester != patientID && clinician == nil {
		return nil, 0, apperror.New(apperror.NotSameUser, "record belongs to another user")
	}
	return s.ListForUser(ctx, patientID, limit, offset)
}

// Remove deletes the record after checking the caller owns it.
func (s *Service) Remove(ctx context.Context, userID, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "loading allergy", err)
	}
	if a == nil {
		return apperror.New(apperror.NotFound, "allergy not found")
	}
	if a.UserID != userID {
		return apperror.New(apperror.NotSameUser, "record belongs to another user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Wrap(apperror.Internal, "deleting allergy", err)
	}
	return nil
}
