package measurement

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

func (s *Service) Record(ctx context.Context, m *Measurement) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return apperror.Wrap(apperror.Internal, "recording measurement", err)
	}
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Measurement, int, error) {
	measurements, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.Internal, "listing measurements", err)
	}
	return measurements, total, nil
}

func (s *Service) ListForPatient(ctx context.Context, requester uuid.UUID, clinician *auth.Clinician, patientID uuid.UUID, limit, offset int) ([]*Measurement, int, error) {
	if requester != patientID && clinician == nil {
		return nil, 0, apperror.New(apperror.NotSameUser, "measurements belong to another user")
	}
	return s.ListForUser(ctx, patientID, limit, offset)
}

func (s *Service) LatestForUser(ctx context.Context, userID uuid.UUID) (*Measurement, error) {
	m, err := s.repo.Latest(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "loading latest measurement", err)
	}
	if m == nil {
		return nil, apperror.New(apperror.NotFound, "no measurements recorded")
	}
	return m, nil
}
