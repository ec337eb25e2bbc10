package condition

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

func (s *Service) Add(ctx context.Context, c *Condition) error {
	if c.Name == "" {
		return apperror.New(apperror.Invalid, "condition name is required")
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if !ValidStatus(c.Status) {
		return apperror.New(apperror.Invalid, "unknown condition status")
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return apperror.Wrap(apperror.Internal, "creating condition", err)
	}
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Condition, int, error) {
	conditions, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.Internal, "listing conditions", err)
	}
	return conditions, total, nil
}

// ListForPatient returns another user's conditions. Readable by the
// patient themselves or any licensed clinician.
func (s *Service) ListForPatient(ctx context.Context, requester uuid.UUID, clinician *auth.Clinician, patientID uuid.UUID, limit, offset int) ([]*Condition, int, error) {
	if requester != patientID && clinician == nil {
		return nil, 0, apperror.New(apperror.NotSameUser, "record belongs to another user")
	}
	return s.ListForUser(ctx, patientID, limit, offset)
}

func (s *Service) owned(ctx context.Context, userID, id uuid.UUID) (*Condition, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "loading condition", err)
	}
	if c == nil {
		return nil, apperror.New(apperror.NotFound, "condition not found")
	}
	if c.UserID != userID {
		return nil, apperror.New(apperror.NotSameUser, "record belongs to another user")
	}
	return c, nil
}

// SetStatus transitions the caller's condition to a new status.
func (s *Service) SetStatus(ctx context.Context, userID, id uuid.UUID, status string) (*Condition, error) {
	if !ValidStatus(status) {
		return nil, apperror.New(apperror.Invalid, "unknown condition status")
	}
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "updating condition", err)
	}
	c.Status = status
	return c, nil
}

func (s *Service) Remove(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Wrap(apperror.Internal, "deleting condition", err)
	}
	return nil
}
