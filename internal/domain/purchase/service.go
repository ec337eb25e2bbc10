package purchase

import (
	"context"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Add(ctx context.Context, p *Purchase) error {
	if p.MedicineID == uuid.Nil {
		return apperror.New(apperror.Invalid, "medicine id is required")
	}
	if p.Quantity <= 0 {
		return apperror.New(apperror.Invalid, "quantity must be positive")
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return apperror.Wrap(apperror.Internal, "creating purchase", err)
	}
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Purchase, int, error) {
	purchases, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.Internal, "listing purchases", err)
	}
	return purchases, total, nil
}
