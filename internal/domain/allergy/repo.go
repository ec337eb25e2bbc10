package allergy

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Allergy) error
	// GetByID returns nil when the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Allergy, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Allergy, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
