package condition

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Condition) error
	// GetByID returns nil when the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Condition, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Condition, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
