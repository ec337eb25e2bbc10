package measurement

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Measurement) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Measurement, int, error)
	// Latest returns nil when the user has no measurements.
	Latest(ctx context.Context, userID uuid.UUID) (*Measurement, error)
}
