package purchase

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Purchase, int, error)
}
