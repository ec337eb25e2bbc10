package admin

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Grant is idempotent: promoting an existing admin changes nothing.
	Grant(ctx context.Context, g *Grant) error
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}
