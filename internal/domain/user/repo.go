package user

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	// GetByID and GetByEmail return nil when no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type DetailRepository interface {
	// Get returns nil when the user has not filed details yet.
	Get(ctx context.Context, userID uuid.UUID) (*Detail, error)
	Upsert(ctx context.Context, d *Detail) error
}
