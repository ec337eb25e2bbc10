package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	// GetByID and GetByUser return nil when no profile exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*Profile, error)
	// Approve stamps the approval time once; re-approving is a no-op.
	Approve(ctx context.Context, id uuid.UUID, at time.Time) error
}

type LocationRepository interface {
	Create(ctx context.Context, l *PracticeLocation) error
	// GetByID returns nil when the location does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*PracticeLocation, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*PracticeLocation, error)
	// Approve stamps the approval time once; re-approving is a no-op.
	Approve(ctx context.Context, id uuid.UUID, at time.Time) error
	HasApproved(ctx context.Context, profileID uuid.UUID) (bool, error)
}
