package devicekey

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the durable registry of device signing keys. It is
// the sole source of truth for key validity.
type Repository interface {
	Register(ctx context.Context, key *DeviceKey) error
	// Lookup returns nil when the device is unknown.
	Lookup(ctx context.Context, deviceID uuid.UUID) (*DeviceKey, error)
	// Revoke sets the revocation timestamp once; revoking an already
	// revoked key leaves the original timestamp untouched.
	Revoke(ctx context.Context, deviceID uuid.UUID, at time.Time) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*DeviceKey, error)
}
