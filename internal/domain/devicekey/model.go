package devicekey

import (
	"time"

	"github.com/google/uuid"
)

// DeviceKey is a registered signing key bound to one user's device.
// The public key is stored PEM-encoded; the private key never reaches
// the server and is handed to the client exactly once at enrollment.
type DeviceKey struct {
	DeviceID  uuid.UUID  `json:"device_id"`
	UserID    uuid.UUID  `json:"user_id"`
	PublicKey string     `json:"public_key"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// Revoked reports whether the key has a revocation timestamp.
func (k *DeviceKey) Revoked() bool {
	return k.RevokedAt != nil
}

// Enrollment is what a client receives when a new device is enrolled.
type Enrollment struct {
	DeviceID   uuid.UUID `json:"device_id"`
	PublicKey  string    `json:"public_key"`
	PrivateKey string    `json:"private_key"`
}
