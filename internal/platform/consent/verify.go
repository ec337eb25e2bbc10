package consent

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
)

// Consent is the client-constructed assertion submitted inline with a
// protected request. It is never persisted; it exists only for the
// duration of one verification.
type Consent struct {
	SignerDeviceID uuid.UUID `json:"signer_device_id"`
	Nonce          string    `json:"nonce"`
	Signature      string    `json:"signature"`
}

// Key is a registered device signing key as seen by the verifier.
type Key struct {
	UserID    uuid.UUID
	PublicKey ed25519.PublicKey
	RevokedAt *time.Time
}

// KeyLookup resolves a device id to its registered key. A nil result
// with nil error means the device is unknown.
type KeyLookup interface {
	Lookup(ctx context.Context, deviceID uuid.UUID) (*Key, error)
}

// NonceBearer is implemented by payloads that carry the challenge
// nonce they were signed over. The verifier requires it to match the
// consumed nonce, so a signature stays bound to the server's fresh
// challenge and an old signed payload cannot be resubmitted under a
// newly issued nonce.
type NonceBearer interface {
	SignedNonce() string
}

// Verifier validates signed consent assertions. Checks run in a fixed
// order, and the nonce is consumed first: a failure at any later step
// leaves the nonce burned, so a captured nonce cannot be retried
// against multiple device or signature combinations.
type Verifier struct {
	nonces *NonceCache
	keys   KeyLookup
	// grace is how long a revoked key keeps verifying after its
	// revocation timestamp. Zero means revocation is immediately
	// fatal.
	grace time.Duration
}

func NewVerifier(nonces *NonceCache, keys KeyLookup, grace time.Duration) *Verifier {
	return &Verifier{nonces: nonces, keys: keys, grace: grace}
}

// Verify checks that signerID authorized the given action payload.
// The payload is canonicalized and the consent signature verified
// against the signer device's registered public key. Every rejection
// is a typed authorization decision; only storage faults surface as
// internal errors.
func (v *Verifier) Verify(ctx context.Context, c Consent, signerID uuid.UUID, payload any) error {
	if !v.nonces.TryConsume(c.Nonce) {
		return apperror.New(apperror.NonceInvalid, "nonce is invalid")
	}

	if b, ok := payload.(NonceBearer); ok && b.SignedNonce() != c.Nonce {
		return apperror.New(apperror.NonceInvalid, "signed nonce does not match the consumed nonce")
	}

	key, err := v.keys.Lookup(ctx, c.SignerDeviceID)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "resolving device key", err)
	}
	if key == nil {
		return apperror.New(apperror.DeviceNotFound, "signer device is not registered")
	}

	if key.UserID != signerID {
		return apperror.New(apperror.UserDeviceMismatch, "signer does not own the device")
	}

	if key.RevokedAt != nil && time.Now().After(key.RevokedAt.Add(v.grace)) {
		return apperror.New(apperror.KeyExpired, "device key is revoked")
	}

	canonical, err := Canonicalize(payload)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "canonicalizing signed payload", err)
	}
	signature, err := base64.StdEncoding.DecodeString(c.Signature)
	if err != nil {
		return apperror.New(apperror.NonConsent, "signature is not valid base64")
	}
	if !ed25519.Verify(key.PublicKey, canonical, signature) {
		return apperror.New(apperror.NonConsent, "signature does not verify")
	}

	return nil
}
