package devicekey

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Enroll creates a keypair for a new device owned by the user and
// registers the public half. The private key in the returned
// Enrollment is the only copy the server ever sees.
func (s *Service) Enroll(ctx context.Context, userID uuid.UUID) (*Enrollment, error) {
	publicPEM, privateB64, err := GenerateKeyPair()
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "generating device keypair", err)
	}

	key := &DeviceKey{UserID: userID, PublicKey: publicPEM}
	if err := s.repo.Register(ctx, key); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "registering device key", err)
	}

	return &Enrollment{
		DeviceID:   key.DeviceID,
		PublicKey:  publicPEM,
		PrivateKey: privateB64,
	}, nil
}

// Revoke marks the user's device key as revoked. Only the owner may
// revoke a device; revoking twice is a no-op.
func (s *Service) Revoke(ctx context.Context, userID, deviceID uuid.UUID) error {
	key, err := s.repo.Lookup(ctx, deviceID)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "resolving device key", err)
	}
	if key == nil {
		return apperror.New(apperror.DeviceNotFound, "device not found")
	}
	if key.UserID != userID {
		return apperror.New(apperror.UserDeviceMismatch, "device belongs to another user")
	}
	if err := s.repo.Revoke(ctx, deviceID, time.Now()); err != nil {
		return apperror.Wrap(apperror.Internal, "revoking device key", err)
	}
	return nil
}

// List returns every device key the user has ever enrolled, revoked
// ones included.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*DeviceKey, error) {
	keys, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "listing device keys", err)
	}
	return keys, nil
}
