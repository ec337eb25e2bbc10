package devicekey

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
)

type mockRepo struct {
	keys map[uuid.UUID]*DeviceKey
}

func newMockRepo() *mockRepo {
	return &mockRepo{keys: make(map[uuid.UUID]*DeviceKey)}
}

func (m *mockRepo) Register(_ context.Context, key *DeviceKey) error {
	if key.DeviceID == uuid.Nil {
		key.DeviceID = uuid.New()
	}
	key.CreatedAt = time.Now()
	m.keys[key.DeviceID] = key
	return nil
}

func (m *mockRepo) Lookup(_ context.Context, deviceID uuid.UUID) (*DeviceKey, error) {
	return m.keys[deviceID], nil
}

func (m *mockRepo) Revoke(_ context.Context, deviceID uuid.UUID, at time.Time) error {
	if k, ok := m.keys[deviceID]; ok && k.RevokedAt == nil {
		k.RevokedAt = &at
	}
	return nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*DeviceKey, error) {
	var result []*DeviceKey
	for _, k := range m.keys {
		if k.UserID == userID {
			result = append(result, k)
		}
	}
	return result, nil
}

func TestKeyPair_RoundTrip(t *testing.T) {
	publicPEM, privateB64, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	pub, err := ParsePublicKey(publicPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}

	privBytes, err := base64.StdEncoding.DecodeString(privateB64)
	if err != nil {
		t.Fatalf("decoding private key: %v", err)
	}
	priv := ed25519.PrivateKey(privBytes)

	msg := []byte("payload to sign")
	sig := ed25519.Sign(priv, msg)
	if !ed25519.Verify(pub, msg, sig) {
		t.Error("signature from generated private key does not verify against parsed public key")
	}
}

func TestParsePublicKey_Garbage(t *testing.T) {
	if _, err := ParsePublicKey("not pem at all"); err == nil {
		t.Error("expected error for non-PEM input")
	}
}

func TestService_Enroll(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	userID := uuid.New()

	enrollment, err := svc.Enroll(context.Background(), userID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if enrollment.DeviceID == uuid.Nil {
		t.Error("expected a device id")
	}
	if enrollment.PrivateKey == "" {
		t.Error("expected the private key in the enrollment response")
	}

	stored := repo.keys[enrollment.DeviceID]
	if stored == nil {
		t.Fatal("key not registered")
	}
	if stored.UserID != userID {
		t.Errorf("stored user = %s, want %s", stored.UserID, userID)
	}
	if stored.PublicKey != enrollment.PublicKey {
		t.Error("stored public key differs from the enrollment response")
	}
}

func TestService_Revoke(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	userID := uuid.New()

	enrollment, err := svc.Enroll(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Revoke(context.Background(), userID, enrollment.DeviceID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	first := repo.keys[enrollment.DeviceID].RevokedAt
	if first == nil {
		t.Fatal("expected revocation timestamp")
	}

	// idempotent: a second revoke leaves the timestamp unchanged
	if err := svc.Revoke(context.Background(), userID, enrollment.DeviceID); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}
	if !repo.keys[enrollment.DeviceID].RevokedAt.Equal(*first) {
		t.Error("revocation timestamp changed on re-revoke")
	}
}

func TestService_RevokeOtherUsersDevice(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	enrollment, err := svc.Enroll(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}

	err = svc.Revoke(context.Background(), uuid.New(), enrollment.DeviceID)
	if !apperror.Is(err, apperror.UserDeviceMismatch) {
		t.Errorf("expected UserDeviceMismatch, got %v", err)
	}
}

func TestService_RevokeUnknownDevice(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Revoke(context.Background(), uuid.New(), uuid.New())
	if !apperror.Is(err, apperror.DeviceNotFound) {
		t.Errorf("expected DeviceNotFound, got %v", err)
	}
}
