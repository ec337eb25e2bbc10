package purchase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
)

type mockRepo struct {
	purchases []*Purchase
}

func (m *mockRepo) Create(_ context.Context, p *Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	m.purchases = append(m.purchases, p)
	return nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Purchase, int, error) {
	var result []*Purchase
	for _, p := range m.purchases {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func TestAdd(t *testing.T) {
	svc := NewService(&mockRepo{})
	userID := uuid.New()

	p := &Purchase{UserID: userID, MedicineID: uuid.New(), Quantity: 2}
	if err := svc.Add(context.Background(), p); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, total, err := svc.ListForUser(context.Background(), userID, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("total = %d", total)
	}
}

func TestAdd_Invalid(t *testing.T) {
	svc := NewService(&mockRepo{})

	err := svc.Add(context.Background(), &Purchase{UserID: uuid.New(), Quantity: 1})
	if !apperror.Is(err, apperror.Invalid) {
		t.Errorf("missing medicine: expected Invalid, got %v", err)
	}

	err = svc.Add(context.Background(), &Purchase{UserID: uuid.New(), MedicineID: uuid.New(), Quantity: 0})
	if !apperror.Is(err, apperror.Invalid) {
		t.Errorf("zero quantity: expected Invalid, got %v", err)
	}
}
