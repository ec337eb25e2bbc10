package condition

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
	"github.com/medigram/medigram/internal/platform/auth"
)

type mockRepo struct {
	conditions map[uuid.UUID]*Condition
}

func newMockRepo() *mockRepo {
	return &mockRepo{conditions: make(map[uuid.UUID]*Condition)}
}

func (m *mockRepo) Create(_ context.Context, c *Condition) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.conditions[c.ID] = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Condition, error) {
	return m.conditions[id], nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Condition, int, error) {
	var result []*Condition
	for _, c := range m.conditions {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if c, ok := m.conditions[id]; ok {
		c.Status = status
		c.UpdatedAt = time.Now()
	}
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.conditions, id)
	return nil
}

func TestAdd_DefaultsToActive(t *testing.T) {
	svc := NewService(newMockRepo())
	c := &Condition{UserID: uuid.New(), Name: "asthma"}
	if err := svc.Add(context.Background(), c); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if c.Status != StatusActive {
		t.Errorf("status = %q, want %q", c.Status, StatusActive)
	}
}

func TestAdd_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Add(context.Background(), &Condition{UserID: uuid.New(), Name: "asthma", Status: "cured"})
	if !apperror.Is(err, apperror.Invalid) {
		t.Errorf("expected Invalid, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	svc := NewService(newMockRepo())
	userID := uuid.New()
	c := &Condition{UserID: userID, Name: "asthma"}
	if err := svc.Add(context.Background(), c); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.SetStatus(context.Background(), userID, c.ID, StatusResolved)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updated.Status != StatusResolved {
		t.Errorf("status = %q", updated.Status)
	}

	// another user may not touch it
	_, err = svc.SetStatus(context.Background(), uuid.New(), c.ID, StatusActive)
	if !apperror.Is(err, apperror.NotSameUser) {
		t.Errorf("expected NotSameUser, got %v", err)
	}
}

func TestRemove_Unknown(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	if !apperror.Is(err, apperror.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestListForPatient_AccessControl(t *testing.T) {
	svc := NewService(newMockRepo())
	patient := uuid.New()

	if err := svc.Add(context.Background(), &Condition{UserID: patient, Name: "diabetes"}); err != nil {
		t.Fatal(err)
	}

	if _, total, err := svc.ListForPatient(context.Background(), patient, nil, patient, 20, 0); err != nil || total != 1 {
		t.Errorf("patient read: total = %d, err = %v", total, err)
	}

	clinician := &auth.Clinician{UserID: uuid.New(), ProfileID: uuid.New()}
	if _, total, err := svc.ListForPatient(context.Background(), clinician.UserID, clinician, patient, 20, 0); err != nil || total != 1 {
		t.Errorf("clinician read: total = %d, err = %v", total, err)
	}

	_, _, err := svc.ListForPatient(context.Background(), uuid.New(), nil, patient, 20, 0)
	if !apperror.Is(err, apperror.NotSameUser) {
		t.Errorf("expected NotSameUser, got %v", err)
	}
}
