package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
)

type mockProfileRepo struct {
	profiles map[uuid.UUID]*Profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[uuid.UUID]*Profile)}
}

func (m *mockProfileRepo) Create(_ context.Context, p *Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	m.profiles[p.ID] = p
	return nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	return m.profiles[id], nil
}

func (m *mockProfileRepo) GetByUser(_ context.Context, userID uuid.UUID) (*Profile, error) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockProfileRepo) Approve(_ context.Context, id uuid.UUID, at time.Time) error {
	if p, ok := m.profiles[id]; ok && p.ApprovedAt == nil {
		p.ApprovedAt = &at
	}
	return nil
}

type mockLocationRepo struct {
	locations map[uuid.UUID]*PracticeLocation
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[uuid.UUID]*PracticeLocation)}
}

func (m *mockLocationRepo) Create(_ context.Context, l *PracticeLocation) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	m.locations[l.ID] = l
	return nil
}

func (m *mockLocationRepo) GetByID(_ context.Context, id uuid.UUID) (*PracticeLocation, error) {
	return m.locations[id], nil
}

func (m *mockLocationRepo) ListByProfile(_ context.Context, profileID uuid.UUID) ([]*PracticeLocation, error) {
	var result []*PracticeLocation
	for _, l := range m.locations {
		if l.ProfileID == profileID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockLocationRepo) Approve(_ context.Context, id uuid.UUID, at time.Time) error {
	if l, ok := m.locations[id]; ok && l.ApprovedAt == nil {
		l.ApprovedAt = &at
	}
	return nil
}

func (m *mockLocationRepo) HasApproved(_ context.Context, profileID uuid.UUID) (bool, error) {
	for _, l := range m.locations {
		if l.ProfileID == profileID && l.ApprovedAt != nil {
			return true, nil
		}
	}
	return false, nil
}

func TestCreateProfile(t *testing.T) {
	svc := NewService(newMockProfileRepo(), newMockLocationRepo())
	userID := uuid.New()

	p := &Profile{UserID: userID, LicenseNumber: "STR-123", Specialization: "cardiology"}
	if err := svc.CreateProfile(context.Background(), p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	// one profile per user
	err := svc.CreateProfile(context.Background(), &Profile{UserID: userID, LicenseNumber: "STR-456"})
	if !apperror.Is(err, apperror.Conflict) {
		t.Errorf("expected Conflict, got %v", err)
	}
}

func TestCreateProfile_RequiresLicense(t *testing.T) {
	svc := NewService(newMockProfileRepo(), newMockLocationRepo())
	err := svc.CreateProfile(context.Background(), &Profile{UserID: uuid.New()})
	if !apperror.Is(err, apperror.Invalid) {
		t.Errorf("expected Invalid, got %v", err)
	}
}

func TestAddLocation_StripsApproval(t *testing.T) {
	locations := newMockLocationRepo()
	svc := NewService(newMockProfileRepo(), locations)
	userID := uuid.New()
	if err := svc.CreateProfile(context.Background(), &Profile{UserID: userID, LicenseNumber: "STR-123"}); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	l := &PracticeLocation{Name: "Clinic A", Address: "Jl. Sudirman 1", ApprovedAt: &now}
	if err := svc.AddLocation(context.Background(), userID, l); err != nil {
		t.Fatalf("AddLocation: %v", err)
	}
	if l.ApprovedAt != nil {
		t.Error("client must not be able to self-approve a location")
	}

	ok, err := svc.HasApprovedLocation(context.Background(), l.ProfileID)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unapproved location reported as approved")
	}

	if err := locations.Approve(context.Background(), l.ID, time.Now()); err != nil {
		t.Fatal(err)
	}
	ok, err = svc.HasApprovedLocation(context.Background(), l.ProfileID)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("approved location not reported")
	}
}

func TestAddLocation_NoProfile(t *testing.T) {
	svc := NewService(newMockProfileRepo(), newMockLocationRepo())
	err := svc.AddLocation(context.Background(), uuid.New(), &PracticeLocation{Name: "Clinic A"})
	if !apperror.Is(err, apperror.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestFindClinician_RequiresApprovedProfile(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := NewService(profiles, newMockLocationRepo())
	userID := uuid.New()

	clinician, err := svc.FindClinician(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if clinician != nil {
		t.Error("expected nil for a user without a profile")
	}

	// filing a profile is open to anyone; it must not confer
	// clinician standing until an administrator approves it
	p := &Profile{UserID: userID, LicenseNumber: "STR-123"}
	if err := svc.CreateProfile(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	clinician, err = svc.FindClinician(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if clinician != nil {
		t.Errorf("unapproved profile resolved as clinician: %+v", clinician)
	}

	if err := profiles.Approve(context.Background(), p.ID, time.Now()); err != nil {
		t.Fatal(err)
	}
	clinician, err = svc.FindClinician(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if clinician == nil || clinician.UserID != userID || clinician.ProfileID != p.ID {
		t.Errorf("clinician = %+v", clinician)
	}
}

func TestCreateProfile_StripsApproval(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := NewService(profiles, newMockLocationRepo())
	now := time.Now()

	p := &Profile{UserID: uuid.New(), LicenseNumber: "STR-456", ApprovedAt: &now}
	if err := svc.CreateProfile(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	stored, err := profiles.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.ApprovedAt != nil {
		t.Error("client-supplied approval survived profile creation")
	}
}

func TestPublicProfile(t *testing.T) {
	svc := NewService(newMockProfileRepo(), newMockLocationRepo())
	svc.SetNameResolver(func(_ context.Context, _ uuid.UUID) (string, error) {
		return "Dr. Sari Wulandari", nil
	})

	p := &Profile{UserID: uuid.New(), LicenseNumber: "STR-1234", Specialization: "cardiology"}
	if err := svc.CreateProfile(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	pub, err := svc.PublicProfileByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("PublicProfileByID: %v", err)
	}
	if pub.Name != "Dr. Sari Wulandari" || pub.Specialization != "cardiology" {
		t.Errorf("projection = %+v", pub)
	}

	_, err = svc.PublicProfileByID(context.Background(), uuid.New())
	if !apperror.Is(err, apperror.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}
