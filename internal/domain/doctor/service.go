package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
	"github.com/medigram/medigram/internal/platform/auth"
)

// NameResolver maps a user id to a display name. Wired at startup so
// this package never depends on the user package directly.
type NameResolver func(ctx context.Context, userID uuid.UUID) (string, error)

type Service struct {
	profiles  ProfileRepository
	locations LocationRepository
	names     NameResolver
}

func NewService(profiles ProfileRepository, locations LocationRepository) *Service {
	return &Service{profiles: profiles, locations: locations}
}

func (s *Service) SetNameResolver(r NameResolver) {
	s.names = r
}

func (s *Service) CreateProfile(ctx context.Context, p *Profile) error {
	if p.LicenseNumber == "" {
		return apperror.New(apperror.Invalid, "license number is required")
	}
	existing, err := s.profiles.GetByUser(ctx, p.UserID)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "checking existing profile", err)
	}
	if existing != nil {
		return apperror.New(apperror.Conflict, "user already has a doctor profile")
	}
	p.ApprovedAt = nil // approval is an admin decision
	if err := s.profiles.Create(ctx, p); err != nil {
		return apperror.Wrap(apperror.Internal, "creating doctor profile", err)
	}
	return nil
}

func (s *Service) ProfileByUser(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "loading doctor profile", err)
	}
	if p == nil {
		return nil, apperror.New(apperror.NotFound, "no doctor profile")
	}
	return p, nil
}

// PublicProfile is the projection any authenticated user may see of a
// clinician.
type PublicProfile struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
}

func (s *Service) PublicProfileByID(ctx context.Context, id uuid.UUID) (*PublicProfile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "loading doctor profile", err)
	}
	if p == nil {
		return nil, apperror.New(apperror.NotFound, "no doctor profile")
	}
	pub := &PublicProfile{ID: p.ID, Specialization: p.Specialization}
	if s.names != nil {
		name, err := s.names(ctx, p.UserID)
		if err != nil {
			return nil, apperror.Wrap(apperror.Internal, "resolving doctor name", err)
		}
		pub.Name = name
	}
	return pub, nil
}

func (s *Service) AddLocation(ctx context.Context, userID uuid.UUID, l *PracticeLocation) error {
	if l.Name == "" {
		return apperror.New(apperror.Invalid, "location name is required")
	}
	p, err := s.ProfileByUser(ctx, userID)
	if err != nil {
		return err
	}
	l.ProfileID = p.ID
	l.ApprovedAt = nil // approval is an admin decision
	if err := s.locations.Create(ctx, l); err != nil {
		return apperror.Wrap(apperror.Internal, "creating practice location", err)
	}
	return nil
}

func (s *Service) ListLocations(ctx context.Context, userID uuid.UUID) ([]*PracticeLocation, error) {
	p, err := s.ProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	locations, err := s.locations.ListByProfile(ctx, p.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "listing practice locations", err)
	}
	return locations, nil
}

// HasApprovedLocation reports whether the profile may write
// consultations.
func (s *Service) HasApprovedLocation(ctx context.Context, profileID uuid.UUID) (bool, error) {
	ok, err := s.locations.HasApproved(ctx, profileID)
	if err != nil {
		return false, apperror.Wrap(apperror.Internal, "checking location approval", err)
	}
	return ok, nil
}

// FindClinician implements auth.ClinicianDirectory: only a user whose
// doctor profile an administrator has approved is a clinician.
// Everyone else, a pending profile included, resolves to nil.
func (s *Service) FindClinician(ctx context.Context, userID uuid.UUID) (*auth.Clinician, error) {
	p, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Approved() {
		return nil, nil
	}
	return &auth.Clinician{UserID: userID, ProfileID: p.ID}, nil
}
