package admin

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
	"github.com/medigram/medigram/internal/domain/doctor"
	"github.com/medigram/medigram/internal/domain/user"
)

type Service struct {
	repo      Repository
	users     user.Repository
	profiles  doctor.ProfileRepository
	locations doctor.LocationRepository
}

func NewService(repo Repository, users user.Repository, profiles doctor.ProfileRepository, locations doctor.LocationRepository) *Service {
	return &Service{repo: repo, users: users, profiles: profiles, locations: locations}
}

// Promote grants the administrator role to a user. Promoting someone
// who already holds it is a no-op.
func (s *Service) Promote(ctx context.Context, grantedBy, userID uuid.UUID) (*Grant, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "loading user", err)
	}
	if u == nil {
		return nil, apperror.New(apperror.UserNotFound, "user not found")
	}
	g := &Grant{UserID: userID, GrantedBy: grantedBy, CreatedAt: time.Now()}
	if err := s.repo.Grant(ctx, g); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "granting admin role", err)
	}
	return g, nil
}

// ApproveProfile stamps a doctor profile as approved, which is what
// grants the holder clinician standing. Approving an already approved
// profile keeps the original timestamp.
func (s *Service) ApproveProfile(ctx context.Context, profileID uuid.UUID) (*doctor.Profile, error) {
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "loading doctor profile", err)
	}
	if p == nil {
		return nil, apperror.New(apperror.NotFound, "doctor profile not found")
	}
	if p.ApprovedAt == nil {
		now := time.Now()
		if err := s.profiles.Approve(ctx, profileID, now); err != nil {
			return nil, apperror.Wrap(apperror.Internal, "approving doctor profile", err)
		}
		p.ApprovedAt = &now
	}
	return p, nil
}

// ApproveLocation stamps a practice location as approved. Approving an
// already approved location keeps the original timestamp.
func (s *Service) ApproveLocation(ctx context.Context, locationID uuid.UUID) (*doctor.PracticeLocation, error) {
	l, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "loading practice location", err)
	}
	if l == nil {
		return nil, apperror.New(apperror.NotFound, "practice location not found")
	}
	if l.ApprovedAt == nil {
		now := time.Now()
		if err := s.locations.Approve(ctx, locationID, now); err != nil {
			return nil, apperror.Wrap(apperror.Internal, "approving practice location", err)
		}
		l.ApprovedAt = &now
	}
	return l, nil
}

// IsAdmin reports whether the user holds the administrator role. This
// makes Service usable wherever an admin directory is needed.
func (s *Service) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.IsAdmin(ctx, userID)
}
