package user

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
	"github.com/medigram/medigram/internal/domain/devicekey"
	"github.com/medigram/medigram/internal/platform/auth"
)

type Service struct {
	repo     Repository
	details  DetailRepository
	sessions *auth.SessionCache
	tokens   *auth.TokenIssuer
	devices  *devicekey.Service
}

func NewService(repo Repository, details DetailRepository, sessions *auth.SessionCache, tokens *auth.TokenIssuer, devices *devicekey.Service) *Service {
	return &Service{
		repo:     repo,
		details:  details,
		sessions: sessions,
		tokens:   tokens,
		devices:  devices,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return nil, apperror.New(apperror.Invalid, "name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, apperror.New(apperror.Invalid, "password must be at least 8 characters")
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "checking email", err)
	}
	if existing != nil {
		return nil, apperror.New(apperror.EmailUsed, "email is already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "hashing password", err)
	}

	u := &User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "creating user", err)
	}
	return u, nil
}

// LoginResult carries everything a client needs after authenticating:
// a long-lived session token, a short-lived access token, and a fresh
// device enrollment whose private key is returned exactly once.
type LoginResult struct {
	User         *User                 `json:"user"`
	SessionToken string                `json:"session_token"`
	AccessToken  string                `json:"access_token"`
	Device       *devicekey.Enrollment `json:"device"`
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "resolving user", err)
	}
	if u == nil {
		return nil, apperror.New(apperror.UserNotFound, "no account for this email")
	}

	ok, err := auth.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "verifying password", err)
	}
	if !ok {
		return nil, apperror.New(apperror.WrongCredentials, "wrong password")
	}

	sessionToken, err := s.sessions.Issue(u.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "issuing session", err)
	}
	accessToken, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "issuing access token", err)
	}
	enrollment, err := s.devices.Enroll(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         u,
		SessionToken: sessionToken,
		AccessToken:  accessToken,
		Device:       enrollment,
	}, nil
}

// Logout revokes the caller's session and, when a device id is given,
// revokes that device's signing key as well.
func (s *Service) Logout(ctx context.Context, identity auth.Identity, deviceID *uuid.UUID) error {
	if identity.SessionToken != "" {
		s.sessions.Revoke(identity.SessionToken)
	}
	if deviceID != nil {
		return s.devices.Revoke(ctx, identity.UserID, *deviceID)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "resolving user", err)
	}
	if u == nil {
		return nil, apperror.New(apperror.UserNotFound, "user not found")
	}
	return u, nil
}

// PublicUser is the projection any authenticated user may see of
// another account.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

func (s *Service) GetPublic(ctx context.Context, id uuid.UUID) (*PublicUser, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PublicUser{ID: u.ID, Email: u.Email}, nil
}

func (s *Service) GetDetailFor(ctx context.Context, requester uuid.UUID, clinician *auth.Clinician, userID uuid.UUID) (*Detail, error) {
	if requester != userID && clinician == nil {
		return nil, apperror.New(apperror.NotSameUser, "details belong to another user")
	}
	return s.GetDetail(ctx, userID)
}

func (s *Service) GetDetail(ctx context.Context, userID uuid.UUID) (*Detail, error) {
	d, err := s.details.Get(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "loading user details", err)
	}
	if d == nil {
		return nil, apperror.New(apperror.NotFound, "details not filed yet")
	}
	return d, nil
}

func (s *Service) PutDetail(ctx context.Context, d *Detail) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.details.Upsert(ctx, d); err != nil {
		return apperror.Wrap(apperror.Internal, "saving user details", err)
	}
	return nil
}
