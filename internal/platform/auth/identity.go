package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medigram/medigram/internal/apperror"
)

// Clinician identifies a user with a doctor profile.
type Clinician struct {
	UserID    uuid.UUID
	ProfileID uuid.UUID
}

// ClinicianDirectory looks up whether a user practices as a clinician.
type ClinicianDirectory interface {
	// FindClinician returns nil when the user has no doctor profile.
	FindClinician(ctx context.Context, userID uuid.UUID) (*Clinician, error)
}

// AdminDirectory reports whether a user holds the administrator role.
type AdminDirectory interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ClinicianResolver derives the clinician view of an authenticated
// request. Not being a clinician is a normal outcome, not an error:
// callers that require a clinician decide how to react to nil.
type ClinicianResolver struct {
	dir ClinicianDirectory
}

func NewClinicianResolver(dir ClinicianDirectory) *ClinicianResolver {
	return &ClinicianResolver{dir: dir}
}

// Resolve returns the caller's clinician identity, or nil when the
// caller is an ordinary user.
func (r *ClinicianResolver) Resolve(c echo.Context) (*Clinician, error) {
	identity, err := CurrentUser(c)
	if err != nil {
		return nil, err
	}
	return r.dir.FindClinician(c.Request().Context(), identity.UserID)
}

// RequireAdmin returns the caller's identity if they are an
// administrator, and a NotAdmin error otherwise.
func RequireAdmin(c echo.Context, dir AdminDirectory) (Identity, error) {
	identity, err := CurrentUser(c)
	if err != nil {
		return Identity{}, err
	}
	isAdmin, err := dir.IsAdmin(c.Request().Context(), identity.UserID)
	if err != nil {
		return Identity{}, apperror.Wrap(apperror.Internal, "checking admin role", err)
	}
	if !isAdmin {
		return Identity{}, apperror.New(apperror.NotAdmin, "administrator role required")
	}
	return identity, nil
}
