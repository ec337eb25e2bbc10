package auth

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medigram/medigram/internal/apperror"
)

const identityContextKey = "auth_identity"

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID uuid.UUID
	// SessionToken is set when the caller authenticated with a session
	// token rather than an access token. Logout needs it to revoke the
	// right session.
	SessionToken string
}

// Middleware authenticates requests from the Authorization header.
// It accepts either a session token or a signed access token as the
// bearer credential and stores the resulting Identity in the request
// context.
func Middleware(sessions *SessionCache, tokens *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return apperror.New(apperror.MissingCredentials, "missing authorization header")
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return apperror.New(apperror.MissingCredentials, "authorization header is not a bearer token")
			}

			if userID, ok := sessions.Resolve(token); ok {
				c.Set(identityContextKey, Identity{UserID: userID, SessionToken: token})
				return next(c)
			}

			// Access tokens are JWTs; session tokens never contain dots.
			if strings.Contains(token, ".") {
				userID, err := tokens.Validate(token)
				if err == nil {
					c.Set(identityContextKey, Identity{UserID: userID})
					return next(c)
				}
			}

			return apperror.New(apperror.InvalidToken, "invalid or expired token")
		}
	}
}

// CurrentUser returns the authenticated identity set by Middleware.
func CurrentUser(c echo.Context) (Identity, error) {
	identity, ok := c.Get(identityContextKey).(Identity)
	if !ok {
		return Identity{}, apperror.New(apperror.MissingCredentials, "request is not authenticated")
	}
	return identity, nil
}
