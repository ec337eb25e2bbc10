package apperror

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HTTPStatus maps a Kind to its outward status code. Authorization
// failures deliberately do not distinguish forged, reused and expired
// nonces, and MissingCredentials keeps the original 400 rather than 401
// because the request is malformed, not merely unauthorized.
func HTTPStatus(kind Kind) int {
	switch kind {
	case MissingCredentials:
		return http.StatusBadRequest
	case InvalidToken, WrongCredentials:
		return http.StatusUnauthorized
	case EmailUsed, Conflict:
		return http.StatusConflict
	case UserNotFound, NotFound, DeviceNotFound:
		return http.StatusNotFound
	case NonceInvalid, NonConsent, UserDeviceMismatch, KeyExpired,
		NotSameUser, NotLicensed, NotAdmin, LocationNotApproved:
		return http.StatusForbidden
	case Invalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage is what the caller sees. Internal errors are opaque.
func clientMessage(e *Error) string {
	if e.Kind == Internal {
		return "an internal error has occurred"
	}
	return e.Message
}

// HTTPErrorHandler renders every error through the taxonomy. Internal
// error details (including wrapped causes) are logged and never leave
// the server.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "an internal error has occurred"

		var appErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = HTTPStatus(appErr.Kind)
			message = clientMessage(appErr)
			if appErr.Kind == Internal {
				logger.Error().Err(err).
					Str("path", c.Request().URL.Path).
					Msg("internal error")
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if s, ok := httpErr.Message.(string); ok {
				message = s
			}
		default:
			logger.Error().Err(err).
				Str("path", c.Request().URL.Path).
				Msg("unclassified error")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, map[string]string{"error": message})
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}
