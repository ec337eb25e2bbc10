// Package apperror defines the single error taxonomy used across the API.
// Every handler and service failure is classified into a Kind; the HTTP
// layer maps kinds to status codes in one place so that individual
// handlers never invent their own error shapes.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the outward-facing API.
type Kind int

const (
	// Internal covers anything that must not be exposed to the caller.
	// The response body is opaque; details are only logged server-side.
	Internal Kind = iota

	// Authentication / session kinds.
	MissingCredentials
	InvalidToken
	WrongCredentials
	EmailUsed
	UserNotFound

	// Consent protocol kinds.
	NonceInvalid
	DeviceNotFound
	UserDeviceMismatch
	KeyExpired
	NonConsent

	// Authorization kinds.
	NotSameUser
	NotLicensed
	NotAdmin
	LocationNotApproved

	// Generic data kinds.
	NotFound
	Conflict
	Invalid
)

func (k Kind) String() string {
	switch k {
	case MissingCredentials:
		return "missing_credentials"
	case InvalidToken:
		return "invalid_token"
	case WrongCredentials:
		return "wrong_credentials"
	case EmailUsed:
		return "email_used"
	case UserNotFound:
		return "user_not_found"
	case NonceInvalid:
		return "nonce_invalid"
	case DeviceNotFound:
		return "device_not_found"
	case UserDeviceMismatch:
		return "user_device_mismatch"
	case KeyExpired:
		return "key_expired"
	case NonConsent:
		return "non_consent"
	case NotSameUser:
		return "not_same_user"
	case NotLicensed:
		return "not_licensed"
	case NotAdmin:
		return "not_admin"
	case LocationNotApproved:
		return "location_not_approved"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Invalid:
		return "invalid"
	default:
		return "internal"
	}
}

// Error carries a kind, a caller-facing message and an optional wrapped
// cause. The cause is never rendered to the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from an error chain. Unclassified errors are
// treated as Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
