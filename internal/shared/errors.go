package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the backend rejected the call for the current actor.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates a missing or invalid access token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation indicates rejected input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage converts an error into generic text that can be shown to the
// admin without leaking backend details.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "The requested user no longer exists"
	case errors.Is(err, ErrForbidden):
		return "You are not allowed to perform this action"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return "Your session is not valid, please sign in again"
	case errors.Is(err, ErrValidation):
		return "Some fields are invalid"
	default:
		return "Something went wrong, please try again"
	}
}
