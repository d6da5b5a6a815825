package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, carries a bad
	// signature, references an unknown user, or has been revoked. The cases
	// are deliberately indistinguishable to callers.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials indicates a failed login. The same error covers
	// both an unknown email and a wrong password so a caller cannot probe
	// which part was wrong.
	ErrInvalidCredentials = errors.New("unable to login")
)
