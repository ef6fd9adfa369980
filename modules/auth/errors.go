package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the username is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when a user lookup finds nothing.
	ErrUserNotFound = errors.New("user not found")

	// ErrMissingHeader is returned when a protected request carries no Authorization header.
	ErrMissingHeader = errors.New("authorization header missing")
	// ErrMalformedToken is returned when the header or token does not have the expected shape.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidOrExpired is returned when a well-formed token maps to no live identity.
	ErrInvalidOrExpired = errors.New("invalid or expired token")
)
