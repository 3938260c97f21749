// Package auth owns the session token and the calls to the identity endpoints.
package auth

import "errors"

// Error is returned by store operations. Message is user-facing.
type Error struct {
	Message string
	// Status is the HTTP status of the failed response, 0 for local failures.
	Status int
	Err    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNoProvider is returned when no store has been attached to a context.
var ErrNoProvider = &Error{Message: "useAuth must be used within AuthProvider"}

// ErrOpaqueToken is returned by Inspect for tokens that are not JWTs.
var ErrOpaqueToken = errors.New("session token is not a JWT")
