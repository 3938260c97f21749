// Package events defines notifications published to in-process subscribers.
package events

import "time"

// SessionChangeKind names what happened to the session.
type SessionChangeKind string

const (
	SessionRegistered SessionChangeKind = "registered"
	SessionLoggedIn   SessionChangeKind = "logged_in"
	SessionLoggedOut  SessionChangeKind = "logged_out"
)

// SessionChanged is emitted after the session token is replaced or cleared.
type SessionChanged struct {
	Kind          SessionChangeKind
	Authenticated bool
	OccurredAt    time.Time
}
