// Package view renders the activity list and drives its delete action.
package view

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"example.com/activityconsole/internal/domain"
)

// State is the delete lifecycle of the list.
type State string

const (
	StateIdle     State = "idle"
	StateDeleting State = "deleting"
)

// TokenSource exposes the current session token; "" means signed out.
type TokenSource interface {
	Token() string
}

// Deleter removes an activity on the server.
type Deleter interface {
	Delete(ctx context.Context, token string, id domain.ActivityID) error
}

// RefreshFunc re-fetches the list and hands it back via SetActivities.
type RefreshFunc func(ctx context.Context) error

// ActivityList shows the activities supplied by its owner and offers a
// delete control for each one while the session is authenticated.
type ActivityList struct {
	session TokenSource
	deleter Deleter
	refresh RefreshFunc

	mu         sync.Mutex
	activities []domain.Activity
	alert      string
	inFlight   int
}

// NewActivityList builds an empty list.
func NewActivityList(session TokenSource, deleter Deleter, refresh RefreshFunc) *ActivityList {
	return &ActivityList{session: session, deleter: deleter, refresh: refresh}
}

// SetActivities replaces the displayed sequence.
func (l *ActivityList) SetActivities(activities []domain.Activity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.activities = append([]domain.Activity(nil), activities...)
}

// Activities returns the displayed sequence.
func (l *ActivityList) Activities() []domain.Activity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Activity(nil), l.activities...)
}

// State reports deleting while any delete is outstanding.
func (l *ActivityList) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inFlight > 0 {
		return StateDeleting
	}
	return StateIdle
}

// Alert returns the displayed error message, if any.
func (l *ActivityList) Alert() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.alert
}

// Delete removes an activity and, only once the server confirms, asks the
// owner to refresh. Failures of either step become the displayed alert.
func (l *ActivityList) Delete(ctx context.Context, id domain.ActivityID) {
	l.mu.Lock()
	l.alert = ""
	l.inFlight++
	l.mu.Unlock()

	err := l.deleter.Delete(ctx, l.session.Token(), id)
	if err == nil && l.refresh != nil {
		err = l.refresh(ctx)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight--
	if err != nil {
		l.alert = err.Error()
	}
}

// Render writes the alert and one line per activity.
func (l *ActivityList) Render(w io.Writer) error {
	l.mu.Lock()
	alert := l.alert
	activities := append([]domain.Activity(nil), l.activities...)
	l.mu.Unlock()

	signedIn := l.session.Token() != ""

	var b strings.Builder
	if alert != "" {
		fmt.Fprintf(&b, "! %s\n", alert)
	}
	if len(activities) == 0 {
		b.WriteString("(no activities)\n")
	}
	for _, activity := range activities {
		fmt.Fprintf(&b, "- %s (id %s)", activity.Name, activity.ID)
		if signedIn {
			fmt.Fprintf(&b, " [delete %s]", activity.ID)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
