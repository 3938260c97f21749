package auth

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"slices"
	"sync"
	"time"

	"example.com/activityconsole/internal/domain"
	"example.com/activityconsole/internal/events"
	"example.com/activityconsole/internal/observability"
	httptransport "example.com/activityconsole/internal/transport/http"
)

const (
	registerPath = "/users/register"
	loginPath    = "/users/login"
)

// Listener receives session change notifications.
type Listener func(events.SessionChanged)

// Option configures optional behaviour for the Store.
type Option func(*Store)

// WithLogger overrides the logger used to report failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the clock used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store holds the session token for the lifetime of the process. It is the
// single source of truth for whether the user is authenticated.
type Store struct {
	requester httptransport.Requester
	logger    *log.Logger
	now       func() time.Time

	mu            sync.RWMutex
	token         string
	nextID        int
	subscriptions []subscription
}

type subscription struct {
	id       int
	listener Listener
}

// NewStore constructs an unauthenticated Store.
func NewStore(requester httptransport.Requester, opts ...Option) *Store {
	s := &Store{
		requester: requester,
		logger:    log.New(io.Discard, "", 0),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the held token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is held.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Register creates an account and replaces the session token.
func (s *Store) Register(ctx context.Context, creds domain.Credentials) error {
	token, err := s.exchange(ctx, "register", registerPath, creds, "Registration succeeded but no token was returned.")
	if err != nil {
		return err
	}
	s.setToken(token, events.SessionRegistered)
	return nil
}

// Login authenticates and replaces the session token.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) error {
	token, err := s.exchange(ctx, "login", loginPath, creds, "Login succeeded but no token was returned.")
	if err != nil {
		return err
	}
	s.setToken(token, events.SessionLoggedIn)
	return nil
}

// Logout clears the session token. It never touches the network.
func (s *Store) Logout() {
	s.mu.Lock()
	hadToken := s.token != ""
	s.token = ""
	s.mu.Unlock()

	if hadToken {
		s.publish(events.SessionLoggedOut, false)
	}
}

// Subscribe registers a listener and returns a function that removes it.
// Listeners run synchronously, in subscription order, after each change.
func (s *Store) Subscribe(listener Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscriptions = append(s.subscriptions, subscription{id: id, listener: listener})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subscriptions = slices.DeleteFunc(s.subscriptions, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

func (s *Store) exchange(ctx context.Context, operation, path string, creds domain.Credentials, missingToken string) (string, error) {
	resp, err := s.requester.Do(ctx, httptransport.Request{
		Operation: operation,
		Method:    http.MethodPost,
		Path:      path,
		Body:      creds,
	})
	if err != nil {
		s.logger.Printf("%s request failed: %v", operation, err)
		return "", &Error{Message: err.Error(), Err: err}
	}

	if !resp.OK() {
		reqErr := httptransport.FromResponse(resp)
		return "", &Error{Message: reqErr.Message, Status: resp.Status, Err: reqErr}
	}

	token := tokenFrom(resp.Body)
	if token == "" {
		s.logger.Printf("%s returned %d without a token", operation, resp.Status)
		return "", &Error{Message: missingToken, Status: resp.Status}
	}
	return token, nil
}

// tokenFrom reads the token field of a success body, tolerating empty and
// non-JSON bodies.
func tokenFrom(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Token any `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	token, _ := payload.Token.(string)
	return token
}

func (s *Store) setToken(token string, kind events.SessionChangeKind) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.publish(kind, true)
}

func (s *Store) publish(kind events.SessionChangeKind, authenticated bool) {
	observability.RecordSession(authenticated)

	s.mu.RLock()
	subs := slices.Clone(s.subscriptions)
	s.mu.RUnlock()

	event := events.SessionChanged{Kind: kind, Authenticated: authenticated, OccurredAt: s.now().UTC()}
	for _, sub := range subs {
		sub.listener(event)
	}
}
