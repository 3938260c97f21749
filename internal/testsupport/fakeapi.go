// Package testsupport provides an in-memory stand-in for the remote
// activities API. It speaks the same wire contract as the real server.
package testsupport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"example.com/activityconsole/internal/domain"
)

const (
	tokenSecret = "fake-api-secret"
	tokenIssuer = "fake-activities-api"
)

var errInvalidToken = errors.New("invalid bearer token")

// Call records one request received by the fake.
type Call struct {
	Method        string
	Path          string
	Authorization string
	Body          []byte
}

type scripted struct {
	status int
	body   string
}

// FakeAPI is an httptest server holding users and activities in memory.
type FakeAPI struct {
	Server *httptest.Server

	mu         sync.Mutex
	users      map[string]string
	activities []domain.Activity
	calls      []Call
	overrides  map[string]scripted
}

// NewFakeAPI starts a fake server. Callers must Close it.
func NewFakeAPI() *FakeAPI {
	f := &FakeAPI{
		users:     make(map[string]string),
		overrides: make(map[string]scripted),
	}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Post("/users/register", f.register)
	r.Post("/users/login", f.login)
	r.Get("/activities", f.listActivities)
	r.Post("/activities", f.createActivity)
	r.Delete("/activities/{id}", f.deleteActivity)

	f.Server = httptest.NewServer(r)
	return f
}

// URL is the base API URL.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// Close shuts the server down.
func (f *FakeAPI) Close() {
	f.Server.Close()
}

// AddUser seeds an account.
func (f *FakeAPI) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// Seed replaces the stored activities.
func (f *FakeAPI) Seed(activities ...domain.Activity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activities = append([]domain.Activity(nil), activities...)
}

// Activities returns a copy of the stored activities.
func (f *FakeAPI) Activities() []domain.Activity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Activity(nil), f.activities...)
}

// Respond makes every request to method+path answer with status and body
// instead of the normal behaviour.
func (f *FakeAPI) Respond(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[method+" "+path] = scripted{status: status, body: body}
}

// Calls returns the requests received so far.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount counts requests matching method and path.
func (f *FakeAPI) CallCount(method, path string) int {
	count := 0
	for _, call := range f.Calls() {
		if call.Method == method && call.Path == path {
			count++
		}
	}
	return count
}

// IssueToken signs a session token for username.
func IssueToken(username string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    username,
		"iss":    tokenIssuer,
		"scopes": []string{"activities:read", "activities:write"},
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(tokenSecret))
	if err != nil {
		panic(fmt.Sprintf("sign fake token: %v", err))
	}
	return signed
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		f.mu.Lock()
		f.calls = append(f.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		override, ok := f.overrides[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		if ok {
			if override.body != "" {
				w.Header().Set("Content-Type", "application/json")
			}
			w.WriteHeader(override.status)
			_, _ = w.Write([]byte(override.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "unable to parse body")
		return
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		writeMessage(w, http.StatusBadRequest, "username and password are required")
		return
	}

	f.mu.Lock()
	_, exists := f.users[creds.Username]
	if !exists {
		f.users[creds.Username] = creds.Password
	}
	f.mu.Unlock()

	if exists {
		writeMessage(w, http.StatusConflict, "username already taken")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": IssueToken(creds.Username)})
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	f.mu.Lock()
	password, ok := f.users[creds.Username]
	f.mu.Unlock()

	if !ok || password != creds.Password {
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": IssueToken(creds.Username)})
}

func (f *FakeAPI) listActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, f.Activities())
}

func (f *FakeAPI) createActivity(w http.ResponseWriter, r *http.Request) {
	if _, err := authorize(r); err != nil {
		writeMessage(w, http.StatusUnauthorized, "You must be signed in.")
		return
	}

	var activity domain.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		writeMessage(w, http.StatusBadRequest, "unable to parse body")
		return
	}
	if strings.TrimSpace(activity.Name) == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}
	activity.ID = domain.ActivityID(uuid.NewString())

	f.mu.Lock()
	f.activities = append(f.activities, activity)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, activity)
}

func (f *FakeAPI) deleteActivity(w http.ResponseWriter, r *http.Request) {
	if _, err := authorize(r); err != nil {
		writeMessage(w, http.StatusUnauthorized, "You must be signed in.")
		return
	}

	id := domain.ActivityID(chi.URLParam(r, "id"))

	f.mu.Lock()
	index := -1
	for i, activity := range f.activities {
		if activity.ID == id {
			index = i
			break
		}
	}
	if index >= 0 {
		f.activities = append(f.activities[:index], f.activities[index+1:]...)
	}
	f.mu.Unlock()

	if index < 0 {
		writeMessage(w, http.StatusNotFound, "Activity not found.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authorize validates the bearer token and returns its subject.
func authorize(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", errInvalidToken
	}
	raw := strings.TrimSpace(header[len("Bearer "):])

	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(tokenSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !parsed.Valid {
		return "", errInvalidToken
	}
	return parsed.Claims.GetSubject()
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
