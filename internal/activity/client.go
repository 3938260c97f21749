// Package activity wraps the activities endpoints of the remote API.
//
// The client is stateless: mutating calls take the session token as an
// argument instead of reading it from the auth store.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"example.com/activityconsole/internal/domain"
	httptransport "example.com/activityconsole/internal/transport/http"
)

const collectionPath = "/activities"

// PreconditionError is a local failure raised before any request is sent.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

var (
	// ErrCreateSignedOut is returned by Create when no token is supplied.
	ErrCreateSignedOut = &PreconditionError{Message: "You must be signed in to create an activity."}
	// ErrDeleteSignedOut is returned by Delete when no token is supplied.
	ErrDeleteSignedOut = &PreconditionError{Message: "You must be signed in to delete an activity."}
)

// Option configures optional behaviour for the Client.
type Option func(*Client)

// WithLogger overrides the logger used to report swallowed list failures.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client issues list, create and delete calls.
type Client struct {
	requester httptransport.Requester
	logger    *log.Logger
}

// NewClient constructs a Client.
func NewClient(requester httptransport.Requester, opts ...Option) *Client {
	c := &Client{
		requester: requester,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns every activity, or an empty slice if anything goes wrong.
// Failures are logged and never returned so that rendering a list cannot
// fail on a transient error. Use Fetch to observe the failure.
func (c *Client) List(ctx context.Context) []domain.Activity {
	activities, err := c.Fetch(ctx)
	if err != nil {
		c.logger.Printf("list activities: %v", err)
		return []domain.Activity{}
	}
	return activities
}

// Fetch returns every activity or the reason it could not.
func (c *Client) Fetch(ctx context.Context) ([]domain.Activity, error) {
	resp, err := c.requester.Do(ctx, httptransport.Request{
		Operation: "list_activities",
		Method:    http.MethodGet,
		Path:      collectionPath,
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, httptransport.FromResponse(resp)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(resp.Body, &items); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}

	// Items are decoded one at a time so a single malformed entry does
	// not hide the rest of the list.
	activities := make([]domain.Activity, 0, len(items))
	for i, item := range items {
		var activity domain.Activity
		if err := json.Unmarshal(item, &activity); err != nil {
			c.logger.Printf("skip activity %d: %v", i, err)
			continue
		}
		activities = append(activities, activity)
	}
	return activities, nil
}

// Create posts a new activity. The response body is ignored; callers
// re-fetch the list to see the stored record.
func (c *Client) Create(ctx context.Context, token string, activity domain.Activity) error {
	if token == "" {
		return ErrCreateSignedOut
	}

	resp, err := c.requester.Do(ctx, httptransport.Request{
		Operation: "create_activity",
		Method:    http.MethodPost,
		Path:      collectionPath,
		Token:     token,
		Body:      activity,
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return httptransport.FromResponse(resp)
	}
	return nil
}

// Delete removes an activity by id. An empty 204 response is success.
func (c *Client) Delete(ctx context.Context, token string, id domain.ActivityID) error {
	if token == "" {
		return ErrDeleteSignedOut
	}

	resp, err := c.requester.Do(ctx, httptransport.Request{
		Operation: "delete_activity",
		Method:    http.MethodDelete,
		Path:      collectionPath + "/" + url.PathEscape(id.String()),
		Token:     token,
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return httptransport.FromResponse(resp)
	}
	return nil
}
