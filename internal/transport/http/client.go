// Package httptransport performs the JSON-over-HTTP round trips shared by the
// auth store and the activity client.
package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/activityconsole/internal/observability"
)

// RequestIDHeader carries a per-request identifier for server-side correlation.
const RequestIDHeader = "X-Request-ID"

// Requester is the call surface consumed by higher-level clients.
type Requester interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// ClientConfig contains tunables for the outbound client.
type ClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client sends requests relative to a base API URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient builds a Client. A nil HTTPClient falls back to a client with no
// timeout so requests rely on the transport defaults.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Request describes one API call.
type Request struct {
	// Operation names the call in logs and metrics.
	Operation string
	Method    string
	Path      string
	// Token, when set, is sent as a bearer credential.
	Token string
	// Body, when non-nil, is JSON-encoded.
	Body any
}

// Response holds the status and the fully read body.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Do performs the request and reads the entire response body. A non-2xx
// status is not an error at this layer.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", req.Operation, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordRequest(req.Operation, 0, time.Since(start))
		c.logger.Printf("%s %s failed (request_id=%s): %v", req.Method, req.Path, requestID, err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	observability.RecordRequest(req.Operation, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", req.Operation, err)
	}
	c.logger.Printf("%s %s -> %d (request_id=%s)", req.Method, req.Path, resp.StatusCode, requestID)

	return &Response{Status: resp.StatusCode, Body: data}, nil
}
