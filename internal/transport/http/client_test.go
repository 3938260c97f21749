package httptransport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestClientDoSendsJSONWithBearer(t *testing.T) {
	var gotAuth, gotType, gotRequestID, gotBody, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get(RequestIDHeader)
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL + "/"})
	resp, err := client.Do(context.Background(), Request{
		Operation: "test",
		Method:    http.MethodPost,
		Path:      "/activities",
		Token:     "abc",
		Body:      map[string]string{"name": "Run"},
	})
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.Equal(t, http.StatusCreated, resp.Status)
	require.JSONEq(t, `{"ok":true}`, string(resp.Body))

	require.Equal(t, "/activities", gotPath)
	require.Equal(t, "Bearer abc", gotAuth)
	require.Equal(t, "application/json", gotType)
	require.JSONEq(t, `{"name":"Run"}`, gotBody)
	_, err = uuid.Parse(gotRequestID)
	require.NoError(t, err)
}

func TestClientDoOmitsOptionalHeaders(t *testing.T) {
	var header http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	resp, err := client.Do(context.Background(), Request{Operation: "test", Method: http.MethodGet, Path: "/activities"})
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.Empty(t, resp.Body)
	require.Empty(t, header.Get("Authorization"))
	require.Empty(t, header.Get("Content-Type"))
}

func TestClientDoNonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer srv.Close()

	resp, err := NewClient(ClientConfig{BaseURL: srv.URL}).Do(context.Background(), Request{Operation: "test", Method: http.MethodGet, Path: "/"})
	require.NoError(t, err)
	require.False(t, resp.OK())
	require.Equal(t, http.StatusTeapot, resp.Status)
}

func TestClientDoTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(ClientConfig{BaseURL: url}).Do(context.Background(), Request{Operation: "test", Method: http.MethodGet, Path: "/"})
	require.Error(t, err)
}
