package httptransport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "empty body", status: http.StatusNoContent, body: "", want: "Request failed (204)"},
		{name: "json message", status: http.StatusForbidden, body: `{"message":"forbidden"}`, want: "forbidden"},
		{name: "json without message", status: http.StatusBadRequest, body: `{"error":"bad"}`, want: "Request failed (400)"},
		{name: "json empty message", status: http.StatusConflict, body: `{"message":""}`, want: "Request failed (409)"},
		{name: "json array", status: http.StatusInternalServerError, body: `[1,2]`, want: "Request failed (500)"},
		{name: "plain text", status: http.StatusBadGateway, body: "upstream unavailable", want: "upstream unavailable"},
		{name: "broken json", status: http.StatusUnauthorized, body: `{"message":`, want: `{"message":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ErrorMessage(&Response{Status: tc.status, Body: []byte(tc.body)})
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFromResponse(t *testing.T) {
	err := FromResponse(&Response{Status: http.StatusNotFound, Body: []byte(`{"message":"activity not found"}`)})
	require.Equal(t, http.StatusNotFound, err.Status)
	require.EqualError(t, err, "activity not found")
}
