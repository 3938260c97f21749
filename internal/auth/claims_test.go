package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/activityconsole/internal/testsupport"
)

func TestInspectReadsClaims(t *testing.T) {
	claims, err := Inspect(testsupport.IssueToken("ada"))
	require.NoError(t, err)
	require.Equal(t, "ada", claims.Subject)
	require.Equal(t, []string{"activities:read", "activities:write"}, claims.Scopes)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestInspectOpaqueToken(t *testing.T) {
	for _, token := range []string{"abc", "", "a.b.c"} {
		_, err := Inspect(token)
		require.ErrorIs(t, err, ErrOpaqueToken, "token %q", token)
	}
}

func TestNormalizeScopes(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, normalizeScopes("a  b a"))
	require.Equal(t, []string{"a"}, normalizeScopes([]any{"a", 3, "", "a"}))
	require.Nil(t, normalizeScopes(nil))
}
