package auth

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the readable part of a JWT session token.
type Claims struct {
	Subject   string
	Scopes    []string
	ExpiresAt time.Time
}

// Inspect decodes a JWT session token without verifying its signature. The
// signing key belongs to the server; this is for display only.
func Inspect(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return nil, ErrOpaqueToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}

	out := &Claims{Scopes: normalizeScopes(claims["scopes"])}
	out.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// normalizeScopes accepts the "scopes" claim as a JSON array or a
// space-delimited string and returns the distinct scopes in token order.
func normalizeScopes(value any) []string {
	var raw []string
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if str, ok := item.(string); ok {
				raw = append(raw, strings.Fields(str)...)
			}
		}
	case string:
		raw = strings.Fields(v)
	}

	var out []string
	for _, scope := range raw {
		if !slices.Contains(out, scope) {
			out = append(out, scope)
		}
	}
	return out
}
