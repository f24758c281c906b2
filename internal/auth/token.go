package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// NormalizeToken strips wrapping quote characters and any "Bearer " prefix a
// stored token may carry. Applying it to its own output is a no-op.
func NormalizeToken(raw string) string {
	t := strings.TrimSpace(raw)
	for {
		prev := t
		t = strings.TrimSpace(strings.Trim(t, `"'`))
		t = strings.TrimSpace(strings.TrimPrefix(t, bearerPrefix))
		if t == prev {
			return t
		}
	}
}

// BearerHeader returns the Authorization header value, or "" for a blank token.
func BearerHeader(raw string) string {
	t := NormalizeToken(raw)
	if t == "" {
		return ""
	}
	return bearerPrefix + t
}

type TokenInfo struct {
	Subject   string
	ExpiresAt *time.Time
}

// Inspect reads the claims of a JWT without verifying its signature; only the
// server can verify it. ok is false for opaque (non-JWT) tokens.
func Inspect(token string) (info TokenInfo, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(NormalizeToken(token), claims); err != nil {
		return TokenInfo{}, false
	}

	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info, true
}

// Expired reports whether token is a JWT whose exp claim is before now.
// Opaque tokens never expire client-side.
func Expired(token string, now time.Time) bool {
	info, ok := Inspect(token)
	if !ok || info.ExpiresAt == nil {
		return false
	}
	return !now.Before(*info.ExpiresAt)
}
