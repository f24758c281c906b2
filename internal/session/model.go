package session

import (
	"strings"

	"mei-storefront/internal/auth"
)

// Persisted keys.
const (
	KeyUserID  = "session.userId"
	KeyToken   = "session.token"
	KeyProfile = "session.profile"
)

var allKeys = []string{KeyUserID, KeyToken, KeyProfile}

// Session is the signed-in identity. It is only usable when both UserID and
// Token are set.
type Session struct {
	UserID  string
	Token   string
	Profile Profile
}

// Profile is a display cache of the account. It has no credential fields.
type Profile struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role,omitempty"`
}

func (s *Session) Valid() bool {
	if s == nil {
		return false
	}
	return !blank(strings.TrimSpace(s.UserID)) && !blank(auth.NormalizeToken(s.Token))
}

// blank also covers placeholders older builds wrote instead of deleting.
func blank(v string) bool {
	switch strings.ToLower(v) {
	case "", "null", "undefined", "n/a":
		return true
	}
	return false
}
