package user

import (
	"bytes"
	"encoding/json"
	"strings"

	"mei-storefront/internal/session"
)

const (
	defaultName = "User"
	defaultRole = "customer"
)

// ID accepts both numeric and string ids from the backend.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Account is the user record returned by the backend.
type Account struct {
	ID       ID     `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

// LoginResult is the body of POST /auth/login.
type LoginResult struct {
	Account
	Token string `json:"token"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Confirm  string `json:"confirm" validate:"required,eqfield=Password"`
}

func (in RegisterInput) normalized() RegisterInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

// RegisterPayload is the body of POST /users.
type RegisterPayload struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
}

type PasswordChange struct {
	Current string `json:"current" validate:"required"`
	New     string `json:"new" validate:"required,min=6,nefield=Current"`
	Confirm string `json:"confirm" validate:"required,eqfield=New"`
}

// UpdateRequest is the body of PUT /users/{id}. Empty fields are left
// unchanged by the backend.
type UpdateRequest struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Password string `json:"password,omitempty"`
}

// profileFrom builds the cached profile. fallbackEmail is used when the
// backend omits the email.
func profileFrom(a Account, fallbackEmail string) session.Profile {
	p := session.Profile{
		Name:   strings.TrimSpace(a.FullName),
		Email:  strings.TrimSpace(a.Email),
		Phone:  a.Phone,
		Avatar: a.Avatar,
		Role:   a.Role,
	}
	if p.Name == "" {
		p.Name = defaultName
	}
	if p.Email == "" {
		p.Email = fallbackEmail
	}
	if p.Role == "" {
		p.Role = defaultRole
	}
	return p
}

// merge overlays the non-empty fields of u onto p.
func merge(p session.Profile, u ProfileUpdate) session.Profile {
	if u.FullName != "" {
		p.Name = u.FullName
	}
	if u.Email != "" {
		p.Email = u.Email
	}
	if u.Phone != "" {
		p.Phone = u.Phone
	}
	if u.Avatar != "" {
		p.Avatar = u.Avatar
	}
	return p
}
