package user

import "errors"

var (
	// -- Auth --
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIncompleteLogin    = errors.New("login response missing token or id")
	ErrWrongPassword      = errors.New("current password is incorrect")

	// -- Registration --
	ErrEmailExists = errors.New("email already registered")

	// -- Profile --
	ErrNothingToUpdate = errors.New("no profile fields to update")
)
