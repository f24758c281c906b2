package session

import "errors"

var (
	ErrAbsent     = errors.New("no active session")
	ErrIncomplete = errors.New("session requires user id and token")
	ErrSaveFailed = errors.New("session could not be saved")
)
