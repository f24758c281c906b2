// Package apperr is the error taxonomy shared by every client operation.
// Transport failures, server rejections and local validation all surface as
// an *Error carrying a Kind the presentation layer can switch on.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindAuth       Kind = "AUTH"
	KindNetwork    Kind = "NETWORK"
	KindServer     Kind = "SERVER"
	KindStaleState Kind = "STALE_STATE"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindCanceled   Kind = "CANCELED"
)

type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status when the error came from a completed request.
	Status  int
	Cause   error
	Details map[string]string
}

func (e *Error) Error() string {
	if e.Cause != nil && e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func Validation(msg string, details map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg, Status: http.StatusUnauthorized}
}

func Network(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: "could not reach server", Cause: cause}
}

func Server(status int, msg string) *Error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Kind: KindServer, Message: msg, Status: status}
}

func StaleState(cause error) *Error {
	return &Error{Kind: KindStaleState, Message: "local state reloaded from server", Cause: cause}
}

func Canceled(msg string) *Error {
	return &Error{Kind: KindCanceled, Message: msg}
}

// Wrap attaches a sentinel cause to an existing *Error without losing its kind.
func Wrap(e *Error, cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

// FromStatus maps a non-2xx HTTP status onto the taxonomy.
func FromStatus(status int, msg string) *Error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e := Auth(msg)
		e.Status = status
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Message: orStatusText(msg, status), Status: status}
	case status == http.StatusConflict:
		return &Error{Kind: KindConflict, Message: orStatusText(msg, status), Status: status}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &Error{Kind: KindValidation, Message: orStatusText(msg, status), Status: status}
	default:
		return Server(status, msg)
	}
}

// Rejected reports a completed-but-refused request as SERVER, whatever kind
// its status mapped to. Network, auth and local errors (no status) pass
// through. The original error stays in the chain for errors.Is.
func Rejected(err error) error {
	var e *Error
	if !errors.As(err, &e) || e.Status == 0 {
		return err
	}
	switch e.Kind {
	case KindNetwork, KindAuth, KindServer:
		return err
	}
	s := Server(e.Status, e.Message)
	s.Cause = err
	return s
}

func orStatusText(msg string, status int) string {
	if msg != "" {
		return msg
	}
	return http.StatusText(status)
}

// KindOf returns the kind of the first *Error in the chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
