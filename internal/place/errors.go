package place

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
)

// Error kinds for per-item failures. A failed item is skipped and the run continues.
var (
	ErrMissingField   = eris.New("missing field")
	ErrInvalidPlaceID = eris.New("invalid place id")
	ErrNetwork        = eris.New("network error")
	ErrHTTPStatus     = eris.New("unexpected http status")
	ErrDecode         = eris.New("decode error")
)

// Error tags an underlying error with one of the error kinds above
type Error struct {
	Kind error
	Err  error
}

// NewError returns err tagged with kind
func NewError(kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

// Is reports whether target is the kind of this error
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Reason maps an error to the short reason recorded in a run summary
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrInvalidPlaceID):
		return "invalid_place_id"
	case errors.Is(err, ErrHTTPStatus):
		return "http_status"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrNetwork),
		errors.Is(err, context.DeadlineExceeded):
		return "network"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
