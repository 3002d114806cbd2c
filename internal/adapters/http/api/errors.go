package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	service "github.com/iq-capitalist/iq-capitalist.github.io/internal/app"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/adapters/session"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/pipeline"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/views"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")

	errInternal = errors.New("internal error")
)

// Error carries the failing operation and the kind used for the status code.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	if errors.Is(e.Err, e.Kind) {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns an error of kind for op.
func NewKind(op string, kind error) error { return &Error{Op: op, Kind: kind} }

// WrapKind wraps err with op and kind.
func WrapKind(op string, kind, err error) error { return &Error{Op: op, Kind: kind, Err: err} }

// Wrap attaches op to err and keeps the kind derived from err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kindOf(err), Err: err}
}

// kindOf maps service and domain errors onto API kinds.
func kindOf(err error) error {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, views.ErrUnknownLevel),
		errors.Is(err, pipeline.ErrUnknownColumn),
		errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrUnknownAction):
		return ErrBadRequest
	case errors.Is(err, ErrNotFound),
		errors.Is(err, views.ErrNotFound),
		errors.Is(err, views.ErrUnknownView),
		errors.Is(err, session.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, views.ErrUnavailable):
		return views.ErrUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return context.DeadlineExceeded
	}
	return errInternal
}

// statusOf returns the HTTP status and error code for err.
func statusOf(err error) (int, string) {
	switch kindOf(err) {
	case ErrBadRequest:
		return http.StatusBadRequest, "bad_request"
	case ErrNotFound:
		return http.StatusNotFound, "not_found"
	case views.ErrUnavailable:
		return http.StatusServiceUnavailable, "data_unavailable"
	case context.DeadlineExceeded:
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusInternalServerError, "internal_error"
}
