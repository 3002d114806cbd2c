package views

import "errors"

var (
	// ErrUnknownView is returned for a view name that is not registered.
	ErrUnknownView = errors.New("unknown view")
	// ErrNotFound is returned when a tournament or player does not exist in the bundle.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned when the document a view needs was not loaded.
	ErrUnavailable = errors.New("data unavailable")
	// ErrUnknownLevel is returned when a level is not offered by the view.
	ErrUnknownLevel = errors.New("unknown level")
)
