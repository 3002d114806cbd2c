package service

import "errors"

var (
	// ErrNoFetcher is returned by New when no document fetcher is configured.
	ErrNoFetcher = errors.New("no document fetcher configured")
	// ErrUnknownAction is returned for a session action that does not exist.
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidAction is returned when an action value cannot be applied.
	ErrInvalidAction = errors.New("invalid action value")
)
