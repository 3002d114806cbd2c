package session

import "errors"

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")
