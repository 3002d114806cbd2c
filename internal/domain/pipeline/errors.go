package pipeline

import "errors"

var (
	// ErrUnknownColumn is returned when a sort key names a column the view does not define.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrInvalidConfig is returned for inconsistent view configurations.
	ErrInvalidConfig = errors.New("invalid pipeline config")
)
