package model

import "errors"

// ErrMalformed marks a document that cannot be decoded into its record type.
var ErrMalformed = errors.New("malformed document")
