package source

import "errors"

var (
	// ErrStatus is returned when the HTTP source answers with a non-2xx status.
	ErrStatus = errors.New("unexpected status")
	// ErrNotFound is returned when a document does not exist in the source.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidName is returned for document names that escape the source root.
	ErrInvalidName = errors.New("invalid document name")
	// ErrRequiredDocument aborts a load when a required document is unavailable.
	ErrRequiredDocument = errors.New("required document unavailable")
)
