// Package repository holds the latest loaded document bundle.
package repository

import (
	"context"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
)

// Store provides read/write access to the current snapshot.
type Store interface {
	// Load returns the current snapshot, or ErrNotLoaded before the first Publish.
	// Callers must treat the returned bundle as read-only.
	Load(ctx context.Context) (*model.Bundle, error)

	// Publish replaces the snapshot wholesale.
	Publish(ctx context.Context, b *model.Bundle) error

	// Version counts successful publishes.
	Version() uint64
}
