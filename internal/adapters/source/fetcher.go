// Package source reads the published JSON documents from HTTP, a local
// directory or an S3-compatible bucket.
package source

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/config"
)

// Fetcher returns the raw bytes of a named document.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, name string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, name string) ([]byte, error) { return f(ctx, name) }

// checkName accepts slash-separated relative names that stay inside the root.
func checkName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// New builds the fetcher selected by cfg.SourceKind.
func New(ctx context.Context, cfg *config.Config) (Fetcher, error) {
	switch cfg.SourceKind {
	case config.SourceHTTP:
		return NewHTTPFetcher(cfg.SourceBaseURL, WithTimeout(cfg.FetchTimeout())), nil
	case config.SourceFile:
		return NewFileFetcher(cfg.SourceDir), nil
	case config.SourceS3:
		f, err := NewS3Fetcher(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: source_kind %q", config.ErrInvalidConfig, cfg.SourceKind)
}
