package service

import (
	"time"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/adapters/source"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/logger"
)

// Documents names the top-level documents of a snapshot.
type Documents struct {
	Players string
	Ratings string
	Index   string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFetcher sets where documents are read from.
func WithFetcher(f source.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithDocuments overrides the document names.
func WithDocuments(d Documents) Option {
	return func(s *Service) {
		if d.Players != "" {
			s.documents.Players = d.Players
		}
		if d.Ratings != "" {
			s.documents.Ratings = d.Ratings
		}
		if d.Index != "" {
			s.documents.Index = d.Index
		}
	}
}

// WithWorkers sets how many tournament details are fetched concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithRefreshInterval sets how often the snapshot is reloaded.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithSessionCapacity bounds the number of open view sessions.
func WithSessionCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sessionCapacity = n
		}
	}
}

// WithSessionTTL sets the idle lifetime of a view session.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sessionTTL = d
		}
	}
}

// WithLocale sets the number formatting and collation locale.
func WithLocale(locale string) Option {
	return func(s *Service) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
