package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/logger"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/metrics"
)

// Fetch outcomes recorded per document.
const (
	outcomeOK        = "ok"
	outcomeMissing   = "missing"
	outcomeError     = "error"
	outcomeMalformed = "malformed"
)

// Document is one named input of a load. Decode receives the raw bytes.
type Document struct {
	Name     string
	Required bool
	Decode   func([]byte) error
}

// Report lists the optional documents a load went without.
type Report struct {
	Missing []string
}

// Loader fetches and decodes documents with a single failure policy: a
// required document aborts the load, an optional one is logged and skipped.
type Loader struct {
	fetcher Fetcher
	logger  logger.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(l logger.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// NewLoader wraps f.
func NewLoader(f Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{fetcher: f, logger: logger.Get().Named("source")}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load processes docs in order.
func (l *Loader) Load(ctx context.Context, docs ...Document) (Report, error) {
	var rep Report
	for _, d := range docs {
		if err := l.one(ctx, d); err != nil {
			if d.Required {
				return rep, fmt.Errorf("%w: %s: %w", ErrRequiredDocument, d.Name, err)
			}
			l.logger.Warn(ctx, "optional document unavailable",
				logger.String("document", d.Name),
				logger.Error(err),
			)
			rep.Missing = append(rep.Missing, d.Name)
		}
	}
	return rep, nil
}

func (l *Loader) one(ctx context.Context, d Document) error {
	start := time.Now()
	outcome := outcomeOK
	defer func() {
		metrics.RecordDocumentFetch(d.Name, outcome, float64(time.Since(start).Milliseconds()))
	}()

	data, err := l.fetcher.Fetch(ctx, d.Name)
	if err != nil {
		outcome = outcomeError
		if errors.Is(err, ErrNotFound) {
			outcome = outcomeMissing
		}
		return err
	}
	if d.Decode != nil {
		if err := d.Decode(data); err != nil {
			outcome = outcomeMalformed
			return err
		}
	}
	l.logger.Debug(ctx, "document loaded", logger.String("document", d.Name), logger.Int("bytes", len(data)))
	return nil
}

// TournamentDocument names the detail document of tournament id.
func TournamentDocument(id int) string { return strconv.Itoa(id) + ".json" }

// Tournament fetches and decodes the detail of tournament id.
func (l *Loader) Tournament(ctx context.Context, id int) (*model.Tournament, error) {
	var t *model.Tournament
	err := l.one(ctx, Document{Name: TournamentDocument(id), Decode: func(b []byte) error {
		var err error
		t, err = model.DecodeTournament(b)
		return err
	}})
	if err != nil {
		return nil, err
	}
	return t, nil
}
