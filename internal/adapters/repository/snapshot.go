package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/metrics"
)

// SnapshotStore keeps the bundle behind an atomic pointer so readers never
// block a refresh and never see a half-built bundle.
type SnapshotStore struct {
	snapshot atomic.Pointer[model.Bundle]
	version  atomic.Uint64
	now      func() time.Time
}

var _ Store = (*SnapshotStore)(nil)

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SnapshotStore) Load(ctx context.Context) (*model.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := s.snapshot.Load()
	if b == nil {
		return nil, ErrNotLoaded
	}
	return b, nil
}

func (s *SnapshotStore) Publish(_ context.Context, b *model.Bundle) error {
	if b == nil {
		return ErrNilBundle
	}
	if b.LoadedAt.IsZero() {
		b.LoadedAt = s.now()
	}
	s.snapshot.Store(b)
	s.version.Add(1)
	updateMetrics(b)
	return nil
}

func (s *SnapshotStore) Version() uint64 { return s.version.Load() }

func updateMetrics(b *model.Bundle) {
	var players, ratings, index int
	if b.Roster != nil {
		players = len(b.Roster.Players)
	}
	if b.Ratings != nil {
		for _, rs := range b.Ratings.Levels {
			ratings += len(rs)
		}
	}
	if b.Index != nil {
		index = len(b.Index.Tournaments)
	}
	metrics.UpdateSnapshotRecords("players", players)
	metrics.UpdateSnapshotRecords("ratings", ratings)
	metrics.UpdateSnapshotRecords("index", index)
	metrics.UpdateSnapshotRecords("tournaments", len(b.Tournaments))
}
