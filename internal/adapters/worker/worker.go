// Package worker loads tournament detail documents with a bounded pool of goroutines.
package worker

import (
	"context"
	"strconv"
	"sync"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/logger"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/metrics"
)

const defaultPoolSize = 4

// DetailLoader fetches one tournament detail.
type DetailLoader interface {
	Tournament(ctx context.Context, id int) (*model.Tournament, error)
}

// Pool runs detail loads on at most size goroutines at a time.
type Pool struct {
	loader DetailLoader
	size   int
	name   string
	logger logger.Logger
}

// NewPool creates a pool over loader.
func NewPool(loader DetailLoader, opts ...Option) *Pool {
	p := &Pool{
		loader: loader,
		size:   defaultPoolSize,
		name:   "worker-pool",
		logger: logger.Get().Named("worker-pool"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Run loads every id and returns the details that loaded. A failing id is
// logged and left out. When ctx ends early Run returns what it has with ctx.Err().
func (p *Pool) Run(ctx context.Context, ids []int) (map[int]*model.Tournament, error) {
	out := make(map[int]*model.Tournament, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		jobs = make(chan int)
	)

	workers := min(p.size, len(ids))
	for i := range workers {
		wg.Add(1)
		go func(log logger.Logger) {
			defer wg.Done()
			for id := range jobs {
				t, err := p.process(ctx, log, id)
				if err != nil {
					continue
				}
				mu.Lock()
				out[id] = t
				mu.Unlock()
			}
		}(p.logger.Named("worker-" + strconv.Itoa(i)))
	}

feed:
	for _, id := range ids {
		select {
		case jobs <- id:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		p.logger.Warn(ctx, "detail load interrupted",
			logger.Int("loaded", len(out)),
			logger.Int("requested", len(ids)),
			logger.Error(err),
		)
		return out, err
	}
	return out, nil
}

func (p *Pool) process(ctx context.Context, log logger.Logger, id int) (*model.Tournament, error) {
	metrics.IncWorkerBusy()
	defer metrics.DecWorkerBusy()

	t, err := p.loader.Tournament(ctx, id)
	if err != nil {
		metrics.RecordWorkerError()
		log.Warn(ctx, "tournament detail skipped", logger.Int("tournament", id), logger.Error(err))
		return nil, err
	}
	return t, nil
}
