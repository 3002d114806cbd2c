// Package session keeps the UI state of open view sessions on the server.
package session

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/pipeline"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/views"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/metrics"
)

const (
	defaultCapacity = 10_000
	defaultTTL      = 30 * time.Minute
)

// Eviction reasons.
const (
	reasonCapacity = "capacity"
	reasonExpired  = "expired"
)

// Session is one open view with its state.
type Session struct {
	ID       string         `json:"id"`
	View     string         `json:"view"`
	Params   views.Params   `json:"params"`
	State    pipeline.State `json:"state"`
	Created  time.Time      `json:"created"`
	LastSeen time.Time      `json:"last_seen"`

	// rev counts stored updates; Update stores only over the revision it read.
	rev uint64
}

// Registry is a bounded, TTL-expiring session map. The list keeps sessions
// ordered by last use, most recent at the front.
type Registry struct {
	mu       sync.Mutex
	byID     map[string]*list.Element
	order    *list.List
	capacity int
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byID:     make(map[string]*list.Element),
		order:    list.New(),
		capacity: defaultCapacity,
		ttl:      defaultTTL,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create opens a session for view in state.
func (r *Registry) Create(_ context.Context, view string, params views.Params, state pipeline.State) Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.order.Len() >= r.capacity {
		r.removeLocked(r.order.Back(), reasonCapacity)
	}
	now := r.now()
	s := Session{ID: r.newID(), View: view, Params: params, State: state, Created: now, LastSeen: now}
	r.byID[s.ID] = r.order.PushFront(&s)
	metrics.UpdateSessionsActive(r.order.Len())
	return s
}

// Get returns the session and marks it used.
func (r *Registry) Get(_ context.Context, id string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.touchLocked(id)
	if err != nil {
		return Session{}, err
	}
	return *s, nil
}

// Update applies fn to a copy of the session outside the registry lock and
// stores the result if no other update landed in between; otherwise fn runs
// again on the newer state. An error from fn leaves the session unchanged.
func (r *Registry) Update(ctx context.Context, id string, fn func(Session) (Session, error)) (Session, error) {
	for {
		cur, err := r.Get(ctx, id)
		if err != nil {
			return Session{}, err
		}
		next, err := fn(cur)
		if err != nil {
			return cur, err
		}
		stored, ok, err := r.store(id, cur.rev, next)
		if err != nil {
			return Session{}, err
		}
		if ok {
			return stored, nil
		}
	}
}

// store writes next's state over the session if it is still at rev.
func (r *Registry) store(id string, rev uint64, next Session) (Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	el, ok := r.byID[id]
	if !ok {
		return Session{}, false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s := el.Value.(*Session)
	if s.rev != rev {
		return Session{}, false, nil
	}
	s.State = next.State
	s.Params = next.Params
	s.rev++
	return *s, true, nil
}

// Delete closes a session. It reports whether the session existed.
func (r *Registry) Delete(_ context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	el, ok := r.byID[id]
	if !ok {
		return false
	}
	r.order.Remove(el)
	delete(r.byID, id)
	metrics.UpdateSessionsActive(r.order.Len())
	return true
}

// Sweep drops every session idle for longer than the TTL and returns how many.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for el := r.order.Back(); el != nil; {
		s := el.Value.(*Session)
		if now.Sub(s.LastSeen) <= r.ttl {
			break
		}
		prev := el.Prev()
		r.removeLocked(el, reasonExpired)
		el = prev
		n++
	}
	return n
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}

func (r *Registry) touchLocked(id string) (*Session, error) {
	el, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s := el.Value.(*Session)
	now := r.now()
	if now.Sub(s.LastSeen) > r.ttl {
		r.removeLocked(el, reasonExpired)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.LastSeen = now
	r.order.MoveToFront(el)
	return s, nil
}

func (r *Registry) removeLocked(el *list.Element, reason string) {
	if el == nil {
		return
	}
	s := r.order.Remove(el).(*Session)
	delete(r.byID, s.ID)
	metrics.RecordSessionEviction(reason)
	metrics.UpdateSessionsActive(r.order.Len())
}
