package repository

import (
	"sync"
	"time"

	inqerrors "bookingdesk/internal/inquiries/errors"
	"bookingdesk/internal/inquiries/form"
	"bookingdesk/pkg/model"

	"github.com/google/uuid"
)

// SessionRepository keeps live form sessions in memory. Inquiries are never
// persisted; a session ends when it is deleted or sits idle past its TTL.
type SessionRepository interface {
	Save(c *form.Controller)
	FindByID(id string) (*form.Controller, error)
	Delete(id string) error
	Count() int
	Stop()
}

type Option func(*InMemorySessionRepository)

func WithClock(now func() time.Time) Option {
	return func(r *InMemorySessionRepository) {
		r.now = now
	}
}

// WithEvictionHook is called with the number of sessions removed for being
// idle. Explicit deletes are not reported.
func WithEvictionHook(fn func(n int)) Option {
	return func(r *InMemorySessionRepository) {
		r.onEvict = fn
	}
}

type InMemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*form.Controller
	ttl      time.Duration
	now      func() time.Time
	onEvict  func(n int)
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewInMemorySessionRepository(ttl time.Duration, opts ...Option) *InMemorySessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	r := &InMemorySessionRepository{
		sessions: make(map[string]*form.Controller),
		ttl:      ttl,
		now:      time.Now,
		onEvict:  func(int) {},
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	go r.cleanup()

	return r
}

func (r *InMemorySessionRepository) Save(c *form.Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[c.ID()] = c
}

func (r *InMemorySessionRepository) FindByID(id string) (*form.Controller, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, inqerrors.ErrInvalidSessionID
	}

	r.mu.RLock()
	c, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, inqerrors.ErrSessionNotFound
	}

	if r.expired(c) {
		r.mu.Lock()
		_, stillThere := r.sessions[id]
		delete(r.sessions, id)
		r.mu.Unlock()
		if stillThere {
			r.onEvict(1)
		}
		return nil, inqerrors.ErrSessionNotFound
	}

	return c, nil
}

func (r *InMemorySessionRepository) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return inqerrors.ErrInvalidSessionID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return inqerrors.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *InMemorySessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictExpired removes idle sessions and returns how many were dropped.
// A session with a delivery in flight is never evicted.
func (r *InMemorySessionRepository) EvictExpired() int {
	r.mu.Lock()
	evicted := 0
	for id, c := range r.sessions {
		if r.expired(c) {
			delete(r.sessions, id)
			evicted++
		}
	}
	r.mu.Unlock()

	if evicted > 0 {
		r.onEvict(evicted)
	}
	return evicted
}

func (r *InMemorySessionRepository) expired(c *form.Controller) bool {
	if c.State() == model.StateSubmitting {
		return false
	}
	return r.now().Sub(c.LastActivity()) > r.ttl
}

func (r *InMemorySessionRepository) cleanup() {
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.EvictExpired()
		case <-r.stopCh:
			return
		}
	}
}

func (r *InMemorySessionRepository) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
}
