package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
)

type Option func(*Registry)

// WithTTL sets how long a session may stay untouched before Sweep evicts it. Zero disables eviction.
func WithTTL(ttl time.Duration) Option {
	return func(registry *Registry) {
		registry.ttl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(registry *Registry) {
		registry.now = now
	}
}

// WithEvictHook registers a callback invoked, under the registry lock, for every evicted session.
func WithEvictHook(hook func(id string, session *Session)) Option {
	return func(registry *Registry) {
		registry.onEvict = hook
	}
}

// WithSweepHook registers a callback invoked, outside the registry lock, after a sweep that evicted
// anything. It receives the number of sessions left.
func WithSweepHook(hook func(active int)) Option {
	return func(registry *Registry) {
		registry.onSweep = hook
	}
}

// Registry maps session ids to live sessions. A single mutex guards the whole map, so every
// read-modify-write of any session is serialized.
type Registry struct {
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	ttl     time.Duration
	now     func() time.Time
	onEvict func(id string, session *Session)
	onSweep func(active int)
}

func NewRegistry(logger *slog.Logger, opts ...Option) *Registry {
	registry := &Registry{
		logger:   logger,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(registry)
	}

	return registry
}

// Create stores session under id, replacing whatever was there.
func (that *Registry) Create(id string, session *Session) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, exists := that.sessions[id]; exists {
		that.logger.Debug("session overwritten", "sessionID", id)
	}

	that.sessions[id] = session
}

// Update runs fn on the session stored under id while holding the registry lock.
// When fn reports remove, the session is deleted in the same critical section.
func (that *Registry) Update(id string, fn func(session *Session) (remove bool, err error)) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[id]
	if !ok {
		return fmt.Errorf("%w: session %s", apperror.ErrSessionExpired, id)
	}

	session.TouchedAt = that.now()

	remove, err := fn(session)
	if err != nil {
		return err
	}

	if remove {
		delete(that.sessions, id)
	}

	return nil
}

func (that *Registry) Remove(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, id)
}

func (that *Registry) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many were removed.
func (that *Registry) Sweep() int {
	if that.ttl <= 0 {
		return 0
	}

	evicted, active := that.evictIdle()

	if evicted > 0 && that.onSweep != nil {
		that.onSweep(active)
	}

	return evicted
}

func (that *Registry) evictIdle() (evicted, active int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()

	for id, session := range that.sessions {
		if now.Sub(session.TouchedAt) <= that.ttl {
			continue
		}

		delete(that.sessions, id)
		evicted++

		if that.onEvict != nil {
			that.onEvict(id, session)
		}
	}

	return evicted, len(that.sessions)
}

// Run sweeps the registry every interval until ctx is done.
func (that *Registry) Run(ctx context.Context, interval time.Duration) {
	log := that.logger.With("method", "Run")

	if that.ttl <= 0 || interval <= 0 {
		log.Info("session expiry disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := that.Sweep(); evicted > 0 {
				log.Info("evicted idle sessions", "count", evicted, "ttl", that.ttl)
			}
		}
	}
}
