package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/metrics"
)

// Registry defaults.
const (
	DefaultMaxSessions = 10000
	DefaultIdleTTL     = 30 * time.Minute
)

// Config bounds the registry.
type Config struct {
	MaxSessions int
	IdleTTL     time.Duration
}

// Registry tracks live sessions by id and expires idle ones.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	max      int
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewRegistry creates a registry. Zero-valued config fields take defaults.
func NewRegistry(cfg Config, logger *zap.Logger) *Registry {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		max:      cfg.MaxSessions,
		ttl:      cfg.IdleTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// Create starts a new session. Expired sessions are evicted first when the
// registry is full.
func (r *Registry) Create() (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.sessions) >= r.max {
		r.sweepLocked()
		if len(r.sessions) >= r.max {
			return nil, domain.ErrSessionLimit
		}
	}

	s := New(uuid.NewString())
	s.lastUsed = r.now()
	r.sessions[s.id] = s
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	return s, nil
}

// Get returns a live session and marks it used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if r.expired(s) {
		delete(r.sessions, id)
		metrics.SessionsActive.Set(float64(len(r.sessions)))
		return nil, domain.ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

// Delete drops a session.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	return true
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts idle sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked()
}

func (r *Registry) sweepLocked() int {
	n := 0
	for id, s := range r.sessions {
		if r.expired(s) {
			delete(r.sessions, id)
			n++
		}
	}
	if n > 0 {
		metrics.SessionsActive.Set(float64(len(r.sessions)))
	}
	return n
}

func (r *Registry) expired(s *Session) bool {
	return r.now().Sub(s.LastUsed()) > r.ttl
}

// Run sweeps on every tick until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("Expired sessions evicted", zap.Int("count", n), zap.Int("active", r.Len()))
			}
		}
	}
}
