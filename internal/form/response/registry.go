package response

import (
	"context"
	"fmt"
	"sync"
	"time"

	"NYCU-SDC/checkin-backend/internal"
	"NYCU-SDC/checkin-backend/internal/form"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry keeps the live sessions in memory. Sessions are never persisted.
type Registry struct {
	logger        *zap.Logger
	questionnaire *form.Questionnaire
	ttl           time.Duration
	now           func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry(logger *zap.Logger, questionnaire *form.Questionnaire, ttl time.Duration) *Registry {
	return &Registry{
		logger:        logger,
		questionnaire: questionnaire,
		ttl:           ttl,
		now:           time.Now,
		sessions:      make(map[uuid.UUID]*Session),
	}
}

func (r *Registry) Create() *Session {
	session := NewSession(uuid.New(), r.questionnaire, r.now)

	r.mu.Lock()
	r.sessions[session.ID()] = session
	r.mu.Unlock()

	return session
}

func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", internal.ErrSessionNotFound, id)
	}
	return session, nil
}

func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", internal.ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// EvictIdle removes sessions untouched for longer than the ttl and returns how many were removed
func (r *Registry) EvictIdle() int {
	if r.ttl <= 0 {
		return 0
	}

	deadline := r.now().Add(-r.ttl)

	r.mu.RLock()
	candidates := make([]uuid.UUID, 0)
	for id, session := range r.sessions {
		if session.IdleSince().Before(deadline) {
			candidates = append(candidates, id)
		}
	}
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for _, id := range candidates {
		// The session may have been touched or deleted since the scan
		session, ok := r.sessions[id]
		if !ok || !session.IdleSince().Before(deadline) {
			continue
		}
		delete(r.sessions, id)
		evicted++
	}
	return evicted
}

// RunJanitor evicts idle sessions every interval until ctx is cancelled
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		r.logger.Info("Session janitor disabled", zap.Duration("ttl", r.ttl), zap.Duration("interval", interval))
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("Session janitor stopped")
			return
		case <-ticker.C:
			evicted := r.EvictIdle()
			if evicted > 0 {
				r.logger.Info("Evicted idle sessions", zap.Int("count", evicted), zap.Int("remaining", r.Len()))
			}
		}
	}
}
