package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/shopfront/internal/models"
)

var _ Registry = (*Memory)(nil)

// Memory is an in-process Registry guarded by a single mutex.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	limits   Limits
	now      func() time.Time
}

// NewMemory creates an empty in-memory registry.
func NewMemory(limits Limits) *Memory {
	return &Memory{
		sessions: make(map[string]*models.Session),
		limits:   limits.withDefaults(),
		now:      time.Now,
	}
}

// Open creates or resets a session.
func (m *Memory) Open(_ context.Context, id string) (models.Session, error) {
	if id == "" {
		id = uuid.New().String()
	}
	now := m.now()
	sess := &models.Session{
		ID:          id,
		CreatedAt:   now,
		LastSeen:    now,
		WindowStart: now,
	}

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	return *sess, nil
}

// Validate applies idle timeout and the fixed-window rate limit.
func (m *Memory) Validate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}

	now := m.now()
	if now.Sub(sess.LastSeen) > m.limits.Timeout {
		delete(m.sessions, id)
		return ErrExpired
	}

	if now.Sub(sess.WindowStart) >= m.limits.Window {
		sess.WindowStart = now
		sess.RequestCount = 0
	}
	if sess.RequestCount >= m.limits.MaxRequests {
		return ErrRateLimited
	}

	sess.RequestCount++
	sess.LastSeen = now
	return nil
}

// Close deletes the session.
func (m *Memory) Close(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of sessions, expired ones included until they are swept.
func (m *Memory) Len(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions), nil
}

// Get returns a copy of the session without touching it.
func (m *Memory) Get(id string) (models.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return models.Session{}, false
	}
	return *sess, true
}

// Sweep removes every session idle past the timeout and returns how many it removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, sess := range m.sessions {
		if now.Sub(sess.LastSeen) > m.limits.Timeout {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired sessions every interval until ctx is cancelled.
func (m *Memory) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					slog.Debug("Swept expired sessions", "removed", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
