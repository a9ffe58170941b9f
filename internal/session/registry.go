// Package session tracks MCP client sessions: open, validate (idle timeout and
// per-window rate limit) and close.
//
// Expiry is lazy: a session past its idle timeout is removed the next time it is
// validated. The in-memory registry can additionally sweep expired sessions in
// the background (see Memory.StartJanitor).
package session

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/shopfront/internal/models"
)

var (
	ErrNotFound    = errors.New("session not found")
	ErrExpired     = errors.New("session expired")
	ErrRateLimited = errors.New("session rate limit exceeded")
)

// Defaults match the demo protocol: 30 minute idle timeout, 60 requests per minute.
const (
	DefaultTimeout     = 30 * time.Minute
	DefaultMaxRequests = 60
	DefaultWindow      = time.Minute
)

// Limits configures a registry.
type Limits struct {
	// Timeout is the maximum idle time before a session expires.
	Timeout time.Duration

	// MaxRequests is the number of validated requests allowed per Window.
	MaxRequests int

	// Window is the length of a rate-limit window.
	Window time.Duration
}

// DefaultLimits returns the standard limits.
func DefaultLimits() Limits {
	return Limits{Timeout: DefaultTimeout, MaxRequests: DefaultMaxRequests, Window: DefaultWindow}
}

func (l Limits) withDefaults() Limits {
	if l.Timeout <= 0 {
		l.Timeout = DefaultTimeout
	}
	if l.MaxRequests <= 0 {
		l.MaxRequests = DefaultMaxRequests
	}
	if l.Window <= 0 {
		l.Window = DefaultWindow
	}
	return l
}

// Registry is the session lifecycle contract shared by all backends.
type Registry interface {
	// Open creates a session, or resets an existing one with the same ID.
	// An empty id generates a new UUID.
	Open(ctx context.Context, id string) (models.Session, error)

	// Validate checks that the session exists, is not idle past the timeout and
	// is under its rate limit, and records the request.
	// Returns ErrNotFound, ErrExpired or ErrRateLimited on failure.
	Validate(ctx context.Context, id string) error

	// Close deletes the session. Returns ErrNotFound if it does not exist.
	Close(ctx context.Context, id string) error

	// Len returns the number of sessions currently held.
	Len(ctx context.Context) (int, error)
}
