package auth

import (
	"errors"
	"net/http"
	"time"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidAPIKey      = errors.New("invalid api key")
)

// Principal identifies the caller of an authenticated request.
type Principal struct {
	// Method is the strategy that accepted the request ("api_key" or "jwt").
	Method string

	// Subject is the user email for tokens, or a key label for API keys.
	Subject string

	// IssuedAt is when a token was issued. Zero for API keys.
	IssuedAt time.Time
}

// Strategy defines how a request proves who it comes from.
// This abstraction allows swapping the shared-key check for tokens or
// anything else without touching the handlers.
type Strategy interface {
	// Authenticate inspects the request and returns the caller.
	// It returns ErrMissingCredentials when the request carries nothing this
	// strategy understands.
	Authenticate(r *http.Request) (Principal, error)
}
