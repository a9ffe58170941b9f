package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/shopfront/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// PrincipalKey is the context key for storing the authenticated caller.
	PrincipalKey contextKey = "principal"

	// UserKey is the context key for the user named by a bearer token.
	UserKey contextKey = "user"
)

// UnauthorizedMessage is the body sent when authentication fails.
const UnauthorizedMessage = "Invalid or missing API key"

// GetPrincipal extracts the caller from the context.
// Returns false if the request was not authenticated.
func GetPrincipal(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(auth.Principal)
	return p, ok
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetUser extracts the token user from the context.
// Returns false if the request carried no valid token.
func GetUser(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(UserKey).(auth.Principal)
	return p, ok
}

// WithUser returns a copy of ctx carrying the token user p.
func WithUser(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, UserKey, p)
}

// RequireAuth returns a middleware that authenticates every request with
// strategy and rejects failures with 401. The accepted principal is added to
// the request context.
func RequireAuth(strategy auth.Strategy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := strategy.Authenticate(r)
			if err != nil {
				slog.Warn("Authentication failed",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", err,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": UnauthorizedMessage})
				return
			}

			noteAuth(r.Context(), p.Method, "")
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// IdentifyUser returns a middleware that reads an optional user credential
// with strategy. It never rejects: a missing or invalid credential leaves the
// request without a user, and a valid one is added to the context.
func IdentifyUser(strategy auth.Strategy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := strategy.Authenticate(r)
			switch {
			case err == nil:
				noteAuth(r.Context(), "", p.Subject)
				r = r.WithContext(WithUser(r.Context(), p))
			case !errors.Is(err, auth.ErrMissingCredentials):
				slog.Warn("Ignoring invalid user token",
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
				)
			}
			next.ServeHTTP(w, r)
		})
	}
}
