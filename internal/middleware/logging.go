package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// requestAuth is filled in by the auth middlewares further down the chain
// and read back by Logging once the handler returns.
type requestAuth struct {
	method string
	user   string
}

const requestAuthKey contextKey = "request_auth"

// noteAuth records what authenticated the request, if Logging is installed.
func noteAuth(ctx context.Context, method, user string) {
	ra, ok := ctx.Value(requestAuthKey).(*requestAuth)
	if !ok {
		return
	}
	if method != "" {
		ra.method = method
	}
	if user != "" {
		ra.user = user
	}
}

// Logging returns a middleware that logs every request with its status and
// duration. Server errors are logged at error level, client errors at warn.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ra := &requestAuth{}

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestAuthKey, ra)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimw.GetReqID(r.Context()),
			}
			if ra.method != "" {
				attrs = append(attrs, "auth", ra.method)
			}
			if ra.user != "" {
				attrs = append(attrs, "user", ra.user)
			}

			switch {
			case status >= 500:
				logger.Error("Request failed", attrs...)
			case status >= 400:
				logger.Warn("Request rejected", attrs...)
			default:
				logger.Info("Request completed", attrs...)
			}
		})
	}
}
