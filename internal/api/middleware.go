package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fastprodman/smscoins/internal/identity"
	"github.com/fastprodman/smscoins/internal/ratelimit"
	"github.com/go-chi/chi/v5/middleware"
)

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		slog.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_ip", r.RemoteAddr,
		)
	})
}

// authenticate resolves the bearer credential and stores the identity in
// the request context. Nothing downstream runs without one.
func authenticate(v identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := identity.Resolve(r.Context(), v, r.Header.Get("Authorization"))
			if err != nil {
				code := codeInvalidToken
				if errors.Is(err, identity.ErrMissingCredentials) {
					code = codeUnauthorized
				}

				writeError(w, r, http.StatusUnauthorized, code, nil)

				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
		})
	}
}

// admit runs the per-account admission check before the body is read.
// A limiter that errors lets the request through.
func admit(l ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.FromContext(r.Context())
			if !ok {
				writeError(w, r, http.StatusUnauthorized, codeUnauthorized, nil)
				return
			}

			d, err := l.Allow(r.Context(), id.AccountID.String())
			if err != nil {
				slog.WarnContext(r.Context(), "rate limiter unavailable, admitting",
					"account_id", id.AccountID, "error", err)
				next.ServeHTTP(w, r)

				return
			}

			if !d.Allowed {
				secs := d.RetryAfterSeconds()
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				writeError(w, r, http.StatusTooManyRequests, codeRateLimited, map[string]any{"retryAfter": secs})

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.FromContext(r.Context())
			if !ok || !id.HasRole(role) {
				writeError(w, r, http.StatusForbidden, codeForbidden, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
