// Package middleware provides HTTP middleware for the chisubmit API.
package middleware

import (
	"errors"
	"net/http"

	"github.com/uchicago-cs/chisubmit-sub001/internal/logger"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/api/handlers"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/auth"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/metrics"
)

// Authenticate resolves the request's credentials and attaches the
// identity to the request context.
//
// Every failure kind maps to the same generic 401 response so the API
// cannot be used to enumerate usernames; the distinction survives only
// in logs and metrics.
func Authenticate(authenticator *auth.Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticator.Authenticate(r)
			if err != nil {
				kind := "invalid"
				switch {
				case errors.Is(err, auth.ErrMissingCredentials):
					kind = "missing"
				case errors.Is(err, auth.ErrUnknownIdentity):
					kind = "unknown"
				}
				metrics.IncAuthFailure(kind)
				logger.Debug("Authentication failed",
					"kind", kind,
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				handlers.Unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects requests whose identity is not an admin.
// Must run after Authenticate.
func RequireAdmin() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.IdentityFrom(r.Context())
			if !ok {
				handlers.Unauthorized(w)
				return
			}
			if !user.Admin {
				handlers.Forbidden(w, "Administrator access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
