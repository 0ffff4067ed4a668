/*
middleware.go - Authentication, authorization, and request logging

PURPOSE:
  The request-scoped cross-cutting concerns:
  - requireAuth: validates the Bearer token and stores the caller identity
    in the request context.
  - requireRole: gates a subtree on a minimum role. Roles are ordered
    admin > manager > user, so an admin passes every gate.
  - requestLogger: structured request log line via slog.

IDENTITY FLOW:
  requireAuth -> context -> callerFrom(r). Handlers never parse tokens
  themselves. A missing or invalid token is 401; an insufficient role is
  403. The login endpoint itself is outside these gates.

SEE ALSO:
  - auth/jwt.go: Token validation
  - server.go: Which routes sit behind which gate
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/user"
)

type contextKey string

const callerKey contextKey = "caller"

// Caller is the authenticated identity attached to a request.
type Caller struct {
	UserID string
	Email  string
	Role   user.Role
}

// callerFrom returns the authenticated caller, if any.
func callerFrom(r *http.Request) (Caller, bool) {
	c, ok := r.Context().Value(callerKey).(Caller)
	return c, ok
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// requireAuth validates the Bearer token and attaches the caller identity.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized", core.ErrMissingToken)
			return
		}

		claims, err := h.Tokens.Validate(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized", core.ErrInvalidToken)
			return
		}

		caller := Caller{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
		ctx := context.WithValue(r.Context(), callerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a subtree on a minimum role.
func requireRole(min user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := callerFrom(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized", core.ErrMissingToken)
				return
			}
			if !caller.Role.AtLeast(min) {
				writeError(w, http.StatusForbidden, "Forbidden", core.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger emits one structured line per request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
