package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/learninfinity/learninfinity/internal/common"
	"github.com/learninfinity/learninfinity/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// userIDFromContext returns the authenticated user's ID placed there by
// requireAuth.
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func (s *Server) bearerToken(r *http.Request) string {
	header := r.Header.Get(common.AuthorizationHeaderName)
	return strings.TrimPrefix(header, common.BearerPrefix)
}

// trackActivity is the per-request session hook: a valid bearer credential
// refreshes (or starts) the user's session; anything else passes through
// untouched. It never rejects a request.
func (s *Server) trackActivity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := s.bearerToken(r); token != "" {
			if userID, err := auth.GetUserIDFromToken(token, s.jwtSecret); err == nil {
				s.sessions.Touch(userID)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth resolves the bearer token into a user ID and stores it in the
// request context, or replies 401 with the standard envelope.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.bearerToken(r)
		if token == "" {
			fail(w, http.StatusUnauthorized, "No token provided")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			fail(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger logs one line per request through the structured logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}
