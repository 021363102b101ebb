package http

import (
	"context"
	"net/http"
	"strings"

	"spendlog/internal/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

// requireAuth validates the bearer token and stores the caller's user id in
// the request context. Validated tokens are cached until the earlier of the
// cache TTL and the token expiry, so a hot token skips the signature check.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, r, auth.ErrInvalidToken)
			return
		}

		if userID, found := s.tokenCache.Get(token); found {
			next(w, r.WithContext(withUserID(r.Context(), userID)))
			return
		}

		claims, err := s.auth.ValidateToken(token)
		if err != nil {
			writeError(w, r, auth.ErrInvalidToken)
			return
		}

		s.tokenCache.SetUntil(token, claims.UserID, claims.ExpiresAt.Time)

		next(w, r.WithContext(withUserID(r.Context(), claims.UserID)))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func withUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserID returns the authenticated user's id from the request context.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
