package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"travel-ai-planner/internal/infra/redis"
)

type ctxKey string

const ctxUserID ctxKey = "auth_user_id"

// authMiddleware validates the bearer JWT and stashes the subject claim as
// the user id.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, http.StatusUnauthorized, "malformed authorization header")
			return
		}

		userID, err := s.parseToken(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) parseToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("missing subject")
	}
	return sub, nil
}

func userIDFrom(ctx context.Context) string {
	if v := ctx.Value(ctxUserID); v != nil {
		return v.(string)
	}
	return ""
}

// rateLimitMiddleware caps plan submissions per user in a fixed window.
// Fails open when redis is unavailable; submission is already guarded by
// the credit ledger.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFrom(r.Context())
		ok, err := s.limiter.Allow(r.Context(), redis.SubmitKey(userID), s.rateLimit, s.rateWindow)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			writeError(w, http.StatusTooManyRequests, "too many plan requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
