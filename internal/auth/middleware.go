package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/subahan-billing/subahan-billing/internal/platform/httpx"
)

// BearerToken extracts the token from the Authorization header, empty when
// the header is missing or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// Middleware rejects requests without a live session token.
func (s *Service) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := s.Verify(r.Context(), BearerToken(r))
			if err != nil {
				logger.Error("verify token", slog.Any("error", err))
				httpx.RespondError(w, err)
				return
			}
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
