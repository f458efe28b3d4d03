package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/iho/splitclear/internal/infrastructure/session"
)

// TokenVerifier resolves a bearer token into a session.
type TokenVerifier interface {
	Verify(token string) (*session.Session, error)
}

// Auth verifies the bearer token and puts the resulting session into the
// request context. Requests without a valid token never reach a handler.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			s, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
