package middleware

import (
	"bytes"
	"context"
	"net/http"

	"github.com/rs/zerolog"

	redisrepo "github.com/iho/splitclear/internal/adapter/repository/redis"
)

const idempotencyHeader = "Idempotency-Key"

// ResponseStore remembers responses keyed by idempotency key.
type ResponseStore interface {
	Get(ctx context.Context, key string) (*redisrepo.StoredResponse, error)
	Save(ctx context.Context, key string, resp *redisrepo.StoredResponse) error
}

// Idempotency replays the stored response for a repeated mutation carrying
// the same Idempotency-Key. Requests without the header pass through; the
// header is optional on this API because the clearing workflow already sends
// its own key upstream.
func Idempotency(store ResponseStore, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(idempotencyHeader)
			if key == "" || (r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodDelete) {
				next.ServeHTTP(w, r)
				return
			}

			if stored, err := store.Get(r.Context(), key); err == nil && stored != nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Idempotency-Replayed", "true")
				w.WriteHeader(stored.Status)
				w.Write(stored.Body)
				return
			}

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// Only successful outcomes are worth replaying; a failed mutation
			// should be allowed to run again.
			if rec.status < 300 {
				err := store.Save(r.Context(), key, &redisrepo.StoredResponse{
					Status: rec.status,
					Body:   rec.body.Bytes(),
				})
				if err != nil {
					logger.Warn().Err(err).Str("key", key).Msg("failed to store idempotent response")
				}
			}
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
