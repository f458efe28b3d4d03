package idgen

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULID generates lexicographically sortable ids. Workflow ids double as
// idempotency keys, so monotonic ordering within a millisecond matters.
type ULID struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULID() *ULID {
	return &ULID{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (g *ULID) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}
