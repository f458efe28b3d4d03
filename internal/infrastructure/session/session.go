package session

import (
	"context"

	"github.com/iho/splitclear/internal/domain"
)

// Session carries the authenticated caller through a request: identity, the
// role resolved at token verification, and the bearer token forwarded to the
// upstream ledger. It replaces any ambient/global token state; everything
// that issues requests receives the session explicitly via context.
type Session struct {
	UserID string
	Name   string
	Role   domain.Role
	Token  string
}

type contextKey struct{}

// NewContext returns a context carrying the session.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session from a context.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
