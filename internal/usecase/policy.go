package usecase

import (
	"context"

	"github.com/iho/splitclear/internal/domain"
	"github.com/iho/splitclear/internal/infrastructure/session"
)

// requireAction gates a use case entry point on the caller's role. The check
// runs before any gateway call so forbidden actions never reach the network.
func requireAction(ctx context.Context, action domain.Action) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if !sess.Role.Can(action) {
		return domain.ErrInsufficientRole
	}

	return nil
}
