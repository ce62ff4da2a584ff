package session

import (
	"context"

	"github.com/BaSui01/prompt2model/types"
)

// Repository stores generation sessions by id. The orchestrator is stateless;
// all cross-request correlation goes through an injected Repository, never
// through ambient globals.
type Repository interface {
	Create(ctx context.Context, s *types.GenerationSession) error
	// Get returns the session or a SESSION_EXPIRED error.
	Get(ctx context.Context, id string) (*types.GenerationSession, error)
	Update(ctx context.Context, s *types.GenerationSession) error
}

// ErrNotFound builds the uniform missing-session error.
func ErrNotFound(id string) *types.Error {
	return types.NewError(types.ErrSessionExpired, "session not found: "+id)
}
