package artifact

import (
	"context"

	"github.com/BaSui01/prompt2model/types"
)

// Store is session-scoped key→blob storage for transient artifacts.
// Values are opaque to the store: either a vendor-hosted URL or a base64
// data URI. Put is last-write-wins; there is no version history and no
// automatic expiry.
type Store interface {
	Put(ctx context.Context, sessionID string, slot types.Slot, value string) error
	// Get returns the stored value or an ARTIFACT_NOT_FOUND error.
	Get(ctx context.Context, sessionID string, slot types.Slot) (string, error)
}

// ErrNotFound builds the uniform missing-artifact error. A partial write
// (e.g. slot A stored, slot B lost in a crash) surfaces as this, never as
// corrupted state.
func ErrNotFound(sessionID string, slot types.Slot) *types.Error {
	return types.NewError(types.ErrArtifactNotFound,
		"artifact not found for session "+sessionID+" slot "+string(slot))
}
