package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BaSui01/prompt2model/types"
)

// FSStore persists artifacts as one text file per (session, slot) under a
// root directory, named {session}_{slot}.txt.
type FSStore struct {
	dir string
}

// NewFSStore creates the root directory if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(sessionID string, slot types.Slot) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.txt", sessionID, slot))
}

// Put writes the value, replacing any existing file.
func (s *FSStore) Put(ctx context.Context, sessionID string, slot types.Slot, value string) error {
	if err := os.WriteFile(s.path(sessionID, slot), []byte(value), 0o644); err != nil {
		return fmt.Errorf("write artifact file: %w", err)
	}
	return nil
}

// Get reads the value or returns ARTIFACT_NOT_FOUND when the file is absent.
func (s *FSStore) Get(ctx context.Context, sessionID string, slot types.Slot) (string, error) {
	data, err := os.ReadFile(s.path(sessionID, slot))
	if os.IsNotExist(err) {
		return "", ErrNotFound(sessionID, slot)
	}
	if err != nil {
		return "", fmt.Errorf("read artifact file: %w", err)
	}
	return string(data), nil
}
