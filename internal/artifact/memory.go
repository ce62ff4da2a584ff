package artifact

import (
	"context"
	"sync"

	"github.com/BaSui01/prompt2model/types"
)

// MemoryStore keeps artifacts in a process-local map. Default backend and
// the one the tests run against.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func memKey(sessionID string, slot types.Slot) string {
	return sessionID + "/" + string(slot)
}

// Put stores value under (sessionID, slot), overwriting any previous value.
func (s *MemoryStore) Put(ctx context.Context, sessionID string, slot types.Slot, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[memKey(sessionID, slot)] = value
	return nil
}

// Get returns the stored value or ARTIFACT_NOT_FOUND.
func (s *MemoryStore) Get(ctx context.Context, sessionID string, slot types.Slot) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[memKey(sessionID, slot)]
	if !ok {
		return "", ErrNotFound(sessionID, slot)
	}
	return v, nil
}
