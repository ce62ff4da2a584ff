package session

import (
	"context"
	"sync"
	"time"

	"github.com/BaSui01/prompt2model/types"
)

// MemoryRepository keeps sessions in a process-local map.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]types.GenerationSession
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string]types.GenerationSession)}
}

// Create stores a new session record.
func (r *MemoryRepository) Create(ctx context.Context, s *types.GenerationSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.sessions[s.ID] = *s
	return nil
}

// Get returns a copy of the session or SESSION_EXPIRED.
func (r *MemoryRepository) Get(ctx context.Context, id string) (*types.GenerationSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound(id)
	}
	return &s, nil
}

// Update replaces the stored record; SESSION_EXPIRED when absent.
func (r *MemoryRepository) Update(ctx context.Context, s *types.GenerationSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return ErrNotFound(s.ID)
	}
	s.UpdatedAt = time.Now()
	r.sessions[s.ID] = *s
	return nil
}
