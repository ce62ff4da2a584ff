package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/prompt2model/types"
)

// repositoryContract runs the Repository contract against any backend.
func repositoryContract(t *testing.T, repo Repository) {
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, types.ErrSessionExpired, types.GetErrorCode(err))

	s := &types.GenerationSession{ID: "sess-1", Prompt: "a red wooden chair"}
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "a red wooden chair", got.Prompt)
	assert.Empty(t, got.ReconstructionTaskID)

	got.ReconstructionTaskID = "task-42"
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "task-42", got.ReconstructionTaskID)

	got.RemeshTaskID = "remesh-7"
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "task-42", got.ReconstructionTaskID)
	assert.Equal(t, "remesh-7", got.RemeshTaskID)

	err = repo.Update(ctx, &types.GenerationSession{ID: "missing"})
	require.Error(t, err)
	assert.Equal(t, types.ErrSessionExpired, types.GetErrorCode(err))
}

func TestMemoryRepository(t *testing.T) {
	repositoryContract(t, NewMemoryRepository())
}

func TestMemoryRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.Create(ctx, &types.GenerationSession{ID: "s", Prompt: "p"}))

	got, err := repo.Get(ctx, "s")
	require.NoError(t, err)
	got.Prompt = "mutated"

	again, err := repo.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "p", again.Prompt)
}

func TestGormRepository_SQLite(t *testing.T) {
	repo, err := NewGormRepository(Config{Driver: "sqlite", DSN: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	repositoryContract(t, repo)
}

func TestGormRepository_UnsupportedDriver(t *testing.T) {
	_, err := NewGormRepository(Config{Driver: "oracle"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
