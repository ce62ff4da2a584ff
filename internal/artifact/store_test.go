package artifact

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/prompt2model/types"
)

// storeContract runs the Store contract against any backend.
func storeContract(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Get(ctx, "s1", types.SlotA)
	require.Error(t, err)
	assert.Equal(t, types.ErrArtifactNotFound, types.GetErrorCode(err))

	require.NoError(t, store.Put(ctx, "s1", types.SlotA, "https://cdn.example.com/a.png"))
	require.NoError(t, store.Put(ctx, "s1", types.SlotB, "data:image/png;base64,aGVsbG8="))

	v, err := store.Get(ctx, "s1", types.SlotA)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", v)

	v, err = store.Get(ctx, "s1", types.SlotB)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", v)

	// sessions never contend: same slot, other session stays missing
	_, err = store.Get(ctx, "s2", types.SlotA)
	assert.Equal(t, types.ErrArtifactNotFound, types.GetErrorCode(err))

	// overwrite is last-write-wins, no history
	require.NoError(t, store.Put(ctx, "s1", types.SlotA, "second"))
	v, err = store.Get(ctx, "s1", types.SlotA)
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestFSStore(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	storeContract(t, store)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	storeContract(t, store)

	// keys carry no TTL: expiry is a deployment concern
	assert.Equal(t, int64(0), int64(mr.TTL("artifact:s1:A")))
}

func TestRedisStore_ConnectError(t *testing.T) {
	_, err := NewRedisStore(RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
	require.Error(t, err)
}
