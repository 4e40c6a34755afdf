package tests

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/pkg/ports"
)

// ResultCacheContractTest is a reusable test suite that verifies if an adapter complies with ports.ResultCache.
func ResultCacheContractTest(t *testing.T, cache ports.ResultCache) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Miss", func(t *testing.T) {
		v, ok, err := cache.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("Set_Get", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "k1", []byte(`{"type":"Program"}`)))
		v, ok, err := cache.Get(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"type":"Program"}`, string(v))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "k2", []byte("a")))
		require.NoError(t, cache.Set(ctx, "k2", []byte("b")))
		v, _, err := cache.Get(ctx, "k2")
		require.NoError(t, err)
		assert.Equal(t, "b", string(v))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "k3", []byte("x")))
		require.NoError(t, cache.Delete(ctx, "k3"))
		require.NoError(t, cache.Delete(ctx, "k3"))
		_, ok, err := cache.Get(ctx, "k3")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Concurrent", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("c%d", i)
				assert.NoError(t, cache.Set(ctx, key, []byte(key)))
				v, ok, err := cache.Get(ctx, key)
				assert.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, key, string(v))
			}(i)
		}
		wg.Wait()
	})
}
