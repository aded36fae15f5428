package persist

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedis connects to IRONLIST_TEST_REDIS_ADDR and skips when it is unset
func setupRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("IRONLIST_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("IRONLIST_TEST_REDIS_ADDR not set")
	}

	r, err := OpenRedis(context.Background(), RedisOptions{
		Addr:   addr,
		Prefix: "ironlist-test:" + uuid.NewString() + ":",
	})
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestOpenRedisRequiresAddr(t *testing.T) {
	_, err := OpenRedis(context.Background(), RedisOptions{})
	assert.ErrorContains(t, err, "address is empty")
}

func TestRedisGetPut(t *testing.T) {
	ctx := context.Background()
	r := setupRedis(t)

	_, ok, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Put(ctx, "k", []byte("one")))
	require.NoError(t, r.Put(ctx, "k", []byte("two")))

	v, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", string(v))
}

func TestRedisBackedAdapter(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(setupRedis(t))

	require.NoError(t, a.SetPreference(ctx, "darkTheme", true))
	prefs, err := a.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.True(t, prefs.DarkTheme)
}
