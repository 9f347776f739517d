package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscesim/consult-service/internal/core/cache"
	rediscache "github.com/oscesim/consult-service/internal/infrastructure/cache/redis"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, cache.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rediscache.NewClient(rediscache.Config{
		Host:       mr.Host(),
		Port:       mr.Port(),
		DefaultTTL: time.Minute,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestNewClient_Success(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := rediscache.NewClient(rediscache.Config{
		Host: mr.Host(),
		Port: mr.Port(),
	})

	require.NoError(t, err)
	assert.NotNil(t, client)
	client.Close()
}

func TestNewClient_ConnectionFailure(t *testing.T) {
	client, err := rediscache.NewClient(rediscache.Config{
		Host: "localhost",
		Port: "1",
	})

	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestClient_SetAndGet(t *testing.T) {
	_, client := setupMiniredis(t)
	ctx := context.Background()

	err := client.Set(ctx, "key", []byte("value"), time.Minute)
	require.NoError(t, err)

	value, err := client.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
}

func TestClient_GetMissingKey(t *testing.T) {
	_, client := setupMiniredis(t)

	value, err := client.Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestClient_SetUsesDefaultTTL(t *testing.T) {
	mr, client := setupMiniredis(t)

	err := client.Set(context.Background(), "key", []byte("value"), 0)
	require.NoError(t, err)

	assert.Equal(t, time.Minute, mr.TTL("key"))
}

func TestClient_Delete(t *testing.T) {
	_, client := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "key", []byte("value"), time.Minute))

	deleted, err := client.Delete(ctx, "key")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = client.Delete(ctx, "key")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestClient_Ping(t *testing.T) {
	mr, client := setupMiniredis(t)

	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}
