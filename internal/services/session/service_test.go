package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscesim/consult-service/internal/core/cache"
	"github.com/oscesim/consult-service/internal/domain/models"
	rediscache "github.com/oscesim/consult-service/internal/infrastructure/cache/redis"
	"github.com/oscesim/consult-service/internal/pkg/encryption"
	"github.com/oscesim/consult-service/internal/services/session"
)

func setupStore(t *testing.T) (*miniredis.Miniredis, cache.Client, session.Store) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rediscache.NewClient(rediscache.Config{
		Host: mr.Host(),
		Port: mr.Port(),
	})
	require.NoError(t, err)

	encryptor, err := encryption.NewAESEncryptor("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	store, err := session.NewStore(&session.Config{
		CacheClient: client,
		Encryptor:   encryptor,
		TTL:         time.Hour,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client, store
}

func TestNewStore_Validation(t *testing.T) {
	_, err := session.NewStore(nil)
	assert.Error(t, err)

	_, err = session.NewStore(&session.Config{})
	assert.Error(t, err)
}

func TestStore_SaveAndGetRoundtrip(t *testing.T) {
	_, _, store := setupStore(t)
	ctx := context.Background()

	sess := models.NewConsultationSession("user-1")
	sess.Transcript = models.Transcript{
		models.NewSystemMessage("instructions"),
		models.NewAssistantMessage("Can I speak with someone about my symptoms?"),
	}
	sess.Hint = "ask their name"

	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "user-1", loaded.UserID)
	assert.Equal(t, "ask their name", loaded.Hint)
	require.Len(t, loaded.Transcript, 2)
	assert.Equal(t, models.RoleSystem, loaded.Transcript[0].Role)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestStore_GetMissingReturnsNil(t *testing.T) {
	_, _, store := setupStore(t)

	loaded, err := store.Get(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_CorruptedEntryIsDropped(t *testing.T) {
	mr, _, store := setupStore(t)
	ctx := context.Background()

	key := store.BuildCacheKey("user-1")
	require.NoError(t, mr.Set(key, "not encrypted data"))

	loaded, err := store.Get(ctx, "user-1")

	require.NoError(t, err)
	assert.Nil(t, loaded)
	// The stale entry is removed so the next read is a clean miss.
	assert.False(t, mr.Exists(key))
}

func TestStore_ValuesAreEncryptedAtRest(t *testing.T) {
	mr, _, store := setupStore(t)
	ctx := context.Background()

	sess := models.NewConsultationSession("user-1")
	sess.Hint = "a clearly recognisable marker"
	require.NoError(t, store.Save(ctx, sess))

	raw, err := mr.Get(store.BuildCacheKey("user-1"))
	require.NoError(t, err)
	assert.NotContains(t, raw, "clearly recognisable marker")
}

func TestStore_SaveSetsTTL(t *testing.T) {
	mr, _, store := setupStore(t)

	sess := models.NewConsultationSession("user-1")
	require.NoError(t, store.Save(context.Background(), sess))

	assert.Greater(t, mr.TTL(store.BuildCacheKey("user-1")), time.Duration(0))
}

func TestStore_Delete(t *testing.T) {
	_, _, store := setupStore(t)
	ctx := context.Background()

	sess := models.NewConsultationSession("user-1")
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, "user-1"))

	loaded, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_SaveRequiresOwner(t *testing.T) {
	_, _, store := setupStore(t)

	err := store.Save(context.Background(), &models.ConsultationSession{})

	assert.Error(t, err)
}
