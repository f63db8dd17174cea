package auth

import (
	"context"
	"testing"
	"time"

	"sehhaty/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessionStore(rdb, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	accountID, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), accountID)

	require.NoError(t, store.Destroy(ctx, token))

	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStore_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessionStore(rdb, time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, 7)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStore_UnknownToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessionStore(rdb, time.Hour)

	_, err := store.Resolve(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.NoError(t, store.Destroy(context.Background(), "no-such-token"))
}

func TestMemorySessionStore_Lifecycle(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, 9)
	require.NoError(t, err)

	accountID, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(9), accountID)

	require.NoError(t, store.Destroy(ctx, token))
	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	store := NewMemorySessionStore(-time.Second)
	token, err := store.Create(context.Background(), 9)
	require.NoError(t, err)

	_, err = store.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAccessContext_Capabilities(t *testing.T) {
	anon := AccessContext{}
	assert.False(t, anon.Authenticated())
	assert.False(t, anon.IsAdmin())
	assert.Equal(t, uint(0), anon.AccountID())

	citizen := AccessContext{Account: &models.Account{ID: 3, NationalID: "1234567890"}}
	assert.True(t, citizen.Authenticated())
	assert.False(t, citizen.IsAdmin())
	assert.Equal(t, uint(3), citizen.AccountID())

	admin := AccessContext{Account: &models.Account{ID: 1, NationalID: models.AdminNationalID}}
	assert.True(t, admin.IsAdmin())
}
