package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basso-ws/workspace-backend/internal/session/domain"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client), mr
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	sess := &domain.Session{
		AccessToken: "tok-1",
		UserID:      "u-1",
		Email:       "lead@x.com",
		Role:        "team_lead",
	}
	require.NoError(t, store.Save(ctx, sess))
	assert.False(t, sess.CreatedAt.IsZero())

	got, err := store.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "team_lead", got.Role)

	cur, err := store.LoadCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", cur.AccessToken)
}

func TestStore_SaveRequiresToken(t *testing.T) {
	store, _ := setupTestStore(t)
	err := store.Save(context.Background(), &domain.Session{})
	assert.Error(t, err)
}

func TestStore_MissingSession(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetByToken(ctx, "nope")
	assert.Equal(t, domain.ErrSessionNotFound, err)

	_, err = store.LoadCurrent(ctx)
	assert.Equal(t, domain.ErrSessionNotFound, err)
}

func TestStore_Clear(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Session{AccessToken: "tok-1", UserID: "u-1"}))
	require.NoError(t, store.Clear(ctx))

	_, err := store.LoadCurrent(ctx)
	assert.Equal(t, domain.ErrSessionNotFound, err)
	_, err = store.GetByToken(ctx, "tok-1")
	assert.Equal(t, domain.ErrSessionNotFound, err)

	// clearing an already empty store is fine
	require.NoError(t, store.Clear(ctx))
}

func TestStore_SessionTTLFollowsExpiry(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Session{
		AccessToken: "tok-1",
		UserID:      "u-1",
		ExpiresAt:   time.Now().Add(time.Hour),
	}))

	mr.FastForward(2 * time.Hour)

	_, err := store.GetByToken(ctx, "tok-1")
	assert.Equal(t, domain.ErrSessionNotFound, err)
}

func TestStore_PruneTokenIndex(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Session{
		AccessToken: "tok-live",
		UserID:      "u-1",
		ExpiresAt:   time.Now().Add(48 * time.Hour),
	}))
	require.NoError(t, store.Save(ctx, &domain.Session{
		AccessToken: "tok-dead",
		UserID:      "u-2",
		ExpiresAt:   time.Now().Add(time.Hour),
	}))

	mr.FastForward(2 * time.Hour)

	pruned, err := store.PruneTokenIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	// live token survives the sweep
	_, err = store.GetByToken(ctx, "tok-live")
	assert.NoError(t, err)
}

func TestStore_AuthEventsPubSub(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	sub := store.SubscribeAuthEvents(ctx)
	defer sub.Close()
	ch := sub.Channel()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, store.PublishAuthEvent(ctx, "signed_out"))

	select {
	case msg := <-ch:
		assert.Equal(t, "signed_out", msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("auth event was not delivered")
	}
}
