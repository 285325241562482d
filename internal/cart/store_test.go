package cart

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	id := uuid.New()

	_, err := store.Load(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	session := &Session{ID: id, Cart: AddItem(Cart{}, headphones())}
	require.NoError(t, store.Save(ctx, session))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Cart.ItemCount())

	loaded.Cart = Cart{}
	again, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Cart.ItemCount(), "loaded sessions are copies")
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(30 * time.Minute)
	store.now = func() time.Time { return now }

	id := uuid.New()
	require.NoError(t, store.Save(ctx, &Session{ID: id}))

	now = now.Add(29 * time.Minute)
	_, err := store.Load(ctx, id)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_EvictKeepsRefreshedSession(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	id := uuid.New()
	require.NoError(t, store.Save(ctx, &Session{ID: id}))
	now = now.Add(2 * time.Minute)

	// A Save lands between the expired read and the eviction.
	require.NoError(t, store.Save(ctx, &Session{ID: id, Cart: AddItem(Cart{}, headphones())}))
	session, ok := store.evictIfExpired(id)
	require.True(t, ok)
	assert.Equal(t, 1, session.Cart.ItemCount())

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Cart.ItemCount())

	now = now.Add(2 * time.Minute)
	_, ok = store.evictIfExpired(id)
	assert.False(t, ok)
	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_ConcurrentLoadSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	id := uuid.New()
	require.NoError(t, store.Save(ctx, &Session{ID: id}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Load(ctx, id)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, &Session{ID: id}))
		}()
	}
	wg.Wait()

	_, err := store.Load(ctx, id)
	assert.NoError(t, err)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Hour)
	store.now = func() time.Time { return now }

	stale, fresh := uuid.New(), uuid.New()
	require.NoError(t, store.Save(ctx, &Session{ID: stale}))
	now = now.Add(45 * time.Minute)
	require.NoError(t, store.Save(ctx, &Session{ID: fresh}))
	now = now.Add(30 * time.Minute)

	assert.Equal(t, 1, store.Sweep())
	_, err := store.Load(ctx, fresh)
	assert.NoError(t, err)
	assert.Equal(t, 0, store.Sweep())
}

// setupTestRedis connects to REDIS_ADDR, skipping when nothing answers.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping redis tests: could not connect to redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisStore_SaveLoad(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	store := NewRedisStore(client, time.Minute)
	id := uuid.New()
	t.Cleanup(func() { client.Del(context.Background(), store.key(id)) })

	_, err := store.Load(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	cart := UpdateQuantity(AddItem(Cart{}, headphones()), "1", 3)
	require.NoError(t, store.Save(ctx, &Session{ID: id, Cart: cart}))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assertMoney(t, "971.9676", Summarize(loaded.Cart).Total)

	ttl, err := client.TTL(ctx, store.key(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
