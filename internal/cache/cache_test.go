package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spacesedan/mood2emoji/internal/mood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore(time.Minute, DefaultMaxEntries, clockwork.NewFakeClock())
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", 0.5))

	score, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.5, score)
}

func TestMemoryStore_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(10*time.Second, DefaultMaxEntries, clock)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", -0.2))

	clock.Advance(9 * time.Second)
	_, ok, _ := store.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(2 * time.Second)
	_, ok, _ = store.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 1, store.Size(), "expired entries linger until eviction")
}

func TestMemoryStore_BoundedSize(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(time.Minute, 2, clock)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "first", 0.1))
	clock.Advance(time.Second)
	require.NoError(t, store.Set(ctx, "second", 0.2))
	clock.Advance(time.Second)
	require.NoError(t, store.Set(ctx, "third", 0.3))

	assert.Equal(t, 2, store.Size())
	_, ok, _ := store.Get(ctx, "first")
	assert.False(t, ok, "entry closest to expiry is dropped first")
	_, ok, _ = store.Get(ctx, "third")
	assert.True(t, ok)

	require.NoError(t, store.Set(ctx, "third", 0.4))
	assert.Equal(t, 2, store.Size(), "overwriting an existing key does not evict")
	_, ok, _ = store.Get(ctx, "second")
	assert.True(t, ok)
}

func TestMemoryStore_FullStorePrefersExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(10*time.Second, 2, clock)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "stale", 0.1))
	clock.Advance(8 * time.Second)
	require.NoError(t, store.Set(ctx, "fresh", 0.2))
	clock.Advance(5 * time.Second)
	require.NoError(t, store.Set(ctx, "newest", 0.3))

	assert.Equal(t, 2, store.Size())
	_, ok, _ := store.Get(ctx, "fresh")
	assert.True(t, ok)
	_, ok, _ = store.Get(ctx, "newest")
	assert.True(t, ok)
}

func TestMemoryStore_EvictExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(10*time.Second, DefaultMaxEntries, clock)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "old", 0.1))
	clock.Advance(8 * time.Second)
	require.NoError(t, store.Set(ctx, "new", 0.2))
	clock.Advance(5 * time.Second)

	assert.Equal(t, 1, store.EvictExpired())
	assert.Equal(t, 1, store.Size())

	_, ok, _ := store.Get(ctx, "new")
	assert.True(t, ok)
}

func TestMemoryStore_EvictionTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(time.Second, DefaultMaxEntries, clock)
	require.NoError(t, store.Set(context.Background(), "k", 0.3))

	stop := store.StartEvictionTimer(time.Minute)
	defer stop()

	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	clock.Advance(time.Minute)

	assert.Eventually(t, func() bool { return store.Size() == 0 }, time.Second, 5*time.Millisecond)
}

type countingOracle struct {
	score float64
	err   error
	calls int
}

func (c *countingOracle) Polarity(context.Context, string) (float64, error) {
	c.calls++
	return c.score, c.err
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (float64, bool, error) {
	return 0, false, errors.New("cache down")
}

func (failingStore) Set(context.Context, string, float64) error {
	return errors.New("cache down")
}

func TestCachedOracle_HitsAfterFirstCall(t *testing.T) {
	inner := &countingOracle{score: 0.7}
	oracle := NewCachedOracle("vader", inner, NewMemoryStore(time.Minute, DefaultMaxEntries, clockwork.NewFakeClock()))

	for i := 0; i < 3; i++ {
		score, err := oracle.Polarity(context.Background(), "I love sunny days")
		require.NoError(t, err)
		assert.Equal(t, 0.7, score)
	}

	assert.Equal(t, 1, inner.calls)
}

func TestCachedOracle_DistinctTexts(t *testing.T) {
	inner := &countingOracle{score: 0.1}
	oracle := NewCachedOracle("vader", inner, NewMemoryStore(time.Minute, DefaultMaxEntries, clockwork.NewFakeClock()))

	_, _ = oracle.Polarity(context.Background(), "one")
	_, _ = oracle.Polarity(context.Background(), "two")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedOracle_ErrorsNotCached(t *testing.T) {
	inner := &countingOracle{err: errors.New("boom")}
	oracle := NewCachedOracle("remote", inner, NewMemoryStore(time.Minute, DefaultMaxEntries, clockwork.NewFakeClock()))

	_, err := oracle.Polarity(context.Background(), "hello")
	require.Error(t, err)

	inner.err = nil
	inner.score = 0.4
	score, err := oracle.Polarity(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 0.4, score)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedOracle_StoreFailureFallsThrough(t *testing.T) {
	inner := &countingOracle{score: -0.6}
	oracle := NewCachedOracle("vader", inner, failingStore{})

	score, err := oracle.Polarity(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, -0.6, score)
}

func TestCachedOracle_WorksWithClassifier(t *testing.T) {
	inner := &countingOracle{score: 0.6}
	c := mood.NewClassifier(
		NewCachedOracle("vader", inner, NewMemoryStore(time.Minute, DefaultMaxEntries, clockwork.NewFakeClock())),
		mood.DefaultLexicon(),
	)

	first, err := c.Classify(context.Background(), "I love learning new things!")
	require.NoError(t, err)
	second, err := c.Classify(context.Background(), "I love learning new things!")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestKey_NamespacedByOracle(t *testing.T) {
	assert.NotEqual(t, Key("vader", "hello"), Key("remote", "hello"))
	assert.Equal(t, Key("vader", "hello"), Key("vader", "hello"))
	assert.NotEqual(t, Key("vader", "hello"), Key("vader", "Hello"))
}
