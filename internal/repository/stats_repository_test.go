package repository

import (
	"context"
	"testing"
	"time"

	"skillcheck_backend/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*PerformerCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewPerformerCache(client, 10*time.Minute), mr
}

func sampleBoard() *model.PerformerBoard {
	return &model.PerformerBoard{
		Entries: []model.PerformerEntry{
			{
				UserID:       7,
				UserName:     "张三",
				TestID:       "test-1",
				TechnologyID: 2,
				RateBefore:   40,
				RateAfter:    80,
				Improvement:  40,
				RecordedAt:   time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
			},
		},
		UpdatedAt: time.Date(2026, 3, 2, 11, 5, 0, 0, time.UTC),
	}
}

func TestPerformerCacheMissReturnsNil(t *testing.T) {
	cache, _ := newTestCache(t)

	board, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, board)
}

func TestPerformerCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleBoard()))

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, uint(7), got.Entries[0].UserID)
	assert.Equal(t, "张三", got.Entries[0].UserName)
	assert.Equal(t, 40, got.Entries[0].Improvement)
}

func TestPerformerCacheTTL(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleBoard()))

	mr.FastForward(11 * time.Minute)

	board, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, board, "过期后应视为未命中")
}

func TestPerformerCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleBoard()))
	require.NoError(t, cache.Invalidate(ctx))

	board, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, board)
}

func TestPerformerCacheCorruptPayload(t *testing.T) {
	cache, mr := newTestCache(t)

	mr.Set(performerCacheKey, "{not json")

	_, err := cache.Get(context.Background())
	assert.Error(t, err)
}
