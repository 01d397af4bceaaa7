package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBucketStore_Allow(t *testing.T) {
	store := NewInMemoryBucketStore()
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("requests up to the limit are allowed", func(t *testing.T) {
		for i := range 3 {
			res, err := store.Allow(ctx, "auth:10.0.0.1", 3, time.Minute, start.Add(time.Duration(i)*time.Second))
			require.NoError(t, err)
			assert.True(t, res.Allowed)
			assert.Equal(t, 2-i, res.Remaining)
			assert.Zero(t, res.RetryAfter)
		}
	})

	t.Run("request over the limit is denied until the oldest hit expires", func(t *testing.T) {
		res, err := store.Allow(ctx, "auth:10.0.0.1", 3, time.Minute, start.Add(10*time.Second))
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, start.Add(time.Minute), res.ResetAt)
		assert.Equal(t, 50, res.RetryAfter)
	})

	t.Run("keys are independent", func(t *testing.T) {
		res, err := store.Allow(ctx, "auth:10.0.0.2", 3, time.Minute, start.Add(10*time.Second))
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("window slides", func(t *testing.T) {
		res, err := store.Allow(ctx, "auth:10.0.0.1", 3, time.Minute, start.Add(time.Minute+500*time.Millisecond))
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})
}

func TestInMemoryBucketStore_Sweep(t *testing.T) {
	store := NewInMemoryBucketStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, _ = store.Allow(context.Background(), "a", 5, time.Minute, now)
	_, _ = store.Allow(context.Background(), "b", 5, time.Minute, now.Add(50*time.Second))

	assert.Equal(t, 1, store.Sweep(now.Add(90*time.Second)))
	assert.Len(t, store.buckets, 1)
}
