package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := NewCache(10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "score", 0.75, time.Minute))

	var got float64
	found, err := c.Get(ctx, "score", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0.75, got)
}

func TestCache_Miss(t *testing.T) {
	c := NewCache(10, time.Minute)
	var got float64
	found, err := c.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_StructRoundTrip(t *testing.T) {
	type payload struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	}
	c := NewCache(10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "p", payload{Name: "uc-1", Score: 4.2}, 0))

	var got payload
	found, err := c.Get(ctx, "p", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "uc-1", Score: 4.2}, got)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := NewCache(10, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	var got string
	found, _ := c.Get(ctx, "k", &got)
	assert.True(t, found)

	now = now.Add(61 * time.Second)
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	// Expired entries are removed on read.
	assert.Equal(t, 0, c.Len())
}

func TestCache_LRUEviction(t *testing.T) {
	c := NewCache(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), i, time.Minute))
	}
	// Touch k0 so k1 becomes the eviction victim.
	var got int
	found, _ := c.Get(ctx, "k0", &got)
	require.True(t, found)

	require.NoError(t, c.Set(ctx, "k3", 3, time.Minute))
	assert.Equal(t, 3, c.Len())

	found, _ = c.Get(ctx, "k1", &got)
	assert.False(t, found)
	found, _ = c.Get(ctx, "k0", &got)
	assert.True(t, found)
	found, _ = c.Get(ctx, "k3", &got)
	assert.True(t, found)
}

func TestCache_UpdateExistingKey(t *testing.T) {
	c := NewCache(2, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "k", 2, time.Minute))
	assert.Equal(t, 1, c.Len())

	var got int
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, got)
}

func TestCache_Delete(t *testing.T) {
	c := NewCache(10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k")) // missing keys are not an error

	var got string
	found, _ := c.Get(ctx, "k", &got)
	assert.False(t, found)
	assert.Equal(t, 0, c.Len())
}

func TestCache_GetDecodeError(t *testing.T) {
	c := NewCache(10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "not a number", time.Minute))
	var got int
	_, err := c.Get(ctx, "k", &got)
	assert.Error(t, err)
}
