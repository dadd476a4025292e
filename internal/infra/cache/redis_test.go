package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_InvalidURL(t *testing.T) {
	_, err := NewRedis("http://not-redis", time.Minute)
	assert.Error(t, err)
}

func TestNewRedis_DefaultTTL(t *testing.T) {
	r, err := NewRedis("redis://localhost:6379/0", 0)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	assert.Equal(t, DefaultTTL, r.ttl)
	assert.Equal(t, "redis", r.Backend())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "tweet-takeaways:summary:abc", Key("abc"))
}

// TestRedis_RoundTrip runs against a real server when TEST_REDIS_URL is set.
func TestRedis_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	r, err := NewRedis(url, time.Minute)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	ctx := context.Background()
	require.NoError(t, r.Ping(ctx))

	_, ok, err := r.Get(ctx, "missing-key")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "round-trip", "value"))
	v, ok, err := r.Get(ctx, "round-trip")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}
