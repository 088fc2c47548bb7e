package utility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()

	cache.Set("key1", "value1")
	value, exists := cache.Get("key1")
	require.True(t, exists)
	assert.Equal(t, "value1", value)

	_, exists = cache.Get("missing")
	assert.False(t, exists)
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(30*time.Millisecond, time.Minute)
	defer cache.Stop()

	cache.Set("token", "abc")
	_, exists := cache.Get("token")
	require.True(t, exists)

	// Hết TTL thì Get không được trả về entry cũ, kể cả khi cleanup chưa chạy
	time.Sleep(50 * time.Millisecond)
	_, exists = cache.Get("token")
	assert.False(t, exists)
}

func TestCacheDelete(t *testing.T) {
	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()

	cache.Set("token", "abc")
	cache.Delete("token")
	_, exists := cache.Get("token")
	assert.False(t, exists)
}

func TestCacheOverwrite(t *testing.T) {
	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()

	cache.Set("token", "old")
	cache.Set("token", "new")
	value, exists := cache.Get("token")
	require.True(t, exists)
	assert.Equal(t, "new", value)
}
