package kv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Run("put and get", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)

		store.Put("key", "value", time.Minute)

		got, found := store.Get("key")
		require.True(t, found)
		assert.Equal(t, "value", got)
		assert.True(t, store.Has("key"))
	})

	t.Run("missing key", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)

		_, found := store.Get("missing")
		assert.False(t, found)
		assert.False(t, store.Has("missing"))
	})

	t.Run("ttl expiry", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)

		store.Put("short", "value", 10*time.Millisecond)
		time.Sleep(30 * time.Millisecond)

		_, found := store.Get("short")
		assert.False(t, found)
	})

	t.Run("forget", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)

		store.Put("key", "value", time.Minute)
		store.Forget("key")

		assert.False(t, store.Has("key"))
	})

	t.Run("zero ttl uses default", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)

		store.Put("key", "value", 0)

		got, found := store.Get("key")
		require.True(t, found)
		assert.Equal(t, "value", got)
	})
}
