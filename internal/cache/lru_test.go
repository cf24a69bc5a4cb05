package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCache_PutGet(t *testing.T) {
	c := NewResponseCache(4, time.Hour)

	c.Put("¿cuánto debo?", "Debes 120 euros.")
	got, ok := c.Get("¿cuánto debo?")
	require.True(t, ok)
	assert.Equal(t, "Debes 120 euros.", got)

	_, ok = c.Get("otra pregunta")
	assert.False(t, ok)
}

func TestResponseCache_UpdateKeepsSingleEntry(t *testing.T) {
	c := NewResponseCache(4, time.Hour)

	c.Put("clave", "primera")
	c.Put("clave", "segunda")
	assert.Equal(t, 1, c.Len())

	got, ok := c.Get("clave")
	require.True(t, ok)
	assert.Equal(t, "segunda", got)
}

func TestResponseCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewResponseCache(2, time.Hour)

	c.Put("a", "1")
	c.Put("b", "2")

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", "3")
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestResponseCache_ExpiresAfterTTL(t *testing.T) {
	current := time.Unix(5000, 0)
	c := NewResponseCache(4, time.Minute)
	c.now = func() time.Time { return current }

	c.Put("clave", "respuesta")
	_, ok := c.Get("clave")
	require.True(t, ok)

	current = current.Add(61 * time.Second)
	_, ok = c.Get("clave")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestResponseCache_ZeroTTLNeverExpires(t *testing.T) {
	current := time.Unix(5000, 0)
	c := NewResponseCache(4, 0)
	c.now = func() time.Time { return current }

	c.Put("clave", "respuesta")
	current = current.Add(1000 * time.Hour)

	_, ok := c.Get("clave")
	assert.True(t, ok)
}

func TestResponseCache_Purge(t *testing.T) {
	c := NewResponseCache(8, time.Hour)
	for i := 0; i < 5; i++ {
		c.Put(fmt.Sprintf("k%d", i), "v")
	}
	require.Equal(t, 5, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("k0")
	assert.False(t, ok)
}
