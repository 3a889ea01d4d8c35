package transport

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetMissesBeforeAnyPut(t *testing.T) {
	c := NewResponseCache(filepath.Join(t.TempDir(), "cache"), time.Hour, false)
	_, ok := c.Get("https://example.com", nil)
	assert.False(t, ok)
}

func TestCachePutThenGetRoundTrips(t *testing.T) {
	c := NewResponseCache(filepath.Join(t.TempDir(), "cache"), time.Hour, false)
	payload := []byte(`{"hello":"world"}`)

	require.NoError(t, c.Put("https://example.com", nil, payload))

	got, ok := c.Get("https://example.com", nil)
	require.True(t, ok)
	assert.JSONEq(t, string(payload), string(got))
}

func TestCacheDistinguishesPOSTBodies(t *testing.T) {
	c := NewResponseCache(filepath.Join(t.TempDir(), "cache"), time.Hour, false)

	require.NoError(t, c.Put("https://example.com", []byte("body-a"), []byte(`"a"`)))
	require.NoError(t, c.Put("https://example.com", []byte("body-b"), []byte(`"b"`)))

	got, ok := c.Get("https://example.com", []byte("body-a"))
	require.True(t, ok)
	assert.Equal(t, `"a"`, string(got))

	got, ok = c.Get("https://example.com", []byte("body-b"))
	require.True(t, ok)
	assert.Equal(t, `"b"`, string(got))
}

func TestCacheDisabledNeverStoresOrReturns(t *testing.T) {
	c := NewResponseCache(filepath.Join(t.TempDir(), "cache"), time.Hour, true)

	require.NoError(t, c.Put("https://example.com", nil, []byte(`"x"`)))
	_, ok := c.Get("https://example.com", nil)
	assert.False(t, ok, "a disabled cache must never serve a hit even if Put silently no-ops")
}

func TestCacheEntryOlderThanTTLIsAMiss(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewResponseCache(dir, time.Hour, false)
	require.NoError(t, c.Put("https://example.com", nil, []byte(`"x"`)))

	// Re-open with a TTL so small the entry just written is already stale.
	expired := NewResponseCache(dir, time.Nanosecond, false)
	time.Sleep(time.Millisecond)
	_, ok := expired.Get("https://example.com", nil)
	assert.False(t, ok)
}

func TestCacheClearRemovesAllEntries(t *testing.T) {
	c := NewResponseCache(filepath.Join(t.TempDir(), "cache"), time.Hour, false)
	require.NoError(t, c.Put("https://example.com/a", nil, []byte(`"a"`)))
	require.NoError(t, c.Put("https://example.com/b", nil, []byte(`"b"`)))

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)

	require.NoError(t, c.Clear())

	stats, err = c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestCacheStatsOnMissingDirectoryIsEmptyNotError(t *testing.T) {
	c := NewResponseCache(filepath.Join(t.TempDir(), "never-created"), time.Hour, false)
	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, CacheStats{}, stats)
}
