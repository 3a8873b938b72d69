package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() Key {
	return Key{Path: "/tmp/logo.png", MTime: 1234567890, Height: 20, Width: 0, Mode: ModeBlock}
}

func TestDirCacheRoundtrip(t *testing.T) {
	cache := NewDirCache(filepath.Join(t.TempDir(), "cache"), DefaultTTL, nil)
	lines := []string{"line one", "line two"}

	cache.Store(testKey(), lines)
	got, ok := cache.Lookup(testKey())

	require.True(t, ok)
	assert.Equal(t, lines, got)
}

func TestDirCacheMissWhenEmpty(t *testing.T) {
	cache := NewDirCache(t.TempDir(), DefaultTTL, nil)

	_, ok := cache.Lookup(testKey())

	assert.False(t, ok)
}

func TestDirCacheKeySensitivity(t *testing.T) {
	cache := NewDirCache(t.TempDir(), DefaultTTL, nil)
	cache.Store(testKey(), []string{"cached"})

	tests := []struct {
		name   string
		mutate func(k *Key)
	}{
		{"different mtime", func(k *Key) { k.MTime++ }},
		{"different height", func(k *Key) { k.Height++ }},
		{"different width", func(k *Key) { k.Width = 10 }},
		{"different mode", func(k *Key) { k.Mode = ModeBraille }},
		{"different path", func(k *Key) { k.Path = "/tmp/other.png" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := testKey()
			tt.mutate(&k)

			_, ok := cache.Lookup(k)

			assert.False(t, ok)
		})
	}
}

func TestDirCacheTTLExpiry(t *testing.T) {
	dir := t.TempDir()
	cache := NewDirCache(dir, DefaultTTL, nil)
	cache.Store(testKey(), []string{"stale"})

	// Age the entry past the TTL by touching the cache file itself.
	entry := filepath.Join(dir, testKey().sum())
	old := time.Now().Add(-25 * time.Hour)
	require.NoError(t, os.Chtimes(entry, old, old))

	_, ok := cache.Lookup(testKey())

	assert.False(t, ok)
}

func TestDirCacheStoreOverwrites(t *testing.T) {
	cache := NewDirCache(t.TempDir(), DefaultTTL, nil)
	cache.Store(testKey(), []string{"first"})
	cache.Store(testKey(), []string{"second"})

	got, ok := cache.Lookup(testKey())

	require.True(t, ok)
	assert.Equal(t, []string{"second"}, got)
}

func TestDirCacheStoreFailureIsNonFatal(t *testing.T) {
	// Pointing the cache at a path that cannot become a directory must
	// not panic or error out; rendering already succeeded by the time
	// Store runs.
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cache := NewDirCache(filepath.Join(blocker, "cache"), DefaultTTL, nil)

	cache.Store(testKey(), []string{"dropped"})
	_, ok := cache.Lookup(testKey())

	assert.False(t, ok)
}

func TestDirCacheLazyDirectoryCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not", "yet", "there")
	cache := NewDirCache(dir, DefaultTTL, nil)

	_, ok := cache.Lookup(testKey())
	assert.False(t, ok)
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "lookup must not create the directory")

	cache.Store(testKey(), []string{"x"})
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestMemCacheRoundtrip(t *testing.T) {
	cache := NewMemCache()
	cache.Store(testKey(), []string{"a", "b"})

	got, ok := cache.Lookup(testKey())

	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestNopCacheNeverHits(t *testing.T) {
	cache := NopCache{}
	cache.Store(testKey(), []string{"x"})

	_, ok := cache.Lookup(testKey())

	assert.False(t, ok)
}
