package imagecache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	return c
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := openTestCache(t)

	data := []byte("jpeg bytes")
	require.True(t, c.Save(data, "https://img.example/poster1.jpg", AssetPoster))

	loaded, ok := c.Load("https://img.example/poster1.jpg")
	require.True(t, ok)
	assert.Equal(t, data, loaded)
	assert.False(t, c.IsExpired("https://img.example/poster1.jpg", time.Hour))
}

func TestLoadProbesAllTypes(t *testing.T) {
	c := openTestCache(t)

	require.True(t, c.Save([]byte("b"), "https://img.example/backdrop.jpg", AssetBackdrop))
	require.True(t, c.Save([]byte("p"), "https://img.example/profile.jpg", AssetProfile))

	loaded, ok := c.Load("https://img.example/backdrop.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("b"), loaded)

	loaded, ok = c.Load("https://img.example/profile.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("p"), loaded)

	_, ok = c.Load("https://img.example/never-saved.jpg")
	assert.False(t, ok)
}

func TestSameURLTwoTypesProducesTwoFiles(t *testing.T) {
	c := openTestCache(t)

	url := "https://img.example/ambiguous.jpg"
	require.True(t, c.Save([]byte("as poster"), url, AssetPoster))
	require.True(t, c.Save([]byte("as backdrop"), url, AssetBackdrop))

	// Probe order is poster first
	loaded, ok := c.Load(url)
	require.True(t, ok)
	assert.Equal(t, []byte("as poster"), loaded)
}

func TestIsExpiredAdvancesWithClock(t *testing.T) {
	c := openTestCache(t)

	saved := time.Now()
	c.now = func() time.Time { return saved }
	require.True(t, c.Save([]byte("x"), "https://img.example/a.jpg", AssetPoster))

	ttl := 24 * time.Hour

	c.now = func() time.Time { return saved.Add(time.Minute) }
	assert.False(t, c.IsExpired("https://img.example/a.jpg", ttl))

	c.now = func() time.Time { return saved.Add(ttl + time.Second) }
	assert.True(t, c.IsExpired("https://img.example/a.jpg", ttl))

	assert.True(t, c.IsExpired("https://img.example/unknown.jpg", ttl))
}

func TestClearExpiredSweepsOldFiles(t *testing.T) {
	c := openTestCache(t)

	saved := time.Now()
	c.now = func() time.Time { return saved.Add(-48 * time.Hour) }
	require.True(t, c.Save([]byte("old"), "https://img.example/old.jpg", AssetPoster))

	c.now = func() time.Time { return saved }
	require.True(t, c.Save([]byte("fresh"), "https://img.example/fresh.jpg", AssetPoster))

	c.ClearExpired(24 * time.Hour)

	_, ok := c.Load("https://img.example/old.jpg")
	assert.False(t, ok)
	loaded, ok := c.Load("https://img.example/fresh.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("fresh"), loaded)
}

func TestMetadataSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	c, err := New(dir, nil)
	require.NoError(t, err)
	saved := time.Now().Add(-48 * time.Hour)
	c.now = func() time.Time { return saved }
	require.True(t, c.Save([]byte("x"), "https://img.example/a.jpg", AssetPoster))

	reopened, err := New(dir, nil)
	require.NoError(t, err)
	assert.True(t, reopened.IsExpired("https://img.example/a.jpg", 24*time.Hour))
	assert.False(t, reopened.IsExpired("https://img.example/a.jpg", 72*time.Hour))
}

func TestClearAllRecreatesSkeleton(t *testing.T) {
	c := openTestCache(t)

	require.True(t, c.Save([]byte("x"), "https://img.example/a.jpg", AssetPoster))
	require.NoError(t, c.ClearAll())

	_, ok := c.Load("https://img.example/a.jpg")
	assert.False(t, ok)
	assert.True(t, c.IsExpired("https://img.example/a.jpg", time.Hour))

	// Subdirectories exist again and accept new writes
	for _, sub := range []string{"posters", "backdrops", "profiles"} {
		info, err := os.Stat(filepath.Join(c.root, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.True(t, c.Save([]byte("y"), "https://img.example/b.jpg", AssetBackdrop))
}
