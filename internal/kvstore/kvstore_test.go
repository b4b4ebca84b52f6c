package kvstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cinedex/cinedex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Initialize())
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := payload{Name: "popular", Count: 3}
	require.NoError(t, s.Save("cache.test.roundtrip", in))

	var out payload
	require.NoError(t, s.Load("cache.test.roundtrip", &out))
	assert.Equal(t, in, out)

	assert.False(t, s.IsExpired("cache.test.roundtrip", time.Hour))
}

func TestLoadMissingKey(t *testing.T) {
	s := openTestStore(t)

	var out payload
	err := s.Load("cache.test.missing", &out)
	assert.ErrorIs(t, err, domain.ErrCacheNotFound)
	assert.True(t, s.IsExpired("cache.test.missing", time.Hour))
}

func TestLastWriteWins(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save("cache.test.lww", payload{Name: "first"}))
	require.NoError(t, s.Save("cache.test.lww", payload{Name: "second"}))

	var out payload
	require.NoError(t, s.Load("cache.test.lww", &out))
	assert.Equal(t, "second", out.Name)
}

func TestCorruptEntrySelfHeals(t *testing.T) {
	s := openTestStore(t)

	// A string payload cannot decode into a struct
	require.NoError(t, s.Save("cache.test.corrupt", "not an object"))

	var out payload
	err := s.Load("cache.test.corrupt", &out)
	assert.ErrorIs(t, err, domain.ErrCacheNotFound)

	// The corrupt entry and its timestamp are gone
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCache)
		assert.Nil(t, b.Get([]byte("cache.test.corrupt")))
		assert.Nil(t, b.Get([]byte(domain.TimestampKey("cache.test.corrupt"))))
		return nil
	})
	require.NoError(t, err)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save("cache.test.remove", payload{Name: "x"}))
	s.Remove("cache.test.remove")
	s.Remove("cache.test.remove")

	var out payload
	assert.ErrorIs(t, s.Load("cache.test.remove", &out), domain.ErrCacheNotFound)
}

func TestExpiryAdvancesWithClock(t *testing.T) {
	s := openTestStore(t)

	saved := time.Now()
	s.now = func() time.Time { return saved }
	require.NoError(t, s.Save("cache.category.popular", payload{Name: "popular"}))

	ttl := 24 * time.Hour

	s.now = func() time.Time { return saved.Add(time.Second) }
	assert.False(t, s.IsExpired("cache.category.popular", ttl))

	s.now = func() time.Time { return saved.Add(ttl + time.Second) }
	assert.True(t, s.IsExpired("cache.category.popular", ttl))

	// Expiry is monotonic: once stale, later checks stay stale
	s.now = func() time.Time { return saved.Add(48 * time.Hour) }
	assert.True(t, s.IsExpired("cache.category.popular", ttl))
}

func TestMissingTimestampReadsAsExpired(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save("cache.test.torn", payload{Name: "torn"}))

	// Simulate a torn write: payload present, timestamp gone
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCache).Delete([]byte(domain.TimestampKey("cache.test.torn")))
	})
	require.NoError(t, err)

	assert.True(t, s.IsExpired("cache.test.torn", 24*time.Hour))
}

func TestVersionMismatchWipesCache(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save("cache.category.popular", payload{Name: "popular"}))
	require.NoError(t, s.Save("cache.movie.42", payload{Name: "detail"}))

	// Downgrade the stored marker, then re-run the startup check
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCache).Put([]byte(domain.VersionKey), []byte("0.9"))
	})
	require.NoError(t, err)
	require.NoError(t, s.Initialize())

	var out payload
	assert.ErrorIs(t, s.Load("cache.category.popular", &out), domain.ErrCacheNotFound)
	assert.ErrorIs(t, s.Load("cache.movie.42", &out), domain.ErrCacheNotFound)

	// Marker reset to the running version
	s.db.View(func(tx *bolt.Tx) error {
		assert.Equal(t, schemaVersion, string(tx.Bucket(bucketCache).Get([]byte(domain.VersionKey))))
		return nil
	})
}

func TestInitializeIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save("cache.test.keep", payload{Name: "keep"}))
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Initialize())

	var out payload
	require.NoError(t, s.Load("cache.test.keep", &out))
	assert.Equal(t, "keep", out.Name)
}

func TestClearAllRemovesPrefixedEntries(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save("cache.category.popular", payload{Name: "a"}))
	require.NoError(t, s.Save("cache.movie.7", payload{Name: "b"}))
	require.NoError(t, s.ClearAll())

	var out payload
	assert.ErrorIs(t, s.Load("cache.category.popular", &out), domain.ErrCacheNotFound)
	assert.ErrorIs(t, s.Load("cache.movie.7", &out), domain.ErrCacheNotFound)
}
