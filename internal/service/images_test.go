package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cinedex/cinedex/internal/imagecache"
	"github.com/cinedex/cinedex/internal/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetImageFetchesAndCaches(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("jpeg bytes"))
	}))
	defer srv.Close()

	cache, err := imagecache.New(t.TempDir(), nil)
	require.NoError(t, err)
	svc := NewImageService(cache, tmdb.NewClient(srv.URL, "key", nil), time.Hour, nil)

	url := srv.URL + "/poster.jpg"
	data, err := svc.GetImage(context.Background(), url, imagecache.AssetPoster)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)
	assert.Equal(t, int64(1), hits.Load())

	// Second read is a cache hit
	data, err = svc.GetImage(context.Background(), url, imagecache.AssetPoster)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)
	assert.Equal(t, int64(1), hits.Load())
}

func TestGetImageServesStaleOnNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg bytes"))
	}))

	cache, err := imagecache.New(t.TempDir(), nil)
	require.NoError(t, err)
	// Zero-second expiry forces every entry stale immediately
	svc := NewImageService(cache, tmdb.NewClient(srv.URL, "key", nil), time.Nanosecond, nil)

	url := srv.URL + "/poster.jpg"
	_, err = svc.GetImage(context.Background(), url, imagecache.AssetPoster)
	require.NoError(t, err)

	srv.Close()
	data, err := svc.GetImage(context.Background(), url, imagecache.AssetPoster)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)
}

func TestGetImageFailsWithoutCacheOrNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	cache, err := imagecache.New(t.TempDir(), nil)
	require.NoError(t, err)
	svc := NewImageService(cache, tmdb.NewClient(srv.URL, "key", nil), time.Hour, nil)

	_, err = svc.GetImage(context.Background(), srv.URL+"/missing.jpg", imagecache.AssetPoster)
	assert.Error(t, err)
}
