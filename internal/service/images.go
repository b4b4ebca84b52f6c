package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cinedex/cinedex/internal/imagecache"
	"github.com/cinedex/cinedex/internal/tmdb"
)

// ImageService serves artwork bytes cache-first: disk hit wins, otherwise the
// bytes are fetched over HTTP and written back best-effort.
type ImageService struct {
	cache  *imagecache.Cache
	client *tmdb.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewImageService wraps an image cache and a TMDB client.
func NewImageService(cache *imagecache.Cache, client *tmdb.Client, ttl time.Duration, logger *slog.Logger) *ImageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageService{cache: cache, client: client, ttl: ttl, logger: logger}
}

// GetImage returns the image bytes for an absolute URL, consulting the cache
// before the network. A fresh cache hit never touches the network; an expired
// or missing entry is re-fetched and re-cached.
func (s *ImageService) GetImage(ctx context.Context, imageURL string, assetType imagecache.AssetType) ([]byte, error) {
	if !s.cache.IsExpired(imageURL, s.ttl) {
		if data, ok := s.cache.Load(imageURL); ok {
			return data, nil
		}
	}

	data, err := s.client.FetchImage(ctx, imageURL)
	if err != nil {
		// Serve a stale copy over nothing when the network is down
		if stale, ok := s.cache.Load(imageURL); ok {
			s.logger.Debug("serving stale image", "url", imageURL)
			return stale, nil
		}
		return nil, err
	}

	if !s.cache.Save(data, imageURL, assetType) {
		s.logger.Warn("failed to cache image", "url", imageURL)
	}
	return data, nil
}

// SweepExpired removes aged artwork from disk. Called once at startup.
func (s *ImageService) SweepExpired() {
	s.cache.ClearExpired(s.ttl)
}
