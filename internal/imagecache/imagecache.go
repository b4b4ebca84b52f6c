package imagecache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AssetType partitions cached artwork into subdirectories.
type AssetType string

const (
	AssetPoster   AssetType = "poster"
	AssetBackdrop AssetType = "backdrop"
	AssetProfile  AssetType = "profile"
)

func (t AssetType) subdir() string { return string(t) + "s" }

// probeOrder is the fixed lookup order when the asset type is unknown.
// A URL maps to one type by convention; the first hit wins.
var probeOrder = []AssetType{AssetPoster, AssetBackdrop, AssetProfile}

const metadataFile = "metadata.json"

// Cache stores image bytes on disk addressed by a hash of their source URL,
// partitioned by asset type. A url -> savedAt map, persisted alongside the
// files, drives expiry.
type Cache struct {
	root   string
	logger *slog.Logger

	mu         sync.Mutex
	timestamps map[string]time.Time
	now        func() time.Time
}

// New opens the image cache rooted at <baseDir>/ImageCache, creating the
// directory skeleton and loading persisted metadata. Unreadable metadata is
// discarded; the affected files simply read as expired and get re-fetched.
func New(baseDir string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cache{
		root:       filepath.Join(baseDir, "ImageCache"),
		logger:     logger,
		timestamps: make(map[string]time.Time),
		now:        time.Now,
	}
	if err := c.createSkeleton(); err != nil {
		return nil, err
	}
	c.loadMetadata()
	return c, nil
}

func (c *Cache) createSkeleton() error {
	for _, t := range probeOrder {
		if err := os.MkdirAll(filepath.Join(c.root, t.subdir()), 0755); err != nil {
			return fmt.Errorf("failed to create image cache directory: %w", err)
		}
	}
	return nil
}

func (c *Cache) loadMetadata() {
	data, err := os.ReadFile(filepath.Join(c.root, metadataFile))
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, &c.timestamps); err != nil {
		c.logger.Warn("discarding unreadable image cache metadata", "error", err)
		c.timestamps = make(map[string]time.Time)
	}
}

// persistMetadata writes the timestamp map through a temp file and rename so a
// crash mid-write never leaves a truncated map on disk. Caller holds c.mu.
func (c *Cache) persistMetadata() error {
	data, err := json.Marshal(c.timestamps)
	if err != nil {
		return err
	}

	path := filepath.Join(c.root, metadataFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func hashName(sourceURL string) string {
	sum := sha256.Sum256([]byte(sourceURL))
	return hex.EncodeToString(sum[:]) + ".jpg"
}

func (c *Cache) filePath(sourceURL string, t AssetType) string {
	return filepath.Join(c.root, t.subdir(), hashName(sourceURL))
}

// Save writes the image bytes and stamps the URL in the metadata map.
// Returns false on any I/O failure; callers treat a failed save as a
// cache-skip, never an error.
func (c *Cache) Save(data []byte, sourceURL string, assetType AssetType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.filePath(sourceURL, assetType)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		c.logger.Warn("failed to write cached image", "url", sourceURL, "error", err)
		return false
	}
	if err := os.Rename(tmp, path); err != nil {
		c.logger.Warn("failed to write cached image", "url", sourceURL, "error", err)
		os.Remove(tmp)
		return false
	}

	c.timestamps[sourceURL] = c.now()
	if err := c.persistMetadata(); err != nil {
		c.logger.Warn("failed to persist image cache metadata", "error", err)
		return false
	}
	return true
}

// Load probes the type subdirectories in fixed order and returns the first
// hit. The asset type is not recoverable from the URL alone.
func (c *Cache) Load(sourceURL string) ([]byte, bool) {
	for _, t := range probeOrder {
		data, err := os.ReadFile(c.filePath(sourceURL, t))
		if err == nil {
			return data, true
		}
	}
	return nil, false
}

// IsExpired reports whether the URL has no recorded timestamp or its age
// exceeds ttl.
func (c *Cache) IsExpired(sourceURL string, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	savedAt, ok := c.timestamps[sourceURL]
	if !ok {
		return true
	}
	return c.now().Sub(savedAt) > ttl
}

// ClearExpired sweeps the timestamp map and deletes every file older than
// ttl across all type subdirectories. Metadata is persisted once at the end.
func (c *Cache) ClearExpired(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for sourceURL, savedAt := range c.timestamps {
		if c.now().Sub(savedAt) <= ttl {
			continue
		}
		for _, t := range probeOrder {
			os.Remove(c.filePath(sourceURL, t))
		}
		delete(c.timestamps, sourceURL)
		removed++
	}
	if removed == 0 {
		return
	}

	if err := c.persistMetadata(); err != nil {
		c.logger.Warn("failed to persist image cache metadata", "error", err)
	}
	c.logger.Debug("cleared expired images", "count", removed)
}

// ClearAll removes the entire cache tree, clears the map, and recreates the
// directory skeleton.
func (c *Cache) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.RemoveAll(c.root); err != nil {
		return fmt.Errorf("failed to remove image cache: %w", err)
	}
	c.timestamps = make(map[string]time.Time)
	return c.createSkeleton()
}
