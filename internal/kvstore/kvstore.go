package kvstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cinedex/cinedex/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// schemaVersion gates the on-disk cache format. A mismatch on startup wipes
// every cache-scoped entry before the new marker is written.
const schemaVersion = "1.0"

var bucketCache = []byte("cache")

// Store is a generic expiring key-value cache backed by BoltDB. Values are
// stored as JSON blobs; every payload write is paired with a companion
// timestamp entry under "<key>.timestamp". A payload whose timestamp is
// missing or undecodable reads as expired, never as fresh.
type Store struct {
	db     *bolt.DB
	logger *slog.Logger

	now func() time.Time
}

// Open opens (creating if necessary) the cache database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCache)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize checks the persisted schema-version marker against the running
// version. On mismatch it wipes all cache-scoped entries and writes the new
// marker. Safe to call repeatedly.
func (s *Store) Initialize() error {
	var stored string
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketCache).Get([]byte(domain.VersionKey)); v != nil {
			stored = string(v)
		}
		return nil
	})

	if stored == schemaVersion {
		return nil
	}

	if stored != "" {
		s.logger.Info("cache schema version changed, clearing", "stored", stored, "current", schemaVersion)
	}
	if err := s.ClearAll(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCache).Put([]byte(domain.VersionKey), []byte(schemaVersion))
	})
}

// Save encodes value as JSON and stores it together with a fresh timestamp.
// The timestamp is written after the payload in the same transaction, so a
// torn write can only leave a payload that reads as expired.
func (s *Store) Save(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	ts, err := json.Marshal(s.now())
	if err != nil {
		return fmt.Errorf("failed to encode timestamp for %s: %w", key, err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCache)
		if err := b.Put([]byte(key), data); err != nil {
			return err
		}
		return b.Put([]byte(domain.TimestampKey(key)), ts)
	})
}

// Load decodes the entry behind key into dest. A missing entry returns
// domain.ErrCacheNotFound. A corrupt entry is deleted (self-healing) and
// reported as not found; decode errors never reach the caller.
func (s *Store) Load(key string, dest interface{}) error {
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketCache).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return domain.ErrCacheNotFound
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("corrupt cache entry, removing", "key", key, "error", err)
		s.Remove(key)
		return domain.ErrCacheNotFound
	}
	return nil
}

// Remove deletes the entry and its companion timestamp. Absent keys are a no-op.
func (s *Store) Remove(key string) {
	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCache)
		if err := b.Delete([]byte(key)); err != nil {
			return err
		}
		return b.Delete([]byte(domain.TimestampKey(key)))
	})
}

// IsExpired reports whether the entry behind key is older than ttl. Entries
// without a decodable timestamp are always expired.
func (s *Store) IsExpired(key string, ttl time.Duration) bool {
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketCache).Get([]byte(domain.TimestampKey(key))); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return true
	}

	var ts time.Time
	if err := json.Unmarshal(data, &ts); err != nil {
		return true
	}
	return s.now().Sub(ts) > ttl
}

// ClearAll deletes every entry under the cache key prefix, the schema-version
// marker included.
func (s *Store) ClearAll() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCache)
		c := b.Cursor()
		prefix := []byte(domain.KeyPrefix)
		for k, _ := c.Seek(prefix); k != nil && strings.HasPrefix(string(k), domain.KeyPrefix); k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
