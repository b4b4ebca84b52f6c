package store

import (
	"time"

	"github.com/cinedex/cinedex/internal/domain"
	"github.com/cinedex/cinedex/internal/kvstore"
)

// KVSnapshotStore adapts the generic expiring key-value cache to the typed
// snapshot contract. Snapshots are serialized wholesale as flat blobs; the
// per-relation replace/merge policy falls out of last-write-wins on the blob.
type KVSnapshotStore struct {
	kv *kvstore.Store
}

// NewKVSnapshotStore wraps an opened key-value store.
func NewKVSnapshotStore(kv *kvstore.Store) *KVSnapshotStore {
	return &KVSnapshotStore{kv: kv}
}

func (s *KVSnapshotStore) Initialize() error {
	return s.kv.Initialize()
}

func (s *KVSnapshotStore) SaveCategory(categoryID string, snap domain.MoviesSnapshot) error {
	return s.kv.Save(domain.CategoryKey(categoryID), snap)
}

func (s *KVSnapshotStore) LoadCategory(categoryID string) (*domain.MoviesSnapshot, error) {
	var snap domain.MoviesSnapshot
	if err := s.kv.Load(domain.CategoryKey(categoryID), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *KVSnapshotStore) SaveMovieDetail(movieID int64, snap domain.MovieDetailSnapshot) error {
	return s.kv.Save(domain.MovieKey(movieID), snap)
}

func (s *KVSnapshotStore) LoadMovieDetail(movieID int64) (*domain.MovieDetailSnapshot, error) {
	var snap domain.MovieDetailSnapshot
	if err := s.kv.Load(domain.MovieKey(movieID), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *KVSnapshotStore) IsExpired(key string, ttl time.Duration) bool {
	return s.kv.IsExpired(key, ttl)
}

func (s *KVSnapshotStore) Remove(key string) {
	s.kv.Remove(key)
}

func (s *KVSnapshotStore) ClearAll() error {
	return s.kv.ClearAll()
}

func (s *KVSnapshotStore) Close() error {
	return s.kv.Close()
}
