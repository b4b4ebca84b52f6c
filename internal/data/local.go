package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cinedex/cinedex/internal/domain"
)

// LocalMovieDataStore serves catalog fetches from the local snapshot store.
// Expiry is checked before the read so an aged entry behaves exactly like a
// miss; the repository treats both the same way.
type LocalMovieDataStore struct {
	store domain.SnapshotStore
	ttl   time.Duration
	now   func() time.Time
}

// NewLocalMovieDataStore wraps an initialized snapshot store. A zero ttl
// falls back to the default expiry window.
func NewLocalMovieDataStore(store domain.SnapshotStore, ttl time.Duration) *LocalMovieDataStore {
	if ttl <= 0 {
		ttl = domain.DefaultTTL
	}
	return &LocalMovieDataStore{store: store, ttl: ttl, now: time.Now}
}

// categoryIDFromEndpoint maps "/movie/popular" to "popular".
func categoryIDFromEndpoint(endpoint string) string {
	if i := strings.LastIndex(endpoint, "/"); i >= 0 {
		return endpoint[i+1:]
	}
	return endpoint
}

func (s *LocalMovieDataStore) FetchMovies(ctx context.Context, endpoint string) ([]domain.Movie, error) {
	categoryID := categoryIDFromEndpoint(endpoint)
	if s.store.IsExpired(domain.CategoryKey(categoryID), s.ttl) {
		return nil, domain.ErrCacheExpired
	}

	snap, err := s.store.LoadCategory(categoryID)
	if err != nil {
		return nil, err
	}
	return snap.Movies, nil
}

func (s *LocalMovieDataStore) FetchMovieDetails(ctx context.Context, movieID int64) (*domain.Movie, error) {
	snap, err := s.loadDetail(movieID)
	if err != nil {
		return nil, err
	}
	movie := snap.Movie
	return &movie, nil
}

func (s *LocalMovieDataStore) FetchMovieCredits(ctx context.Context, movieID int64) ([]domain.Actor, error) {
	snap, err := s.loadDetail(movieID)
	if err != nil {
		return nil, err
	}
	return snap.Actors, nil
}

func (s *LocalMovieDataStore) FetchMovieImages(ctx context.Context, movieID int64) ([]string, error) {
	snap, err := s.loadDetail(movieID)
	if err != nil {
		return nil, err
	}
	return snap.Images, nil
}

func (s *LocalMovieDataStore) loadDetail(movieID int64) (*domain.MovieDetailSnapshot, error) {
	if s.store.IsExpired(domain.MovieKey(movieID), s.ttl) {
		return nil, domain.ErrCacheExpired
	}
	return s.store.LoadMovieDetail(movieID)
}

// SaveMovies persists a category listing stamped with the current time.
func (s *LocalMovieDataStore) SaveMovies(movies []domain.Movie, endpoint string) error {
	categoryID := categoryIDFromEndpoint(endpoint)
	snap := domain.MoviesSnapshot{Movies: movies, Timestamp: s.now()}
	if err := s.store.SaveCategory(categoryID, snap); err != nil {
		return fmt.Errorf("failed to save category %s: %w", categoryID, err)
	}
	return nil
}

// SaveMovieDetails persists a movie's detail, cast, and image paths stamped
// with the current time.
func (s *LocalMovieDataStore) SaveMovieDetails(movie domain.Movie, actors []domain.Actor, images []string) error {
	snap := domain.MovieDetailSnapshot{
		Movie:     movie,
		Actors:    actors,
		Images:    images,
		Timestamp: s.now(),
	}
	if err := s.store.SaveMovieDetail(movie.ID, snap); err != nil {
		return fmt.Errorf("failed to save movie %d: %w", movie.ID, err)
	}
	return nil
}
