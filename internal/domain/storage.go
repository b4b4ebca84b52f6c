package domain

import "time"

// DefaultTTL is the expiry window for cached catalog data and artwork.
const DefaultTTL = 24 * time.Hour

// MoviesSnapshot is a cached category listing.
type MoviesSnapshot struct {
	Movies    []Movie   `json:"movies"`
	Timestamp time.Time `json:"timestamp"`
}

// MovieDetailSnapshot is a cached detail fetch for a single movie.
type MovieDetailSnapshot struct {
	Movie     Movie     `json:"movie"`
	Actors    []Actor   `json:"actors"`
	Images    []string  `json:"images"`
	Timestamp time.Time `json:"timestamp"`
}

// SnapshotStore is the local cache backing for catalog snapshots. The backing
// is chosen once at construction: a flat key-value store or a relational
// store, both keyed by the cache key scheme in keys.go.
//
// Replace policy per relation: a category's movie set is replaced wholesale on
// every save, a movie's actor set likewise; images are upserted by URL and
// accumulate across saves.
type SnapshotStore interface {
	// Initialize prepares the backing store. Called once at startup.
	Initialize() error

	// SaveCategory replaces the category's movie listing wholesale.
	SaveCategory(categoryID string, snap MoviesSnapshot) error

	// LoadCategory returns ErrCacheNotFound when the category was never saved.
	LoadCategory(categoryID string) (*MoviesSnapshot, error)

	// SaveMovieDetail upserts the movie row, replaces its actors, and merges
	// its images by URL.
	SaveMovieDetail(movieID int64, snap MovieDetailSnapshot) error

	// LoadMovieDetail returns ErrCacheNotFound when the movie was never saved.
	LoadMovieDetail(movieID int64) (*MovieDetailSnapshot, error)

	// IsExpired reports whether the entry behind key is missing or older than ttl.
	IsExpired(key string, ttl time.Duration) bool

	// Remove deletes the entry behind key. Absent keys are a no-op.
	Remove(key string)

	// ClearAll deletes every cached entry.
	ClearAll() error

	Close() error
}
