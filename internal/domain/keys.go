package domain

import (
	"strconv"
	"strings"
)

// Cache key scheme shared by both local store backings.
// All entries live under the "cache." prefix so they can be cleared in bulk.
const (
	// KeyPrefix scopes every cache entry for bulk clear
	KeyPrefix = "cache."

	// VersionKey holds the schema-version marker
	VersionKey = "cache.version"

	categoryKeyPrefix = "cache.category."
	movieKeyPrefix    = "cache.movie."
)

// CategoryKey returns the cache key for a category's movie listing.
func CategoryKey(categoryID string) string {
	return categoryKeyPrefix + categoryID
}

// MovieKey returns the cache key for a movie's detail snapshot.
func MovieKey(movieID int64) string {
	return movieKeyPrefix + strconv.FormatInt(movieID, 10)
}

// TimestampKey returns the companion timestamp key for a cache key.
func TimestampKey(key string) string {
	return key + ".timestamp"
}

// ParseCategoryKey extracts the category ID from a category cache key.
func ParseCategoryKey(key string) (string, bool) {
	if !strings.HasPrefix(key, categoryKeyPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, categoryKeyPrefix), true
}

// ParseMovieKey extracts the movie ID from a movie cache key.
func ParseMovieKey(key string) (int64, bool) {
	if !strings.HasPrefix(key, movieKeyPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(key, movieKeyPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
