package domain

import "context"

// MovieDataStore fetches category listings, movie details, credits, and image
// paths. Implementations: local cache, remote API client, and a mock.
// Each sub-fetch is independently fetchable and independently failable.
type MovieDataStore interface {
	// FetchMovies returns the movie listing behind a category endpoint.
	FetchMovies(ctx context.Context, endpoint string) ([]Movie, error)

	// FetchMovieDetails returns the movie's detail payload.
	FetchMovieDetails(ctx context.Context, movieID int64) (*Movie, error)

	// FetchMovieCredits returns the movie's cast list.
	FetchMovieCredits(ctx context.Context, movieID int64) ([]Actor, error)

	// FetchMovieImages returns additional image paths for the movie.
	FetchMovieImages(ctx context.Context, movieID int64) ([]string, error)
}

// LocalDataStore is a MovieDataStore that can also persist fetched results.
type LocalDataStore interface {
	MovieDataStore

	// SaveMovies persists a category listing.
	SaveMovies(movies []Movie, endpoint string) error

	// SaveMovieDetails persists a movie's detail, cast, and image paths.
	SaveMovieDetails(movie Movie, actors []Actor, images []string) error
}

// MovieRepository provides cache-first access to the catalog.
type MovieRepository interface {
	// GetCategories returns all fixed categories with their movie listings.
	GetCategories(ctx context.Context) ([]Category, error)

	// GetMovieDetails returns a single movie with cast and images populated.
	GetMovieDetails(ctx context.Context, movieID int64) (*Movie, error)
}
