package data

import (
	"context"

	"github.com/cinedex/cinedex/internal/domain"
	"github.com/cinedex/cinedex/internal/tmdb"
)

// RemoteMovieDataStore serves catalog fetches from the TMDB API.
type RemoteMovieDataStore struct {
	client *tmdb.Client
}

// NewRemoteMovieDataStore wraps a TMDB client.
func NewRemoteMovieDataStore(client *tmdb.Client) *RemoteMovieDataStore {
	return &RemoteMovieDataStore{client: client}
}

func (s *RemoteMovieDataStore) FetchMovies(ctx context.Context, endpoint string) ([]domain.Movie, error) {
	return s.client.FetchMovies(ctx, endpoint)
}

func (s *RemoteMovieDataStore) FetchMovieDetails(ctx context.Context, movieID int64) (*domain.Movie, error) {
	return s.client.FetchMovieDetails(ctx, movieID)
}

func (s *RemoteMovieDataStore) FetchMovieCredits(ctx context.Context, movieID int64) ([]domain.Actor, error) {
	return s.client.FetchMovieCredits(ctx, movieID)
}

func (s *RemoteMovieDataStore) FetchMovieImages(ctx context.Context, movieID int64) ([]string, error) {
	return s.client.FetchMovieImages(ctx, movieID)
}
