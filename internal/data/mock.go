package data

import (
	"context"
	"strings"

	"github.com/cinedex/cinedex/internal/domain"
)

// MockMovieDataStore serves a small canned catalog. Used for demo runs and as
// a stand-in when no API key is configured.
type MockMovieDataStore struct{}

func NewMockMovieDataStore() *MockMovieDataStore {
	return &MockMovieDataStore{}
}

var mockCatalog = map[string][]domain.Movie{
	"popular": {
		{ID: 603, Title: "The Matrix", Overview: "A computer hacker learns about the true nature of reality.", VoteAverage: 8.2, ReleaseDate: "1999-03-31"},
		{ID: 27205, Title: "Inception", Overview: "A thief who steals corporate secrets through dream-sharing.", VoteAverage: 8.4, ReleaseDate: "2010-07-16"},
	},
	"top_rated": {
		{ID: 238, Title: "The Godfather", Overview: "The aging patriarch of a crime dynasty transfers control.", VoteAverage: 8.7, ReleaseDate: "1972-03-14"},
	},
	"upcoming": {
		{ID: 693134, Title: "Dune: Part Two", Overview: "Paul Atreides unites with the Fremen.", VoteAverage: 8.3, ReleaseDate: "2024-02-28"},
	},
	"now_playing": {
		{ID: 872585, Title: "Oppenheimer", Overview: "The story of the Manhattan Project.", VoteAverage: 8.1, ReleaseDate: "2023-07-21"},
	},
}

var mockCast = map[int64][]domain.Actor{
	603: {
		{ID: 6384, Name: "Keanu Reeves", Character: "Neo"},
		{ID: 2975, Name: "Laurence Fishburne", Character: "Morpheus"},
	},
}

func (s *MockMovieDataStore) FetchMovies(ctx context.Context, endpoint string) ([]domain.Movie, error) {
	categoryID := endpoint
	if i := strings.LastIndex(endpoint, "/"); i >= 0 {
		categoryID = endpoint[i+1:]
	}
	movies, ok := mockCatalog[categoryID]
	if !ok {
		return nil, domain.ErrNoData
	}
	return movies, nil
}

func (s *MockMovieDataStore) FetchMovieDetails(ctx context.Context, movieID int64) (*domain.Movie, error) {
	for _, movies := range mockCatalog {
		for _, m := range movies {
			if m.ID == movieID {
				movie := m
				return &movie, nil
			}
		}
	}
	return nil, domain.ErrNoData
}

func (s *MockMovieDataStore) FetchMovieCredits(ctx context.Context, movieID int64) ([]domain.Actor, error) {
	return mockCast[movieID], nil
}

func (s *MockMovieDataStore) FetchMovieImages(ctx context.Context, movieID int64) ([]string, error) {
	return nil, nil
}
