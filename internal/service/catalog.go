package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/cinedex/cinedex/internal/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// CatalogService is the use-case layer over the repository: thin pass-through
// plus presentation-facing filtering.
type CatalogService struct {
	repo   domain.MovieRepository
	logger *slog.Logger
}

// NewCatalogService creates the catalog use cases.
func NewCatalogService(repo domain.MovieRepository, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{repo: repo, logger: logger}
}

// GetCategories returns the catalog categories, dropping any that came back
// with no movies.
func (s *CatalogService) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Category, 0, len(categories))
	for _, cat := range categories {
		if len(cat.Movies) == 0 {
			s.logger.Debug("dropping empty category", "category", cat.ID)
			continue
		}
		filtered = append(filtered, cat)
	}
	return filtered, nil
}

// GetMovieDetails returns one movie with cast and images populated.
func (s *CatalogService) GetMovieDetails(ctx context.Context, movieID int64) (*domain.Movie, error) {
	return s.repo.GetMovieDetails(ctx, movieID)
}

// SearchMovies fuzzy-matches the query against titles across all categories,
// deduplicated by movie ID and ranked best-first.
func (s *CatalogService) SearchMovies(ctx context.Context, query string) ([]domain.Movie, error) {
	if query == "" {
		return nil, nil
	}

	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		movie domain.Movie
		rank  int
	}
	var results []ranked
	seen := make(map[int64]bool)

	for _, cat := range categories {
		for _, movie := range cat.Movies {
			if seen[movie.ID] {
				continue
			}
			rank := fuzzy.RankMatchNormalizedFold(query, movie.Title)
			if rank < 0 {
				continue
			}
			seen[movie.ID] = true
			results = append(results, ranked{movie: movie, rank: rank})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].rank < results[j].rank
	})

	movies := make([]domain.Movie, 0, len(results))
	for _, r := range results {
		movies = append(movies, r.movie)
	}
	return movies, nil
}
