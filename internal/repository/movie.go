package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cinedex/cinedex/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// maxMoviesPerCategory caps each category listing
	maxMoviesPerCategory = 10

	// maxCastMembers caps the cast list on a movie detail
	maxCastMembers = 10
)

// MovieRepository merges the local-cache and remote-fetch paths. Every read
// tries the local store first; a miss or expired entry falls through to the
// remote store, whose results are persisted back best-effort. A local hit
// additionally triggers a fire-and-forget background refresh so the cache
// converges on fresh data without blocking the caller.
type MovieRepository struct {
	local  domain.LocalDataStore
	remote domain.MovieDataStore
	logger *slog.Logger

	// group collapses concurrent refreshes of the same key
	group singleflight.Group

	refreshCtx context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewMovieRepository creates a repository over a local and a remote store.
func NewMovieRepository(local domain.LocalDataStore, remote domain.MovieDataStore, logger *slog.Logger) *MovieRepository {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &MovieRepository{
		local:      local,
		remote:     remote,
		logger:     logger,
		refreshCtx: ctx,
		cancel:     cancel,
	}
}

// Close cancels in-flight background refreshes and waits for them to drain.
func (r *MovieRepository) Close() {
	r.cancel()
	r.wg.Wait()
}

// GetCategories returns the fixed categories with their movie listings.
//
// All category reads fan out in parallel and join at a barrier: the local
// path succeeds only when every category is present and fresh. Any miss
// demotes the whole batch to the remote path, keeping the "four categories"
// contract intact rather than surfacing partial results.
func (r *MovieRepository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := r.fetchCategories(ctx, r.local)
	if err == nil {
		r.refreshAsync("categories", func(ctx context.Context) error {
			_, err := r.refreshCategories(ctx)
			return err
		})
		return categories, nil
	}

	r.logger.Debug("category cache miss", "reason", err)
	return r.refreshCategories(ctx)
}

// refreshCategories fetches all categories from the remote store and persists
// them best-effort. Concurrent callers share one in-flight fetch.
func (r *MovieRepository) refreshCategories(ctx context.Context) ([]domain.Category, error) {
	v, err, _ := r.group.Do("categories", func() (interface{}, error) {
		categories, err := r.fetchCategories(ctx, r.remote)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch categories: %w", err)
		}
		for _, cat := range categories {
			if err := r.local.SaveMovies(cat.Movies, cat.Endpoint); err != nil {
				r.logger.Warn("failed to persist category", "category", cat.ID, "error", err)
			}
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Category), nil
}

// fetchCategories issues one fetch per fixed category in parallel and
// collects results in category-definition order, never arrival order.
// First error wins and fails the whole batch.
func (r *MovieRepository) fetchCategories(ctx context.Context, store domain.MovieDataStore) ([]domain.Category, error) {
	defs := domain.CatalogCategories()
	results := make([][]domain.Movie, len(defs))

	g, ctx := errgroup.WithContext(ctx)
	for i, def := range defs {
		i, def := i, def
		g.Go(func() error {
			movies, err := store.FetchMovies(ctx, def.Endpoint)
			if err != nil {
				return err
			}
			if len(movies) > maxMoviesPerCategory {
				movies = movies[:maxMoviesPerCategory]
			}
			results[i] = movies
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	categories := make([]domain.Category, len(defs))
	for i, def := range defs {
		categories[i] = domain.Category{
			ID:       def.ID,
			Name:     def.Name,
			Endpoint: def.Endpoint,
			Movies:   results[i],
		}
	}
	return categories, nil
}

// GetMovieDetails returns one movie with cast and images populated.
//
// Three sub-fetches run in parallel: detail is required, credits and images
// are optional and degrade to empty lists. Only a failed detail read demotes
// the call to the remote path.
func (r *MovieRepository) GetMovieDetails(ctx context.Context, movieID int64) (*domain.Movie, error) {
	movie, err := r.fetchDetails(ctx, r.local, movieID)
	if err == nil {
		r.refreshAsync(domain.MovieKey(movieID), func(ctx context.Context) error {
			_, err := r.refreshDetails(ctx, movieID)
			return err
		})
		return movie, nil
	}

	r.logger.Debug("movie detail cache miss", "movieID", movieID, "reason", err)
	return r.refreshDetails(ctx, movieID)
}

// refreshDetails fetches a movie's detail from the remote store and persists
// it best-effort. Concurrent callers for the same movie share one fetch.
func (r *MovieRepository) refreshDetails(ctx context.Context, movieID int64) (*domain.Movie, error) {
	v, err, _ := r.group.Do(domain.MovieKey(movieID), func() (interface{}, error) {
		movie, err := r.fetchDetails(ctx, r.remote, movieID)
		if err != nil {
			return nil, err
		}
		if err := r.local.SaveMovieDetails(*movie, movie.Cast, movie.Images); err != nil {
			r.logger.Warn("failed to persist movie detail", "movieID", movieID, "error", err)
		}
		return movie, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Movie), nil
}

// fetchDetails runs the three detail sub-fetches in parallel and joins at a
// barrier. Credits and images failures never escalate; they substitute empty
// lists.
func (r *MovieRepository) fetchDetails(ctx context.Context, store domain.MovieDataStore, movieID int64) (*domain.Movie, error) {
	var (
		movie     *domain.Movie
		actors    []domain.Actor
		images    []string
		detailErr error
		wg        sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		movie, detailErr = store.FetchMovieDetails(ctx, movieID)
	}()
	go func() {
		defer wg.Done()
		var err error
		if actors, err = store.FetchMovieCredits(ctx, movieID); err != nil {
			r.logger.Debug("credits fetch failed", "movieID", movieID, "error", err)
			actors = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if images, err = store.FetchMovieImages(ctx, movieID); err != nil {
			r.logger.Debug("images fetch failed", "movieID", movieID, "error", err)
			images = nil
		}
	}()
	wg.Wait()

	if detailErr != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", movieID, detailErr)
	}

	if len(actors) > maxCastMembers {
		actors = actors[:maxCastMembers]
	}
	if actors == nil {
		actors = []domain.Actor{}
	}
	if images == nil {
		images = []string{}
	}

	result := *movie
	result.Cast = actors
	result.Images = images
	return &result, nil
}

// refreshAsync runs fn on the repository's lifetime context without blocking
// the caller. Errors are swallowed; the stale data already returned stands.
func (r *MovieRepository) refreshAsync(name string, fn func(context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := fn(r.refreshCtx); err != nil {
			r.logger.Debug("background refresh failed", "key", name, "error", err)
		}
	}()
}
