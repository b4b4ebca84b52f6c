package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cinedex/cinedex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore is a scriptable MovieDataStore with per-method call counting.
type stubStore struct {
	mu sync.Mutex

	movies map[string][]domain.Movie
	detail map[int64]domain.Movie
	cast   map[int64][]domain.Actor
	images map[int64][]string

	moviesErr error
	detailErr error
	castErr   error
	imagesErr error

	fetchMoviesCalls int
	fetchDetailCalls int
}

func (s *stubStore) init() {
	s.movies = make(map[string][]domain.Movie)
	s.detail = make(map[int64]domain.Movie)
	s.cast = make(map[int64][]domain.Actor)
	s.images = make(map[int64][]string)
}

func newStubStore() *stubStore {
	s := &stubStore{}
	s.init()
	return s
}

func (s *stubStore) FetchMovies(ctx context.Context, endpoint string) ([]domain.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchMoviesCalls++
	if s.moviesErr != nil {
		return nil, s.moviesErr
	}
	movies, ok := s.movies[endpoint]
	if !ok {
		return nil, domain.ErrCacheNotFound
	}
	return movies, nil
}

func (s *stubStore) FetchMovieDetails(ctx context.Context, movieID int64) (*domain.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchDetailCalls++
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	m, ok := s.detail[movieID]
	if !ok {
		return nil, domain.ErrCacheNotFound
	}
	return &m, nil
}

func (s *stubStore) FetchMovieCredits(ctx context.Context, movieID int64) ([]domain.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.castErr != nil {
		return nil, s.castErr
	}
	return s.cast[movieID], nil
}

func (s *stubStore) FetchMovieImages(ctx context.Context, movieID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imagesErr != nil {
		return nil, s.imagesErr
	}
	return s.images[movieID], nil
}

// stubLocalStore adds persistence recording on top of stubStore.
type stubLocalStore struct {
	stubStore

	saveMoviesCalls int
	saveDetailCalls int
	saveErr         error
}

func newStubLocalStore() *stubLocalStore {
	s := &stubLocalStore{}
	s.init()
	return s
}

func (s *stubLocalStore) SaveMovies(movies []domain.Movie, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveMoviesCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.movies[endpoint] = movies
	return nil
}

func (s *stubLocalStore) SaveMovieDetails(movie domain.Movie, actors []domain.Actor, images []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveDetailCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.detail[movie.ID] = movie
	s.cast[movie.ID] = actors
	s.images[movie.ID] = images
	return nil
}

func seedAllCategories(s *stubStore, title string) {
	for _, def := range domain.CatalogCategories() {
		s.movies[def.Endpoint] = []domain.Movie{{ID: 1, Title: title}}
	}
}

func TestGetCategoriesLocalHit(t *testing.T) {
	local := newStubLocalStore()
	remote := newStubStore()
	seedAllCategories(&local.stubStore, "cached")
	seedAllCategories(remote, "fresh")

	repo := NewMovieRepository(local, remote, nil)

	categories, err := repo.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 4)
	assert.Equal(t, "cached", categories[0].Movies[0].Title)

	// Join the fire-and-forget refresh, then confirm it hit the remote and
	// persisted the fresh listings
	repo.Close()
	assert.Equal(t, 4, remote.fetchMoviesCalls)
	assert.Equal(t, 4, local.saveMoviesCalls)
}

func TestGetCategoriesAnyLocalMissDemotesWholeBatch(t *testing.T) {
	local := newStubLocalStore()
	remote := newStubStore()
	seedAllCategories(&local.stubStore, "cached")
	delete(local.movies, "/movie/upcoming")
	seedAllCategories(remote, "fresh")

	repo := NewMovieRepository(local, remote, nil)
	defer repo.Close()

	categories, err := repo.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 4)
	// All four come from remote, not a cached/fresh mix
	for _, cat := range categories {
		assert.Equal(t, "fresh", cat.Movies[0].Title)
	}
	assert.Equal(t, 4, local.saveMoviesCalls)
}

func TestGetCategoriesRemoteFailureSurfaced(t *testing.T) {
	local := newStubLocalStore()
	remote := newStubStore()
	remote.moviesErr = domain.ErrServerOffline

	repo := NewMovieRepository(local, remote, nil)
	defer repo.Close()

	_, err := repo.GetCategories(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestGetCategoriesPersistFailureSwallowed(t *testing.T) {
	local := newStubLocalStore()
	local.saveErr = errors.New("disk full")
	remote := newStubStore()
	seedAllCategories(remote, "fresh")

	repo := NewMovieRepository(local, remote, nil)
	defer repo.Close()

	categories, err := repo.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 4)
}

func TestGetCategoriesOrderedAndTrimmed(t *testing.T) {
	local := newStubLocalStore()
	remote := newStubStore()
	for _, def := range domain.CatalogCategories() {
		var movies []domain.Movie
		for i := 0; i < 15; i++ {
			movies = append(movies, domain.Movie{ID: int64(i), Title: def.ID})
		}
		remote.movies[def.Endpoint] = movies
	}

	repo := NewMovieRepository(local, remote, nil)
	defer repo.Close()

	categories, err := repo.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 4)

	// Fixed definition order regardless of fetch completion order
	defs := domain.CatalogCategories()
	for i, cat := range categories {
		assert.Equal(t, defs[i].ID, cat.ID)
		assert.Len(t, cat.Movies, 10)
	}
}

func TestGetMovieDetailsLocalHit(t *testing.T) {
	local := newStubLocalStore()
	remote := newStubStore()
	local.detail[603] = domain.Movie{ID: 603, Title: "The Matrix"}
	local.cast[603] = []domain.Actor{{ID: 6384, Name: "Keanu Reeves"}}
	local.images[603] = []string{"/a.jpg"}
	remote.detail[603] = domain.Movie{ID: 603, Title: "The Matrix (fresh)"}

	repo := NewMovieRepository(local, remote, nil)

	movie, err := repo.GetMovieDetails(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", movie.Title)
	assert.Len(t, movie.Cast, 1)
	assert.Equal(t, []string{"/a.jpg"}, movie.Images)

	repo.Close()
	assert.Equal(t, 1, remote.fetchDetailCalls)
	assert.Equal(t, 1, local.saveDetailCalls)
}

func TestGetMovieDetailsOptionalFailuresDegrade(t *testing.T) {
	local := newStubLocalStore()
	remote := newStubStore()
	remote.detail[603] = domain.Movie{ID: 603, Title: "The Matrix"}
	remote.castErr = errors.New("credits unavailable")
	remote.imagesErr = errors.New("images unavailable")

	repo := NewMovieRepository(local, remote, nil)
	defer repo.Close()

	movie, err := repo.GetMovieDetails(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", movie.Title)
	assert.NotNil(t, movie.Cast)
	assert.Empty(t, movie.Cast)
	assert.NotNil(t, movie.Images)
	assert.Empty(t, movie.Images)
}

func TestGetMovieDetailsRequiredFailureSurfaced(t *testing.T) {
	local := newStubLocalStore()
	remote := newStubStore()
	remote.detailErr = domain.ErrServerOffline

	repo := NewMovieRepository(local, remote, nil)
	defer repo.Close()

	_, err := repo.GetMovieDetails(context.Background(), 603)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestGetMovieDetailsCastTrimmed(t *testing.T) {
	local := newStubLocalStore()
	remote := newStubStore()
	remote.detail[603] = domain.Movie{ID: 603, Title: "The Matrix"}
	var cast []domain.Actor
	for i := 0; i < 25; i++ {
		cast = append(cast, domain.Actor{ID: int64(i), Name: "Extra"})
	}
	remote.cast[603] = cast

	repo := NewMovieRepository(local, remote, nil)
	defer repo.Close()

	movie, err := repo.GetMovieDetails(context.Background(), 603)
	require.NoError(t, err)
	assert.Len(t, movie.Cast, 10)
}

func TestCloseDrainsBackgroundRefresh(t *testing.T) {
	local := newStubLocalStore()
	remote := newStubStore()
	seedAllCategories(&local.stubStore, "cached")
	seedAllCategories(remote, "fresh")

	repo := NewMovieRepository(local, remote, nil)
	_, err := repo.GetCategories(context.Background())
	require.NoError(t, err)

	// Close joins the refresh goroutine; its persists are fully accounted for
	repo.Close()
	local.mu.Lock()
	defer local.mu.Unlock()
	assert.Equal(t, 4, local.saveMoviesCalls)
}
