package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cinedex/cinedex/internal/config"
	"github.com/cinedex/cinedex/internal/data"
	"github.com/cinedex/cinedex/internal/domain"
	"github.com/cinedex/cinedex/internal/imagecache"
	"github.com/cinedex/cinedex/internal/kvstore"
	"github.com/cinedex/cinedex/internal/log"
	"github.com/cinedex/cinedex/internal/repository"
	"github.com/cinedex/cinedex/internal/service"
	"github.com/cinedex/cinedex/internal/sqlstore"
	"github.com/cinedex/cinedex/internal/store"
	"github.com/cinedex/cinedex/internal/tmdb"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		categories  bool
		movieID     int64
		search      string
		poster      string
		clearCache  bool
		mock        bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&categories, "categories", false, "list catalog categories")
	flag.Int64Var(&movieID, "movie", 0, "show details for a movie ID")
	flag.StringVar(&search, "search", "", "fuzzy-search movie titles")
	flag.StringVar(&poster, "poster", "", "download a poster URL through the image cache")
	flag.BoolVar(&clearCache, "clear-cache", false, "remove all cached data")
	flag.BoolVar(&mock, "mock", false, "use the built-in demo catalog instead of the API")
	flag.Parse()

	if showVersion {
		fmt.Printf("cinedex %s\n", Version)
		return
	}

	if err := run(categories, movieID, search, poster, clearCache, mock); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(categories bool, movieID int64, search, poster string, clearCache, mock bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting cinedex", "version", Version)

	if clearCache {
		if err := config.ClearCache(cfg); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	}

	if !mock && !cfg.IsConfigured() {
		return fmt.Errorf("no API key configured; set CINEDEX_SERVER_API_KEY or run with -mock")
	}

	snapStore, err := openSnapshotStore(cfg, logger)
	if err != nil {
		return err
	}
	defer snapStore.Close()
	if err := snapStore.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize local store: %w", err)
	}

	client := tmdb.NewClient(cfg.Server.BaseURL, cfg.Server.APIKey, logger)

	var remote domain.MovieDataStore = data.NewRemoteMovieDataStore(client)
	if mock {
		remote = data.NewMockMovieDataStore()
	}
	local := data.NewLocalMovieDataStore(snapStore, cfg.Cache.TTL)

	repo := repository.NewMovieRepository(local, remote, logger)
	defer repo.Close()

	catalog := service.NewCatalogService(repo, logger)

	images, err := imagecache.New(cfg.Cache.Dir, logger)
	if err != nil {
		return fmt.Errorf("failed to open image cache: %w", err)
	}
	imageSvc := service.NewImageService(images, client, cfg.Cache.TTL, logger)
	imageSvc.SweepExpired()

	ctx := context.Background()

	switch {
	case categories:
		return printCategories(ctx, catalog)
	case movieID != 0:
		return printMovie(ctx, catalog, movieID)
	case search != "":
		return printSearch(ctx, catalog, search)
	case poster != "":
		return fetchPoster(ctx, imageSvc, poster, cfg.Cache.Dir)
	default:
		flag.Usage()
		return nil
	}
}

// openSnapshotStore selects the local store backing per configuration.
func openSnapshotStore(cfg *config.Config, logger *slog.Logger) (domain.SnapshotStore, error) {
	switch cfg.Cache.Backend {
	case config.BackendSQLite:
		s, err := sqlstore.Open(filepath.Join(cfg.Cache.Dir, "catalog.db"), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return s, nil
	case config.BackendBolt, "":
		kv, err := kvstore.Open(filepath.Join(cfg.Cache.Dir, "cache.db"), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache store: %w", err)
		}
		return store.NewKVSnapshotStore(kv), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Cache.Backend)
	}
}

func printCategories(ctx context.Context, catalog *service.CatalogService) error {
	cats, err := catalog.GetCategories(ctx)
	if err != nil {
		return err
	}
	for _, cat := range cats {
		fmt.Printf("%s\n", cat.Name)
		for _, m := range cat.Movies {
			fmt.Printf("  %8d  %-40s %.1f\n", m.ID, m.Title, m.VoteAverage)
		}
		fmt.Println()
	}
	return nil
}

func printMovie(ctx context.Context, catalog *service.CatalogService, movieID int64) error {
	movie, err := catalog.GetMovieDetails(ctx, movieID)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", movie.Title, movie.ReleaseDate)
	fmt.Printf("Rating: %.1f\n\n%s\n", movie.VoteAverage, movie.Overview)
	if len(movie.Cast) > 0 {
		fmt.Println("\nCast:")
		for _, a := range movie.Cast {
			fmt.Printf("  %-24s %s\n", a.Name, a.Character)
		}
	}
	if len(movie.Images) > 0 {
		fmt.Println("\nBackdrops:")
		for _, img := range movie.Images {
			fmt.Printf("  %s\n", img)
		}
	}
	return nil
}

func printSearch(ctx context.Context, catalog *service.CatalogService, query string) error {
	movies, err := catalog.SearchMovies(ctx, query)
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, m := range movies {
		fmt.Printf("%8d  %-40s %.1f\n", m.ID, m.Title, m.VoteAverage)
	}
	return nil
}

func fetchPoster(ctx context.Context, images *service.ImageService, url, cacheDir string) error {
	buf, err := images.GetImage(ctx, url, imagecache.AssetPoster)
	if err != nil {
		return err
	}
	name := url[strings.LastIndex(url, "/")+1:]
	if name == "" {
		name = "poster.jpg"
	}
	if err := os.WriteFile(name, buf, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	fmt.Printf("Saved %s (%d bytes, cache at %s)\n", name, len(buf), cacheDir)
	return nil
}
