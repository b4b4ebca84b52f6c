package sqlstore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cinedex/cinedex/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store is the relational local cache backing. Four entity kinds with
// explicit associations: Category owns Movies (replaced wholesale per save),
// Movie owns Actors (replaced wholesale per detail save, rows left behind)
// and Images (upserted by URL, never removed).
//
// Writes are serialized through a store-level mutex on top of per-call
// transactions; concurrent writers to the same natural key resolve to
// last-write-wins without interleaved partial writes.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

// Open opens (creating if necessary) the SQLite database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	return New(db, logger), nil
}

// New wraps an existing gorm connection. Used by Open and by tests running
// against an in-memory database.
func New(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger, now: time.Now}
}

// Initialize migrates the schema. The relational backing needs no version
// marker; migrations fill that role.
func (s *Store) Initialize() error {
	return s.db.AutoMigrate(&CachedCategory{}, &CachedMovie{}, &CachedActor{}, &CachedImage{})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveCategory finds or creates the category row, hard-deletes its previous
// movie rows, and inserts the new listing. Categories are small fully
// refreshed lists; a partial merge would leave stale entries with no removal
// signal from the source.
func (s *Store) SaveCategory(categoryID string, snap domain.MoviesSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var cat CachedCategory
		err := tx.First(&cat, "id = ?", categoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cat = CachedCategory{
				ID:       categoryID,
				Name:     categoryName(categoryID),
				Endpoint: "/movie/" + categoryID,
			}
		} else if err != nil {
			return err
		}
		cat.LastUpdated = snap.Timestamp
		if err := tx.Save(&cat).Error; err != nil {
			return err
		}

		if err := tx.Where("category_id = ?", categoryID).Delete(&CachedMovie{}).Error; err != nil {
			return err
		}

		for _, m := range snap.Movies {
			row := movieRow(m, snap.Timestamp)
			row.CategoryID = &cat.ID
			if err := upsertMovie(tx, &row); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadCategory returns domain.ErrCacheNotFound when the category row is absent.
func (s *Store) LoadCategory(categoryID string) (*domain.MoviesSnapshot, error) {
	var cat CachedCategory
	err := s.db.Preload("Movies", func(db *gorm.DB) *gorm.DB {
		return db.Order("cached_movies.id")
	}).First(&cat, "id = ?", categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCacheNotFound
	}
	if err != nil {
		return nil, err
	}

	movies := make([]domain.Movie, 0, len(cat.Movies))
	for _, row := range cat.Movies {
		movies = append(movies, row.toDomain())
	}
	return &domain.MoviesSnapshot{Movies: movies, Timestamp: cat.LastUpdated}, nil
}

// SaveMovieDetail upserts the movie row, replaces its actor association
// wholesale, and upserts each image by URL. Actor rows disassociated here may
// still be referenced by other movies, so they are left in place.
func (s *Store) SaveMovieDetail(movieID int64, snap domain.MovieDetailSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		row := movieRow(snap.Movie, snap.Timestamp)
		row.ID = movieID

		// Preserve the category link if the movie is also a listing member
		var existing CachedMovie
		if err := tx.First(&existing, "id = ?", movieID).Error; err == nil {
			row.CategoryID = existing.CategoryID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := upsertMovie(tx, &row); err != nil {
			return err
		}

		actors := make([]CachedActor, 0, len(snap.Actors))
		for _, a := range snap.Actors {
			ar := actorRow(a)
			if err := tx.Save(&ar).Error; err != nil {
				return err
			}
			actors = append(actors, ar)
		}
		if err := tx.Model(&row).Association("Actors").Replace(actors); err != nil {
			return err
		}

		for _, imageURL := range snap.Images {
			if err := upsertImage(tx, imageURL, movieID, snap.Timestamp); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadMovieDetail returns domain.ErrCacheNotFound when the movie row is
// absent. A movie saved only as a category member loads with empty cast and
// images; the store does not distinguish that from a detail save that carried
// none.
func (s *Store) LoadMovieDetail(movieID int64) (*domain.MovieDetailSnapshot, error) {
	var row CachedMovie
	err := s.db.Preload("Actors", func(db *gorm.DB) *gorm.DB {
		return db.Order("cached_actors.id")
	}).Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("cached_images.image_url")
	}).First(&row, "id = ?", movieID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCacheNotFound
	}
	if err != nil {
		return nil, err
	}

	actors := make([]domain.Actor, 0, len(row.Actors))
	for _, a := range row.Actors {
		actors = append(actors, a.toDomain())
	}
	images := make([]string, 0, len(row.Images))
	for _, img := range row.Images {
		images = append(images, img.ImageURL)
	}

	return &domain.MovieDetailSnapshot{
		Movie:     row.toDomain(),
		Actors:    actors,
		Images:    images,
		Timestamp: row.LastUpdated,
	}, nil
}

// IsExpired computes expiry from the entity's own lastUpdated stamp. Keys that
// resolve to no row, or that don't parse, read as expired.
func (s *Store) IsExpired(key string, ttl time.Duration) bool {
	var lastUpdated time.Time

	if categoryID, ok := domain.ParseCategoryKey(key); ok {
		var cat CachedCategory
		if err := s.db.Select("last_updated").First(&cat, "id = ?", categoryID).Error; err != nil {
			return true
		}
		lastUpdated = cat.LastUpdated
	} else if movieID, ok := domain.ParseMovieKey(key); ok {
		var row CachedMovie
		if err := s.db.Select("last_updated").First(&row, "id = ?", movieID).Error; err != nil {
			return true
		}
		lastUpdated = row.LastUpdated
	} else {
		return true
	}

	return s.now().Sub(lastUpdated) > ttl
}

// Remove deletes the entity behind key together with the rows it owns.
// Unknown keys are a no-op.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if categoryID, ok := domain.ParseCategoryKey(key); ok {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("category_id = ?", categoryID).Delete(&CachedMovie{}).Error; err != nil {
				return err
			}
			return tx.Delete(&CachedCategory{}, "id = ?", categoryID).Error
		})
		if err != nil {
			s.logger.Warn("failed to remove category", "id", categoryID, "error", err)
		}
		return
	}

	if movieID, ok := domain.ParseMovieKey(key); ok {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			row := CachedMovie{ID: movieID}
			if err := tx.Model(&row).Association("Actors").Clear(); err != nil {
				return err
			}
			if err := tx.Where("movie_id = ?", movieID).Delete(&CachedImage{}).Error; err != nil {
				return err
			}
			return tx.Delete(&CachedMovie{}, "id = ?", movieID).Error
		})
		if err != nil {
			s.logger.Warn("failed to remove movie", "id", movieID, "error", err)
		}
	}
}

// ClearAll deletes every row of all four kinds in one transaction.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range []string{
			"DELETE FROM cached_movie_actors",
			"DELETE FROM cached_images",
			"DELETE FROM cached_movies",
			"DELETE FROM cached_actors",
			"DELETE FROM cached_categories",
		} {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// upsertMovie writes the row by natural key: update in place when present,
// create otherwise.
func upsertMovie(tx *gorm.DB, row *CachedMovie) error {
	res := tx.Model(&CachedMovie{}).Where("id = ?", row.ID).Updates(map[string]interface{}{
		"title":         row.Title,
		"overview":      row.Overview,
		"poster_path":   row.PosterPath,
		"backdrop_path": row.BackdropPath,
		"vote_average":  row.VoteAverage,
		"release_date":  row.ReleaseDate,
		"last_updated":  row.LastUpdated,
		"category_id":   row.CategoryID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Create(row).Error
	}
	return nil
}

// upsertImage merges by URL: existing rows get a fresh stamp and owner,
// everything else is left untouched.
func upsertImage(tx *gorm.DB, imageURL string, movieID int64, ts time.Time) error {
	var img CachedImage
	err := tx.First(&img, "image_url = ?", imageURL).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		img = CachedImage{
			ImageURL: imageURL,
			Type:     "backdrop",
		}
	} else if err != nil {
		return err
	}
	img.LastUpdated = ts
	img.MovieID = &movieID
	return tx.Save(&img).Error
}

func categoryName(categoryID string) string {
	for _, def := range domain.CatalogCategories() {
		if def.ID == categoryID {
			return def.Name
		}
	}
	// Fallback for ad-hoc categories: "now_playing" -> "Now Playing"
	words := strings.Split(categoryID, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
