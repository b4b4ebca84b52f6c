package sqlstore

import (
	"time"

	"github.com/cinedex/cinedex/internal/domain"
)

// CachedCategory is a catalog category row. Its movie set is owned exclusively
// and replaced wholesale on every save.
type CachedCategory struct {
	ID          string        `gorm:"primaryKey"`
	Name        string        `gorm:"not null"`
	Endpoint    string        `gorm:"not null"`
	LastUpdated time.Time     `gorm:"not null;index"`
	Movies      []CachedMovie `gorm:"foreignKey:CategoryID"`
}

func (CachedCategory) TableName() string { return "cached_categories" }

// CachedMovie is a movie row keyed by its natural ID. CategoryID is nil for
// movies known only through a detail fetch.
type CachedMovie struct {
	ID           int64  `gorm:"primaryKey"`
	Title        string `gorm:"not null"`
	Overview     string `gorm:"type:text"`
	PosterPath   string
	BackdropPath string
	VoteAverage  float64
	ReleaseDate  string
	LastUpdated  time.Time `gorm:"not null;index"`
	CategoryID   *string   `gorm:"index"`

	Actors []CachedActor `gorm:"many2many:cached_movie_actors"`
	Images []CachedImage `gorm:"foreignKey:MovieID"`
}

func (CachedMovie) TableName() string { return "cached_movies" }

// CachedActor is a cast member row. Rows are shared across movies through the
// join table and are not pruned when an association is replaced.
type CachedActor struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Character   string
	ProfilePath string
}

func (CachedActor) TableName() string { return "cached_actors" }

// CachedImage is an artwork row keyed by its source URL. Images are upserted,
// never replaced wholesale.
type CachedImage struct {
	ImageURL    string `gorm:"primaryKey"`
	LocalPath   string
	Type        string    `gorm:"not null;index"`
	LastUpdated time.Time `gorm:"not null"`
	MovieID     *int64    `gorm:"index"`
}

func (CachedImage) TableName() string { return "cached_images" }

func movieRow(m domain.Movie, ts time.Time) CachedMovie {
	return CachedMovie{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		VoteAverage:  m.VoteAverage,
		ReleaseDate:  m.ReleaseDate,
		LastUpdated:  ts,
	}
}

func (r CachedMovie) toDomain() domain.Movie {
	return domain.Movie{
		ID:           r.ID,
		Title:        r.Title,
		Overview:     r.Overview,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		VoteAverage:  r.VoteAverage,
		ReleaseDate:  r.ReleaseDate,
	}
}

func actorRow(a domain.Actor) CachedActor {
	return CachedActor{
		ID:          a.ID,
		Name:        a.Name,
		Character:   a.Character,
		ProfilePath: a.ProfilePath,
	}
}

func (r CachedActor) toDomain() domain.Actor {
	return domain.Actor{
		ID:          r.ID,
		Name:        r.Name,
		Character:   r.Character,
		ProfilePath: r.ProfilePath,
	}
}
