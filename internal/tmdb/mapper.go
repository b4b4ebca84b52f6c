package tmdb

import "github.com/cinedex/cinedex/internal/domain"

// MapMovie converts a wire movie into the domain entity.
func MapMovie(r MovieResult) domain.Movie {
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

// MapMovies converts a listing page into domain entities.
func MapMovies(results []MovieResult) []domain.Movie {
	movies := make([]domain.Movie, 0, len(results))
	for _, r := range results {
		movies = append(movies, MapMovie(r))
	}
	return movies
}

// MapCast converts credits entries into domain actors, preserving billing order.
func MapCast(cast []CastMember) []domain.Actor {
	actors := make([]domain.Actor, 0, len(cast))
	for _, m := range cast {
		actors = append(actors, domain.Actor{
			ID:          m.ID,
			Name:        m.Name,
			Character:   m.Character,
			ProfilePath: m.ProfilePath,
		})
	}
	return actors
}

// MapBackdrops extracts backdrop file paths from an images response.
func MapBackdrops(backdrops []imageEntry) []string {
	paths := make([]string, 0, len(backdrops))
	for _, e := range backdrops {
		if e.FilePath == "" {
			continue
		}
		paths = append(paths, e.FilePath)
	}
	return paths
}
