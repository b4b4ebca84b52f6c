package tmdb

// Wire DTOs for the TMDB v3 API. Field set is limited to what the catalog
// persists.

// MovieResult is a movie summary as returned by listing and detail endpoints.
type MovieResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
}

// CastMember is one credits entry.
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type moviesResponse struct {
	Page    int           `json:"page"`
	Results []MovieResult `json:"results"`
}

type creditsResponse struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
}

type imageEntry struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	VoteAverage float64 `json:"vote_average"`
}

type imagesResponse struct {
	ID        int64        `json:"id"`
	Backdrops []imageEntry `json:"backdrops"`
	Posters   []imageEntry `json:"posters"`
}
