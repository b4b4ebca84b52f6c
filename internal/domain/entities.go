package domain

// Image base URLs per TMDB size conventions
const (
	posterBaseURL   = "https://image.tmdb.org/t/p/w500"
	backdropBaseURL = "https://image.tmdb.org/t/p/w780"
	profileBaseURL  = "https://image.tmdb.org/t/p/w185"
)

// Movie represents a catalog movie. Summary fields come from category
// listings; Images and Cast are only populated by a detail fetch.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"posterPath,omitempty"`
	BackdropPath string  `json:"backdropPath,omitempty"`
	VoteAverage  float64 `json:"voteAverage"`
	ReleaseDate  string  `json:"releaseDate,omitempty"`

	// Detail-only fields (empty for category summaries)
	Images []string `json:"images,omitempty"`
	Cast   []Actor  `json:"cast,omitempty"`
}

// PosterURL returns the full poster image URL, or "" when the movie has no poster.
func (m Movie) PosterURL() string {
	if m.PosterPath == "" {
		return ""
	}
	return posterBaseURL + m.PosterPath
}

// BackdropURL returns the full backdrop image URL, or "" when none exists.
func (m Movie) BackdropURL() string {
	if m.BackdropPath == "" {
		return ""
	}
	return backdropBaseURL + m.BackdropPath
}

// Actor represents a cast member of a movie.
type Actor struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profilePath,omitempty"`
}

// ProfileURL returns the full profile image URL, or "" when none exists.
func (a Actor) ProfileURL() string {
	if a.ProfilePath == "" {
		return ""
	}
	return profileBaseURL + a.ProfilePath
}

// Category is a named movie listing (popular, top rated, ...).
type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Endpoint string  `json:"endpoint"`
	Movies   []Movie `json:"movies"`
}

// CategoryDef identifies one of the fixed catalog categories.
type CategoryDef struct {
	ID       string
	Name     string
	Endpoint string
}

// CatalogCategories returns the fixed set of browsable categories.
// Exactly four, fixed at compile time.
func CatalogCategories() []CategoryDef {
	return []CategoryDef{
		{ID: "popular", Name: "Popular", Endpoint: "/movie/popular"},
		{ID: "top_rated", Name: "Top Rated", Endpoint: "/movie/top_rated"},
		{ID: "upcoming", Name: "Upcoming", Endpoint: "/movie/upcoming"},
		{ID: "now_playing", Name: "Now Playing", Endpoint: "/movie/now_playing"},
	}
}
