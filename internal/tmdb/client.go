package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cinedex/cinedex/internal/domain"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	defaultTimeout = 30 * time.Second
	userAgent      = "Cinedex/1.0"

	// maxBackdrops caps the image list persisted per movie
	maxBackdrops = 5
)

// Client is a TMDB v3 API client covering the catalog endpoints: category
// listings, movie detail, credits, and images.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a TMDB client. An empty baseURL selects the public API.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated GET against path and returns the raw body.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("tmdb request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tmdb request failed", "path", path, "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrAuthFailed
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("tmdb request error", "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// FetchMovies returns the movie summaries for a category endpoint such as
// "/movie/popular".
func (c *Client) FetchMovies(ctx context.Context, endpoint string) ([]domain.Movie, error) {
	body, err := c.doRequest(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var page moviesResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return MapMovies(page.Results), nil
}

// FetchMovieDetails returns the full summary record for one movie.
func (c *Client) FetchMovieDetails(ctx context.Context, movieID int64) (*domain.Movie, error) {
	body, err := c.doRequest(ctx, "/movie/"+strconv.FormatInt(movieID, 10), nil)
	if err != nil {
		return nil, err
	}

	var result MovieResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	movie := MapMovie(result)
	return &movie, nil
}

// FetchMovieCredits returns the cast list for one movie in billing order.
func (c *Client) FetchMovieCredits(ctx context.Context, movieID int64) ([]domain.Actor, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/movie/%d/credits", movieID), nil)
	if err != nil {
		return nil, err
	}

	var credits creditsResponse
	if err := json.Unmarshal(body, &credits); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return MapCast(credits.Cast), nil
}

// FetchMovieImages returns up to maxBackdrops backdrop paths for one movie.
func (c *Client) FetchMovieImages(ctx context.Context, movieID int64) ([]string, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/movie/%d/images", movieID), nil)
	if err != nil {
		return nil, err
	}

	var images imagesResponse
	if err := json.Unmarshal(body, &images); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	paths := MapBackdrops(images.Backdrops)
	if len(paths) > maxBackdrops {
		paths = paths[:maxBackdrops]
	}
	return paths, nil
}

// FetchImage downloads raw image bytes from an absolute URL.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
