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
)

// Client is the TMDB API client (global catalog metadata, artwork,
// credits and watch providers).
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- TMDB Response Types ----

// Movie is a movie entry from list endpoints (discover, trending,
// now playing, top rated, search).
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	GenreIDs     []int   `json:"genre_ids"`
}

type listResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Genre is a genre taxonomy entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreListResponse struct {
	Genres []Genre `json:"genres"`
}

// MovieDetail is the detailed movie record.
type MovieDetail struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	Runtime      int     `json:"runtime"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Genres       []Genre `json:"genres"`
}

// CreditPerson is one crew or cast member.
type CreditPerson struct {
	Name string `json:"name"`
	Job  string `json:"job,omitempty"`
}

// Credits holds a movie's crew and cast.
type Credits struct {
	Crew []CreditPerson `json:"crew"`
	Cast []CreditPerson `json:"cast"`
}

// Provider is one watch provider entry.
type Provider struct {
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// WatchProviders holds the watch link and flatrate providers for one region.
type WatchProviders struct {
	Link     string     `json:"link"`
	Flatrate []Provider `json:"flatrate"`
}

type watchProvidersResponse struct {
	Results map[string]WatchProviders `json:"results"`
}

// Person is a person search result.
type Person struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

type personListResponse struct {
	Results []Person `json:"results"`
}

// ---- Client Methods ----

// DiscoverByGenre fetches popular movies of one genre. Low-vote entries
// are filtered upstream to keep the pool presentable.
func (c *Client) DiscoverByGenre(ctx context.Context, genreID, page int) ([]Movie, error) {
	q := c.baseQuery()
	q.Set("with_genres", strconv.Itoa(genreID))
	q.Set("sort_by", "popularity.desc")
	q.Set("vote_count.gte", "100")
	q.Set("page", strconv.Itoa(page))

	slog.Debug("fetching TMDB discover", "genre_id", genreID, "page", page)
	var result listResponse
	if err := c.doGet(ctx, "/discover/movie", q, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Popular fetches the popular movie list (used for catalog seeding).
func (c *Client) Popular(ctx context.Context, page int) ([]Movie, error) {
	q := c.baseQuery()
	q.Set("page", strconv.Itoa(page))

	var result listResponse
	if err := c.doGet(ctx, "/movie/popular", q, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Trending fetches the trending movie list for a time window ("day" or "week").
func (c *Client) Trending(ctx context.Context, timeWindow string, page int) ([]Movie, error) {
	q := c.baseQuery()
	q.Set("page", strconv.Itoa(page))

	var result listResponse
	if err := c.doGet(ctx, "/trending/movie/"+timeWindow, q, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// NowPlaying fetches the currently playing movie list.
func (c *Client) NowPlaying(ctx context.Context, page int) ([]Movie, error) {
	q := c.baseQuery()
	q.Set("page", strconv.Itoa(page))

	var result listResponse
	if err := c.doGet(ctx, "/movie/now_playing", q, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// TopRated fetches the all-time top rated movie list.
func (c *Client) TopRated(ctx context.Context, page int) ([]Movie, error) {
	q := c.baseQuery()
	q.Set("page", strconv.Itoa(page))

	var result listResponse
	if err := c.doGet(ctx, "/movie/top_rated", q, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// SearchMovies searches movies by title. Year narrows the match when known.
func (c *Client) SearchMovies(ctx context.Context, query, year string) ([]Movie, error) {
	q := c.baseQuery()
	q.Set("query", query)
	q.Set("page", "1")
	if year != "" {
		q.Set("year", year)
	}

	var result listResponse
	if err := c.doGet(ctx, "/search/movie", q, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// SearchPerson searches people by name and returns the first match.
func (c *Client) SearchPerson(ctx context.Context, name string) (*Person, error) {
	q := c.baseQuery()
	q.Set("query", name)
	q.Set("page", "1")

	var result personListResponse
	if err := c.doGet(ctx, "/search/person", q, &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return nil, nil
	}
	return &result.Results[0], nil
}

// GetMovieDetail fetches detailed movie info.
func (c *Client) GetMovieDetail(ctx context.Context, tmdbID int) (*MovieDetail, error) {
	slog.Debug("fetching TMDB movie detail", "tmdb_id", tmdbID)
	var result MovieDetail
	if err := c.doGet(ctx, fmt.Sprintf("/movie/%d", tmdbID), c.baseQuery(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCredits fetches crew and cast for a movie.
func (c *Client) GetCredits(ctx context.Context, tmdbID int) (*Credits, error) {
	var result Credits
	if err := c.doGet(ctx, fmt.Sprintf("/movie/%d/credits", tmdbID), c.baseQuery(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetWatchProviders fetches the watch provider listing for a movie in
// the configured region.
func (c *Client) GetWatchProviders(ctx context.Context, tmdbID int) (*WatchProviders, error) {
	var result watchProvidersResponse
	if err := c.doGet(ctx, fmt.Sprintf("/movie/%d/watch/providers", tmdbID), c.baseQuery(), &result); err != nil {
		return nil, err
	}
	wp, ok := result.Results["KR"]
	if !ok {
		return nil, nil
	}
	return &wp, nil
}

// GetGenres fetches the movie genre taxonomy.
func (c *Client) GetGenres(ctx context.Context) ([]Genre, error) {
	slog.Debug("fetching TMDB genres")
	var result genreListResponse
	if err := c.doGet(ctx, "/genre/movie/list", c.baseQuery(), &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}

func (c *Client) baseQuery() url.Values {
	return url.Values{
		"api_key":  {c.apiKey},
		"language": {"ko-KR"},
		"region":   {"KR"},
	}
}

func (c *Client) doGet(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return nil
}

// ImageURL builds a full image URL from a TMDB path ("w500", "w780").
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/" + size + path
}
