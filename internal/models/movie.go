package models

import (
	"fmt"
	"time"
)

// WatchProvider is a streaming provider offering a movie.
type WatchProvider struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
}

// MovieRecord is the normalized movie shape stored in our database.
// Both provider namespaces feed into it: box office codes and catalog
// ids share the same key space, disambiguated by id format.
type MovieRecord struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	ReleaseDate    string          `json:"release_date,omitempty"`
	Runtime        *int            `json:"runtime,omitempty"`
	Genres         []string        `json:"genres"`
	Directors      []string        `json:"directors"`
	Actors         []string        `json:"actors"`
	Synopsis       string          `json:"synopsis"`
	PosterURL      string          `json:"poster_url,omitempty"`
	BackdropURL    string          `json:"backdrop_url,omitempty"`
	EmotionalTags  []string        `json:"emotional_tags"`
	Keywords       []string        `json:"keywords"`
	WatchProviders []WatchProvider `json:"watch_providers"`
	WatchLink      string          `json:"watch_link,omitempty"`
	VoteAverage    float64         `json:"vote_average,omitempty"`
	Popularity     float64         `json:"popularity,omitempty"`
	LastUpdated    time.Time       `json:"last_updated,omitempty"`
}

// Normalize replaces nil list fields with empty slices so that cached
// records never carry null collections.
func (m *MovieRecord) Normalize() {
	if m.Genres == nil {
		m.Genres = []string{}
	}
	if m.Directors == nil {
		m.Directors = []string{}
	}
	if m.Actors == nil {
		m.Actors = []string{}
	}
	if m.EmotionalTags == nil {
		m.EmotionalTags = []string{}
	}
	if m.Keywords == nil {
		m.Keywords = []string{}
	}
	if m.WatchProviders == nil {
		m.WatchProviders = []WatchProvider{}
	}
}

// FeatureSet is the compact feature bundle used for similarity computation.
type FeatureSet struct {
	Genres   []string `json:"genres"`
	Director string   `json:"director"`
	Actors   []string `json:"actors"`
	Keywords []string `json:"keywords"`
}

// Genre is an entry of the catalog genre taxonomy.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieSummary is the lightweight display shape for list responses.
type MovieSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	PosterURL   string  `json:"poster_url,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
}

// BoxOfficeEntry is one row of the daily theatrical ranking.
type BoxOfficeEntry struct {
	ID                 string `json:"id"`
	Rank               int    `json:"rank"`
	Title              string `json:"title"`
	ReleaseDate        string `json:"release_date,omitempty"`
	CumulativeAudience int    `json:"audience"`
	DailyAudience      int    `json:"daily_audience"`
	NationCode         string `json:"nation_code,omitempty"`
	PosterURL          string `json:"poster_url,omitempty"`
}

// OnboardingMovie is a candidate shown on the taste onboarding deck.
type OnboardingMovie struct {
	MovieID   string `json:"movie_id"`
	Title     string `json:"title"`
	PosterURL string `json:"poster_url"`
	GenreName string `json:"genre_name"`
}

// RecommendedMovie is a recommendation list entry with the signal that
// produced it attached as a human-readable reason.
type RecommendedMovie struct {
	MovieSummary
	Score  float64 `json:"score,omitempty"`
	Reason string  `json:"recommendation_reason,omitempty"`
}

// SimilarityNeighbor is one scored neighbor in the content similarity index.
type SimilarityNeighbor struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// SimilarityIndex maps a movie id to its ranked most-similar neighbors.
// The whole mapping is persisted as a single cached list entry.
type SimilarityIndex map[string][]SimilarityNeighbor

// CachedList is a named, versioned snapshot of a derived list.
type CachedList struct {
	ListType    string    `json:"list_type"`
	Data        string    `json:"data"`
	LastUpdated time.Time `json:"last_updated"`
}

const (
	// Cached list identities.
	ListTrending        = "trending_movies"
	ListNowPlaying      = "now_playing_movies"
	ListTopRated        = "top_rated_movies"
	ListGenreTaxonomy   = "genre_taxonomy"
	ListContentSimilar  = "content_similar_top_k"
	ListWeeklyPerson    = "weekly_popular_person"
	ListGenrePagePrefix = "genre_"
)

// GenreListType returns the cached list identity for a genre page.
func GenreListType(genreID int) string {
	return fmt.Sprintf("%s%d_movies", ListGenrePagePrefix, genreID)
}

// PlaceholderSynopsis is shown when a catalog record has no synopsis.
const PlaceholderSynopsis = "줄거리 정보가 없습니다."
