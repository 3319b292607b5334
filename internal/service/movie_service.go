package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"movie-personalization-service/internal/cache"
	"movie-personalization-service/internal/catalog"
	"movie-personalization-service/internal/feature"
	"movie-personalization-service/internal/models"
	"movie-personalization-service/internal/repository"
)

const (
	listHotCacheTTL   = 5 * time.Minute
	detailHotCacheTTL = 30 * time.Minute

	// Stored detail rows older than this are refreshed from the
	// providers; art-only rows go stale faster.
	detailRefreshWindow = 24 * time.Hour
	artRefreshWindow    = 6 * time.Hour
)

// MovieService serves catalog browsing, detail enrichment and the
// onboarding deck.
type MovieService struct {
	movies  MovieStore
	catalog Catalog
	lists   *cache.ListCache
	redis   *redis.Client

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewMovieService creates a new MovieService. rng drives mood-tag
// sampling and onboarding shuffles; tests inject a fixed source.
func NewMovieService(movies MovieStore, cat Catalog, lists *cache.ListCache, rdb *redis.Client, rng *rand.Rand) *MovieService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MovieService{
		movies:  movies,
		catalog: cat,
		lists:   lists,
		redis:   rdb,
		rng:     rng,
	}
}

// ---- Browse lists ----

// Trending returns the weekly trending page. Page 1 is served from the
// snapshot cache; deeper pages always go live.
func (s *MovieService) Trending(ctx context.Context, page int) []models.MovieSummary {
	return s.hotList(ctx, fmt.Sprintf("lists:trending:%d", page), func() []models.MovieSummary {
		return cache.GetOrFetchPage(ctx, s.lists, models.ListTrending, cache.TTLVolatile, page,
			func(ctx context.Context) []models.MovieSummary { return s.catalog.Trending(ctx, page) })
	})
}

// NowPlaying returns the now-playing page.
func (s *MovieService) NowPlaying(ctx context.Context, page int) []models.MovieSummary {
	return s.hotList(ctx, fmt.Sprintf("lists:now_playing:%d", page), func() []models.MovieSummary {
		return cache.GetOrFetchPage(ctx, s.lists, models.ListNowPlaying, cache.TTLVolatile, page,
			func(ctx context.Context) []models.MovieSummary { return s.catalog.NowPlaying(ctx, page) })
	})
}

// TopRated returns the top-rated page.
func (s *MovieService) TopRated(ctx context.Context, page int) []models.MovieSummary {
	return s.hotList(ctx, fmt.Sprintf("lists:top_rated:%d", page), func() []models.MovieSummary {
		return cache.GetOrFetchPage(ctx, s.lists, models.ListTopRated, cache.TTLVolatile, page,
			func(ctx context.Context) []models.MovieSummary { return s.catalog.TopRated(ctx, page) })
	})
}

// MoviesByGenre returns a genre page.
func (s *MovieService) MoviesByGenre(ctx context.Context, genreID, page int) []models.MovieSummary {
	return s.hotList(ctx, fmt.Sprintf("lists:genre:%d:%d", genreID, page), func() []models.MovieSummary {
		return cache.GetOrFetchPage(ctx, s.lists, models.GenreListType(genreID), cache.TTLSlow, page,
			func(ctx context.Context) []models.MovieSummary { return s.catalog.MoviesByGenre(ctx, genreID, page) })
	})
}

// Search searches the catalog by title, always live.
func (s *MovieService) Search(ctx context.Context, query string) []models.MovieSummary {
	return s.catalog.SearchMovies(ctx, query)
}

// GenreTaxonomy returns the catalog genre taxonomy, cached for a day.
// When the provider is unavailable and nothing is cached, the static
// taxonomy stands in.
func (s *MovieService) GenreTaxonomy(ctx context.Context) []models.Genre {
	genres := cache.GetOrFetch(ctx, s.lists, models.ListGenreTaxonomy, cache.TTLSlow,
		func(ctx context.Context) []models.Genre { return s.catalog.Genres(ctx) })
	if len(genres) > 0 {
		return genres
	}

	for name, id := range catalog.GenreIDs {
		genres = append(genres, models.Genre{ID: id, Name: name})
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	return genres
}

// RandomPage returns catalog rows in a pseudo-random order that is
// stable per page: the offset shuffle is seeded by the page number so
// the same page always shows the same slice.
func (s *MovieService) RandomPage(ctx context.Context, page, limit int) ([]models.MovieSummary, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total, err := s.movies.CountWithPoster()
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return []models.MovieSummary{}, nil
	}

	var offsets []int
	for off := 0; off < total; off += limit {
		offsets = append(offsets, off)
	}
	pageRng := rand.New(rand.NewSource(int64(page)))
	pageRng.Shuffle(len(offsets), func(i, j int) {
		offsets[i], offsets[j] = offsets[j], offsets[i]
	})
	offset := offsets[(page-1)%len(offsets)]

	return s.movies.ListWithPoster(limit, offset)
}

// ---- Box office ----

// BoxOffice returns the live daily box office ranking, enriched with
// poster art from the store when fresh or from a best-effort catalog
// search otherwise. sortBy is "rank" or "audience".
func (s *MovieService) BoxOffice(ctx context.Context, sortBy string) []models.BoxOfficeEntry {
	entries := s.catalog.DailyBoxOffice(ctx)
	if len(entries) == 0 {
		return nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	stored, err := s.movies.GetMoviesByIDs(ids)
	if err != nil {
		slog.Warn("box office art lookup failed", "error", err)
		stored = map[string]*models.MovieRecord{}
	}

	for i := range entries {
		e := &entries[i]
		if rec, ok := stored[e.ID]; ok && rec.PosterURL != "" &&
			time.Since(rec.LastUpdated) < artRefreshWindow {
			e.PosterURL = rec.PosterURL
			e.Title = rec.Title
			if rec.ReleaseDate != "" {
				e.ReleaseDate = rec.ReleaseDate
			}
			continue
		}

		// Fuzzy title+year link to the catalog provider for art.
		year := ""
		if len(e.ReleaseDate) >= 4 {
			year = e.ReleaseDate[:4]
		}
		if match := s.catalog.SearchByTitle(ctx, e.Title, year); match != nil {
			e.PosterURL = match.PosterURL
		}
		if err := s.movies.UpsertArtCache(e.ID, e.Title, e.ReleaseDate, e.PosterURL); err != nil {
			slog.Error("failed to cache box office art", "movie_id", e.ID, "error", err)
		}
	}

	if sortBy == "audience" {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CumulativeAudience > entries[j].CumulativeAudience
		})
	} else {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Rank < entries[j].Rank
		})
	}
	return entries
}

// ---- Details ----

// Details returns the full record for a movie id from either provider
// namespace. Fresh store rows are served as-is; stale rows are
// refreshed and the stale copy is kept as a fallback when providers
// fail. Returns repository.ErrNotFound when nobody knows the id.
func (s *MovieService) Details(ctx context.Context, id string) (*models.MovieRecord, error) {
	cacheKey := "movie:detail:" + id
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var rec models.MovieRecord
		if json.Unmarshal([]byte(cached), &rec) == nil {
			slog.Debug("cache hit", "key", cacheKey)
			return &rec, nil
		}
	}

	var stale *models.MovieRecord
	stored, err := s.movies.GetMovieByID(id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if stored != nil {
		if time.Since(stored.LastUpdated) < detailRefreshWindow && len(stored.Genres) > 0 {
			s.ensureMoodTags(stored)
			s.setCache(ctx, cacheKey, stored, detailHotCacheTTL)
			return stored, nil
		}
		stale = stored
	}

	rec := s.catalog.FetchDetails(ctx, id)
	if rec == nil {
		if stale != nil {
			return stale, nil
		}
		return nil, repository.ErrNotFound
	}

	if len(rec.Keywords) == 0 {
		rec.Keywords = feature.ExtractKeywords(rec.Synopsis, feature.DefaultKeywordCount)
		rec.Normalize()
	}
	if stale != nil && len(stale.EmotionalTags) > 0 {
		rec.EmotionalTags = stale.EmotionalTags
	} else {
		rec.EmotionalTags = s.sampleMoodTags(rec.Title)
	}

	if err := s.movies.UpsertMovie(rec); err != nil {
		slog.Error("failed to store movie record", "movie_id", id, "error", err)
	}
	s.setCache(ctx, cacheKey, rec, detailHotCacheTTL)
	return rec, nil
}

// ensureMoodTags backfills mood tags on stored rows that predate them.
func (s *MovieService) ensureMoodTags(rec *models.MovieRecord) {
	if len(rec.EmotionalTags) > 0 {
		return
	}
	rec.EmotionalTags = s.sampleMoodTags(rec.Title)
	if err := s.movies.UpdateEmotionalTags(rec.ID, rec.EmotionalTags); err != nil {
		slog.Error("failed to store mood tags", "movie_id", rec.ID, "error", err)
	}
}

func (s *MovieService) sampleMoodTags(title string) []string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return feature.MoodTags(title, s.rng)
}

// ---- Onboarding ----

// Onboarding returns the shuffled candidate deck for the taste
// onboarding flow, optionally narrowed by mood.
func (s *MovieService) Onboarding(ctx context.Context, mood string) []models.OnboardingMovie {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.catalog.OnboardingCandidates(ctx, mood, s.rng)
}

// DetailsByIDs returns display details for a batch of movie ids.
func (s *MovieService) DetailsByIDs(ctx context.Context, ids []string) []models.OnboardingMovie {
	return s.catalog.DetailsForIDs(ctx, ids)
}

// ---- Seeding ----

// SeedCatalog fills the movie store from the catalog popularity pool.
// Seeded rows carry genres and synopsis keywords so a similarity build
// can use them without per-movie detail lookups.
func (s *MovieService) SeedCatalog(ctx context.Context, pages int) (int, error) {
	if pages < 1 {
		pages = 1
	}

	seen := make(map[string]bool)
	seeded := 0
	for page := 1; page <= pages; page++ {
		records := s.catalog.PopularRecords(ctx, page)
		if len(records) == 0 {
			slog.Warn("seed page came back empty", "page", page)
			continue
		}
		for i := range records {
			rec := &records[i]
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true

			rec.Keywords = feature.ExtractKeywords(rec.Synopsis, feature.DefaultKeywordCount)
			rec.EmotionalTags = s.sampleMoodTags(rec.Title)
			rec.Normalize()
			if err := s.movies.UpsertMovie(rec); err != nil {
				slog.Error("failed to seed movie", "movie_id", rec.ID, "error", err)
				continue
			}
			seeded++
		}
		slog.Info("seeded page", "page", page, "movies", len(records))
	}

	if seeded == 0 {
		return 0, fmt.Errorf("no movies could be fetched for seeding")
	}
	return seeded, nil
}

// ---- Redis helpers ----

func (s *MovieService) hotList(ctx context.Context, key string, load func() []models.MovieSummary) []models.MovieSummary {
	if cached, err := s.getFromCache(ctx, key); err == nil {
		var result []models.MovieSummary
		if json.Unmarshal([]byte(cached), &result) == nil {
			slog.Debug("cache hit", "key", key)
			return result
		}
	}
	result := load()
	if len(result) > 0 {
		s.setCache(ctx, key, result, listHotCacheTTL)
	}
	return result
}

func (s *MovieService) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *MovieService) setCache(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
