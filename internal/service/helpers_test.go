package service

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"movie-personalization-service/internal/kobis"
	"movie-personalization-service/internal/models"
	"movie-personalization-service/internal/repository"
)

// fakeMovieStore is an in-memory MovieStore.
type fakeMovieStore struct {
	movies map[string]*models.MovieRecord
}

func newFakeMovieStore(movies ...*models.MovieRecord) *fakeMovieStore {
	s := &fakeMovieStore{movies: make(map[string]*models.MovieRecord)}
	for _, m := range movies {
		s.movies[m.ID] = m
	}
	return s
}

func (s *fakeMovieStore) UpsertMovie(m *models.MovieRecord) error {
	copied := *m
	s.movies[m.ID] = &copied
	return nil
}

func (s *fakeMovieStore) UpsertArtCache(id, title, releaseDate, posterURL string) error {
	s.movies[id] = &models.MovieRecord{ID: id, Title: title, ReleaseDate: releaseDate, PosterURL: posterURL}
	return nil
}

func (s *fakeMovieStore) UpdateEmotionalTags(id string, tags []string) error {
	if m, ok := s.movies[id]; ok {
		m.EmotionalTags = tags
	}
	return nil
}

func (s *fakeMovieStore) GetMovieByID(id string) (*models.MovieRecord, error) {
	m, ok := s.movies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *fakeMovieStore) GetMoviesByIDs(ids []string) (map[string]*models.MovieRecord, error) {
	out := make(map[string]*models.MovieRecord)
	for _, id := range ids {
		if m, ok := s.movies[id]; ok {
			copied := *m
			out[id] = &copied
		}
	}
	return out, nil
}

func (s *fakeMovieStore) ListWithFeatures() ([]models.MovieRecord, error) {
	var out []models.MovieRecord
	for _, m := range s.movies {
		if len(m.Genres) > 0 && len(m.Keywords) > 0 {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeMovieStore) CountWithPoster() (int, error) {
	count := 0
	for _, m := range s.movies {
		if m.PosterURL != "" {
			count++
		}
	}
	return count, nil
}

func (s *fakeMovieStore) ListWithPoster(limit, offset int) ([]models.MovieSummary, error) {
	var all []models.MovieSummary
	for _, m := range s.movies {
		if m.PosterURL != "" {
			all = append(all, models.MovieSummary{ID: m.ID, Title: m.Title, PosterURL: m.PosterURL})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// fakeInteractionStore is an in-memory InteractionStore.
type fakeInteractionStore struct {
	ratings map[string][]models.Rating
	likes   map[string]map[string]bool
}

func newFakeInteractionStore() *fakeInteractionStore {
	return &fakeInteractionStore{
		ratings: make(map[string][]models.Rating),
		likes:   make(map[string]map[string]bool),
	}
}

func (s *fakeInteractionStore) UpsertRating(rating models.Rating) error {
	list := s.ratings[rating.UserID]
	for i, r := range list {
		if r.MovieID == rating.MovieID {
			list[i] = rating
			return nil
		}
	}
	s.ratings[rating.UserID] = append(list, rating)
	return nil
}

func (s *fakeInteractionStore) GetRating(userID, movieID string) (*models.Rating, error) {
	for _, r := range s.ratings[userID] {
		if r.MovieID == movieID {
			copied := r
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeInteractionStore) ListRatings(userID string) ([]models.Rating, error) {
	return append([]models.Rating(nil), s.ratings[userID]...), nil
}

func (s *fakeInteractionStore) UpsertLike(userID, movieID string) error {
	if s.likes[userID] == nil {
		s.likes[userID] = make(map[string]bool)
	}
	s.likes[userID][movieID] = true
	return nil
}

func (s *fakeInteractionStore) DeleteLike(userID, movieID string) (bool, error) {
	if !s.likes[userID][movieID] {
		return false, nil
	}
	delete(s.likes[userID], movieID)
	return true, nil
}

func (s *fakeInteractionStore) IsLiked(userID, movieID string) (bool, error) {
	return s.likes[userID][movieID], nil
}

func (s *fakeInteractionStore) ListLikedMovieIDs(userID string) ([]string, error) {
	var ids []string
	for id := range s.likes[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// fakeCatalog is a canned-response Catalog. Call tracking is locked
// because detail fetches fan out.
type fakeCatalog struct {
	mu              sync.Mutex
	boxOffice       []models.BoxOfficeEntry
	trending        []models.MovieSummary
	nowPlaying      []models.MovieSummary
	topRated        []models.MovieSummary
	popular         []models.MovieRecord
	byGenre         map[int][]models.MovieSummary
	searchResults   []models.MovieSummary
	titleMatches    map[string]*models.MovieSummary
	genres          []models.Genre
	details         map[string]*models.MovieRecord
	movieInfos      map[string]*kobis.MovieInfo
	personDetails   map[string]*models.PersonDetail
	onboarding      []models.OnboardingMovie
	personIDs       map[string]string
	personProfiles  map[string]string
	genreCalls      []int
	fetchDetailsIDs []string
	movieInfoIDs    []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		byGenre:        make(map[int][]models.MovieSummary),
		titleMatches:   make(map[string]*models.MovieSummary),
		details:        make(map[string]*models.MovieRecord),
		movieInfos:     make(map[string]*kobis.MovieInfo),
		personDetails:  make(map[string]*models.PersonDetail),
		personIDs:      make(map[string]string),
		personProfiles: make(map[string]string),
	}
}

func (c *fakeCatalog) DailyBoxOffice(ctx context.Context) []models.BoxOfficeEntry {
	return c.boxOffice
}

func (c *fakeCatalog) Trending(ctx context.Context, page int) []models.MovieSummary {
	if page != 1 {
		return nil
	}
	return c.trending
}

func (c *fakeCatalog) NowPlaying(ctx context.Context, page int) []models.MovieSummary {
	return c.nowPlaying
}

func (c *fakeCatalog) TopRated(ctx context.Context, page int) []models.MovieSummary {
	return c.topRated
}

func (c *fakeCatalog) PopularRecords(ctx context.Context, page int) []models.MovieRecord {
	if page != 1 {
		return nil
	}
	return c.popular
}

func (c *fakeCatalog) MoviesByGenre(ctx context.Context, genreID, page int) []models.MovieSummary {
	c.genreCalls = append(c.genreCalls, genreID)
	if page != 1 {
		return nil
	}
	return c.byGenre[genreID]
}

func (c *fakeCatalog) SearchMovies(ctx context.Context, query string) []models.MovieSummary {
	return c.searchResults
}

func (c *fakeCatalog) SearchByTitle(ctx context.Context, title, year string) *models.MovieSummary {
	return c.titleMatches[title]
}

func (c *fakeCatalog) Genres(ctx context.Context) []models.Genre {
	return c.genres
}

func (c *fakeCatalog) FetchDetails(ctx context.Context, id string) *models.MovieRecord {
	c.mu.Lock()
	c.fetchDetailsIDs = append(c.fetchDetailsIDs, id)
	c.mu.Unlock()
	if rec, ok := c.details[id]; ok {
		copied := *rec
		return &copied
	}
	return nil
}

func (c *fakeCatalog) OnboardingCandidates(ctx context.Context, mood string, rng *rand.Rand) []models.OnboardingMovie {
	return c.onboarding
}

func (c *fakeCatalog) DetailsForIDs(ctx context.Context, ids []string) []models.OnboardingMovie {
	return c.onboarding
}

func (c *fakeCatalog) SearchPersonID(ctx context.Context, name string) string {
	return c.personIDs[name]
}

func (c *fakeCatalog) SearchPersonProfileURL(ctx context.Context, name string) string {
	return c.personProfiles[name]
}

func (c *fakeCatalog) PersonDetails(ctx context.Context, personID string) *models.PersonDetail {
	return c.personDetails[personID]
}

func (c *fakeCatalog) BoxOfficeMovieInfo(ctx context.Context, movieCd string) *kobis.MovieInfo {
	c.mu.Lock()
	c.movieInfoIDs = append(c.movieInfoIDs, movieCd)
	c.mu.Unlock()
	return c.movieInfos[movieCd]
}

// fakeListStore is an in-memory cached list store.
type fakeListStore struct {
	entries map[string]models.CachedList
}

func newFakeListStore() *fakeListStore {
	return &fakeListStore{entries: make(map[string]models.CachedList)}
}

func (s *fakeListStore) Get(listType string) (*models.CachedList, error) {
	entry, ok := s.entries[listType]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entry, nil
}

func (s *fakeListStore) Upsert(entry models.CachedList) error {
	s.entries[entry.ListType] = entry
	return nil
}

// fakeSimilarity serves fixed neighbor lists.
type fakeSimilarity struct {
	neighbors map[string][]models.SimilarityNeighbor
}

func (s *fakeSimilarity) Neighbors(movieID string) []models.SimilarityNeighbor {
	return s.neighbors[movieID]
}
