package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-personalization-service/internal/catalog"
	"movie-personalization-service/internal/models"
)

func summary(id, title string) models.MovieSummary {
	return models.MovieSummary{ID: id, Title: title, PosterURL: "/p/" + id}
}

func TestGenreRecommendationsPicksMostFrequentGenre(t *testing.T) {
	store := newFakeMovieStore(
		&models.MovieRecord{ID: "1", Genres: []string{"액션", "드라마"}},
		&models.MovieRecord{ID: "2", Genres: []string{"액션"}},
		&models.MovieRecord{ID: "3", Genres: []string{"로맨스"}},
	)
	interactions := newFakeInteractionStore()
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: id, Rating: 5}))
	}

	cat := newFakeCatalog()
	cat.byGenre[catalog.GenreIDs["액션"]] = []models.MovieSummary{
		summary("10", "액션 신작"), summary("11", "액션 속편"),
	}

	svc := NewRecommendationService(store, interactions, cat, &fakeSimilarity{}, "")

	got, err := svc.GenreRecommendations(context.Background(), "u", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "10", got[0].ID)
	assert.Contains(t, got[0].Reason, "액션")
}

func TestGenreRecommendationsTieBreaksOnFirstSeenGenre(t *testing.T) {
	// Drama and action both appear once; drama was rated first.
	store := newFakeMovieStore(
		&models.MovieRecord{ID: "1", Genres: []string{"드라마"}},
		&models.MovieRecord{ID: "2", Genres: []string{"액션"}},
		&models.MovieRecord{ID: "3", Genres: nil},
	)
	interactions := newFakeInteractionStore()
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: "1", Rating: 4}))
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: "2", Rating: 4}))
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: "3", Rating: 4}))

	cat := newFakeCatalog()
	cat.byGenre[catalog.GenreIDs["드라마"]] = []models.MovieSummary{summary("20", "드라마 신작")}

	svc := NewRecommendationService(store, interactions, cat, &fakeSimilarity{}, "")

	got, err := svc.GenreRecommendations(context.Background(), "u", 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Contains(t, got[0].Reason, "드라마")
}

func TestGenreRecommendationsExcludesRatedMovies(t *testing.T) {
	store := newFakeMovieStore(
		&models.MovieRecord{ID: "1", Genres: []string{"액션"}},
	)
	interactions := newFakeInteractionStore()
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: "1", Rating: 5}))
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: "10", Rating: 2}))

	cat := newFakeCatalog()
	cat.byGenre[catalog.GenreIDs["액션"]] = []models.MovieSummary{
		summary("10", "이미 본 영화"), summary("11", "새 영화"),
	}

	svc := NewRecommendationService(store, interactions, cat, &fakeSimilarity{}, "")

	got, err := svc.GenreRecommendations(context.Background(), "u", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "11", got[0].ID)
}

func TestGenreRecommendationsWithoutHistoryFallsBackToTrending(t *testing.T) {
	cat := newFakeCatalog()
	cat.trending = []models.MovieSummary{summary("1", "인기작")}

	svc := NewRecommendationService(newFakeMovieStore(), newFakeInteractionStore(), cat, &fakeSimilarity{}, "")

	got, err := svc.GenreRecommendations(context.Background(), "u", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestHomeRecommendationsRanksGenreMatchesFirst(t *testing.T) {
	store := newFakeMovieStore(
		&models.MovieRecord{ID: "liked", Genres: []string{"액션"}},
		&models.MovieRecord{ID: "match", Genres: []string{"액션"}},
		&models.MovieRecord{ID: "other", Genres: []string{"로맨스"}},
	)
	interactions := newFakeInteractionStore()
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: "liked", Rating: 5}))

	cat := newFakeCatalog()
	cat.trending = []models.MovieSummary{summary("other", "로맨스"), summary("match", "액션")}

	svc := NewRecommendationService(store, interactions, cat, &fakeSimilarity{}, "")

	got, err := svc.HomeRecommendations(context.Background(), "u", nil, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "match", got[0].ID)
	assert.Contains(t, got[0].Reason, "액션")
}

func TestHomeRecommendationsNeverRepeatsRatedMovies(t *testing.T) {
	store := newFakeMovieStore(
		&models.MovieRecord{ID: "1", Genres: []string{"액션"}},
		&models.MovieRecord{ID: "2", Genres: []string{"액션"}},
	)
	interactions := newFakeInteractionStore()
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: "1", Rating: 5}))
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: "2", Rating: 1}))

	cat := newFakeCatalog()
	cat.trending = []models.MovieSummary{
		summary("1", "좋아한 영화"), summary("2", "싫어한 영화"), summary("3", "새 영화"),
	}

	svc := NewRecommendationService(store, interactions, cat, &fakeSimilarity{}, "")

	got, err := svc.HomeRecommendations(context.Background(), "u", nil, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestHomeRecommendationsUsesSimilaritySignal(t *testing.T) {
	store := newFakeMovieStore(
		&models.MovieRecord{ID: "liked", Genres: []string{"액션"}},
	)
	interactions := newFakeInteractionStore()
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: "liked", Rating: 5}))

	cat := newFakeCatalog()
	cat.trending = []models.MovieSummary{summary("far", "무관한 영화"), summary("near", "비슷한 영화")}

	similar := &fakeSimilarity{neighbors: map[string][]models.SimilarityNeighbor{
		"liked": {{ID: "near", Score: 0.9}},
	}}

	svc := NewRecommendationService(store, interactions, cat, similar, "")

	got, err := svc.HomeRecommendations(context.Background(), "u", nil, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].ID)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestHomeRecommendationsMoodNarrowsCandidatePool(t *testing.T) {
	cat := newFakeCatalog()
	cat.byGenre[catalog.GenreIDs["코미디"]] = []models.MovieSummary{summary("c1", "코미디")}

	svc := NewRecommendationService(newFakeMovieStore(), newFakeInteractionStore(), cat, &fakeSimilarity{}, "")

	got, err := svc.HomeRecommendations(context.Background(), "u", []string{"행복한"}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	ids := make(map[string]bool)
	for _, m := range got {
		ids[m.ID] = true
	}
	assert.True(t, ids["c1"])
	for _, call := range cat.genreCalls {
		assert.Contains(t, catalog.MoodGenreMap["행복한"], call)
	}
}

func TestHomeRecommendationsBorrowsSeedUserTaste(t *testing.T) {
	store := newFakeMovieStore(
		&models.MovieRecord{ID: "seed-liked", Genres: []string{"스릴러"}},
		&models.MovieRecord{ID: "match", Genres: []string{"스릴러"}},
	)
	interactions := newFakeInteractionStore()
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "seed-user", MovieID: "seed-liked", Rating: 5}))

	cat := newFakeCatalog()
	cat.trending = []models.MovieSummary{summary("plain", "보통 영화"), summary("match", "스릴러 영화")}

	svc := NewRecommendationService(store, interactions, cat, &fakeSimilarity{}, "seed-user")

	got, err := svc.HomeRecommendations(context.Background(), "fresh-user", nil, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "match", got[0].ID)
}

func TestRatingHistoryDrivesGenreRecommendations(t *testing.T) {
	store := newFakeMovieStore(
		&models.MovieRecord{ID: "x", Genres: []string{"액션"}},
		&models.MovieRecord{ID: "y", Genres: []string{"액션"}},
		&models.MovieRecord{ID: "z", Genres: []string{"드라마"}},
	)
	interactions := newFakeInteractionStore()
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: "x", Rating: 5}))
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: "y", Rating: 5}))
	require.NoError(t, interactions.UpsertRating(models.Rating{UserID: "u", MovieID: "z", Rating: 2}))

	cat := newFakeCatalog()
	cat.byGenre[catalog.GenreIDs["액션"]] = []models.MovieSummary{
		summary("x", "본 액션"), summary("fresh", "새 액션"),
	}

	svc := NewRecommendationService(store, interactions, cat, &fakeSimilarity{}, "")

	got, err := svc.GenreRecommendations(context.Background(), "u", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].ID)
	assert.Contains(t, got[0].Reason, "액션")

	// Repeated runs compute the same preferred genre.
	again, err := svc.GenreRecommendations(context.Background(), "u", 10)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestSimilarMoviesJoinsStoredRecords(t *testing.T) {
	store := newFakeMovieStore(
		&models.MovieRecord{ID: "2", Title: "이웃 영화", PosterURL: "/p/2"},
	)
	similar := &fakeSimilarity{neighbors: map[string][]models.SimilarityNeighbor{
		"1": {{ID: "2", Score: 0.8}, {ID: "missing", Score: 0.5}},
	}}

	svc := NewRecommendationService(store, newFakeInteractionStore(), newFakeCatalog(), similar, "")

	got, err := svc.SimilarMovies(context.Background(), "1", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "이웃 영화", got[0].Title)
	assert.InDelta(t, 0.8, got[0].Score, 1e-9)
}

func TestSimilarMoviesEmptyWithoutIndexEntry(t *testing.T) {
	svc := NewRecommendationService(newFakeMovieStore(), newFakeInteractionStore(), newFakeCatalog(), &fakeSimilarity{}, "")

	got, err := svc.SimilarMovies(context.Background(), "unknown", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
