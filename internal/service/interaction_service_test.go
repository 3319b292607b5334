package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-personalization-service/internal/models"
)

func TestRateValidatesInput(t *testing.T) {
	svc := NewInteractionService(newFakeInteractionStore(), newFakeMovieStore())

	assert.ErrorIs(t, svc.Rate(context.Background(), "u", models.RateRequest{Rating: 3}), ErrMissingMovieID)
	assert.ErrorIs(t, svc.Rate(context.Background(), "u", models.RateRequest{MovieID: "1", Rating: 0}), ErrInvalidRating)
	assert.ErrorIs(t, svc.Rate(context.Background(), "u", models.RateRequest{MovieID: "1", Rating: 6}), ErrInvalidRating)
	assert.NoError(t, svc.Rate(context.Background(), "u", models.RateRequest{MovieID: "1", Rating: 5}))
}

func TestRateOverwritesPreviousRating(t *testing.T) {
	interactions := newFakeInteractionStore()
	svc := NewInteractionService(interactions, newFakeMovieStore())

	require.NoError(t, svc.Rate(context.Background(), "u", models.RateRequest{MovieID: "1", Rating: 2}))
	require.NoError(t, svc.Rate(context.Background(), "u", models.RateRequest{MovieID: "1", Rating: 5, Comment: "다시 보니 최고"}))

	ratings, err := interactions.ListRatings("u")
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].Rating)
	assert.Equal(t, "다시 보니 최고", ratings[0].Comment)
}

func TestActivityStatus(t *testing.T) {
	interactions := newFakeInteractionStore()
	svc := NewInteractionService(interactions, newFakeMovieStore())

	require.NoError(t, svc.Rate(context.Background(), "u", models.RateRequest{MovieID: "1", Rating: 4, Comment: "좋았다"}))
	require.NoError(t, svc.Like(context.Background(), "u", "1"))

	status, err := svc.ActivityStatus(context.Background(), "u", "1")
	require.NoError(t, err)
	require.NotNil(t, status.UserRating)
	assert.Equal(t, 4, *status.UserRating)
	assert.True(t, status.IsLiked)
	assert.Equal(t, "좋았다", status.Comment)

	// Nothing recorded for another movie.
	status, err = svc.ActivityStatus(context.Background(), "u", "2")
	require.NoError(t, err)
	assert.Nil(t, status.UserRating)
	assert.False(t, status.IsLiked)
}

func TestUnlikeReportsMissingLike(t *testing.T) {
	svc := NewInteractionService(newFakeInteractionStore(), newFakeMovieStore())

	require.NoError(t, svc.Like(context.Background(), "u", "1"))

	removed, err := svc.Unlike(context.Background(), "u", "1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Unlike(context.Background(), "u", "1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRatedMoviesJoinsDisplayFields(t *testing.T) {
	store := newFakeMovieStore(
		&models.MovieRecord{ID: "1", Title: "기생충", PosterURL: "/p/1"},
	)
	interactions := newFakeInteractionStore()
	svc := NewInteractionService(interactions, store)

	require.NoError(t, svc.Rate(context.Background(), "u", models.RateRequest{MovieID: "1", Rating: 5}))
	require.NoError(t, svc.Rate(context.Background(), "u", models.RateRequest{MovieID: "gone", Rating: 3}))

	got, err := svc.RatedMovies(context.Background(), "u")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "기생충", got[0].Title)
	assert.Equal(t, "/p/1", got[0].PosterURL)
	// Unknown movie keeps its id as the display title.
	assert.Equal(t, "gone", got[1].Title)
}

func TestLikedMovies(t *testing.T) {
	store := newFakeMovieStore(
		&models.MovieRecord{ID: "1", Title: "올드보이", PosterURL: "/p/1"},
	)
	svc := NewInteractionService(newFakeInteractionStore(), store)

	require.NoError(t, svc.Like(context.Background(), "u", "1"))

	got, err := svc.LikedMovies(context.Background(), "u")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "올드보이", got[0].Title)
}
