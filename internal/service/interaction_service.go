package service

import (
	"context"
	"errors"

	"movie-personalization-service/internal/models"
	"movie-personalization-service/internal/repository"
)

// Validation errors for rating submissions.
var (
	ErrMissingMovieID = errors.New("movie_id is required")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

// InteractionService records ratings and likes and reads a user's
// activity back for display.
type InteractionService struct {
	interactions InteractionStore
	movies       MovieStore
}

func NewInteractionService(interactions InteractionStore, movies MovieStore) *InteractionService {
	return &InteractionService{interactions: interactions, movies: movies}
}

// Rate stores a 1-5 rating. Re-rating the same movie overwrites the
// previous score and comment.
func (s *InteractionService) Rate(ctx context.Context, userID string, req models.RateRequest) error {
	if req.MovieID == "" {
		return ErrMissingMovieID
	}
	if req.Rating < 1 || req.Rating > 5 {
		return ErrInvalidRating
	}
	return s.interactions.UpsertRating(models.Rating{
		UserID:  userID,
		MovieID: req.MovieID,
		Rating:  req.Rating,
		Comment: req.Comment,
		Source:  req.Source,
	})
}

// Like marks a movie as saved. Liking twice is a no-op.
func (s *InteractionService) Like(ctx context.Context, userID, movieID string) error {
	return s.interactions.UpsertLike(userID, movieID)
}

// Unlike removes a saved movie. Returns false when nothing was saved.
func (s *InteractionService) Unlike(ctx context.Context, userID, movieID string) (bool, error) {
	return s.interactions.DeleteLike(userID, movieID)
}

// ActivityStatus reports what the user has recorded for one movie.
func (s *InteractionService) ActivityStatus(ctx context.Context, userID, movieID string) (*models.ActivityStatus, error) {
	status := &models.ActivityStatus{}

	rating, err := s.interactions.GetRating(userID, movieID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if rating != nil {
		status.UserRating = &rating.Rating
		status.Comment = rating.Comment
	}

	liked, err := s.interactions.IsLiked(userID, movieID)
	if err != nil {
		return nil, err
	}
	status.IsLiked = liked
	return status, nil
}

// RatedMovies lists the user's ratings with display fields joined in.
// Ratings for movies no longer in the store still appear, with the id
// standing in for the title.
func (s *InteractionService) RatedMovies(ctx context.Context, userID string) ([]models.RatedMovie, error) {
	ratings, err := s.interactions.ListRatings(userID)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return []models.RatedMovie{}, nil
	}

	ids := make([]string, 0, len(ratings))
	for _, r := range ratings {
		ids = append(ids, r.MovieID)
	}
	records, err := s.movies.GetMoviesByIDs(ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.RatedMovie, 0, len(ratings))
	for _, r := range ratings {
		m := models.RatedMovie{
			MovieID: r.MovieID,
			Title:   r.MovieID,
			Rating:  r.Rating,
			Comment: r.Comment,
		}
		if rec, ok := records[r.MovieID]; ok {
			m.Title = rec.Title
			m.PosterURL = rec.PosterURL
		}
		out = append(out, m)
	}
	return out, nil
}

// LikedMovies lists the user's saved movies with display fields.
func (s *InteractionService) LikedMovies(ctx context.Context, userID string) ([]models.LikedMovie, error) {
	ids, err := s.interactions.ListLikedMovieIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.LikedMovie{}, nil
	}

	records, err := s.movies.GetMoviesByIDs(ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.LikedMovie, 0, len(ids))
	for _, id := range ids {
		m := models.LikedMovie{MovieID: id, Title: id}
		if rec, ok := records[id]; ok {
			m.Title = rec.Title
			m.PosterURL = rec.PosterURL
		}
		out = append(out, m)
	}
	return out, nil
}
