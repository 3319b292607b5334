package service

import (
	"context"
	"fmt"
	"log/slog"

	"movie-personalization-service/internal/models"
)

// IndexBuilder rebuilds the content similarity index from a movie set.
// Satisfied by *similarity.Engine.
type IndexBuilder interface {
	Rebuild(ctx context.Context, movies []models.MovieRecord) (int, error)
}

// IndexService drives similarity index rebuilds from the stored
// catalog.
type IndexService struct {
	movies  MovieStore
	builder IndexBuilder
}

func NewIndexService(movies MovieStore, builder IndexBuilder) *IndexService {
	return &IndexService{movies: movies, builder: builder}
}

// Train rebuilds the similarity index over every stored movie that
// carries features. Returns the number of indexed movies.
func (s *IndexService) Train(ctx context.Context) (int, error) {
	movies, err := s.movies.ListWithFeatures()
	if err != nil {
		return 0, fmt.Errorf("failed to load movies for training: %w", err)
	}
	if len(movies) == 0 {
		return 0, fmt.Errorf("no movies with features to index")
	}

	count, err := s.builder.Rebuild(ctx, movies)
	if err != nil {
		return 0, err
	}
	slog.Info("similarity index rebuilt", "movies", count)
	return count, nil
}
