package service

import (
	"context"
	"math/rand"

	"movie-personalization-service/internal/kobis"
	"movie-personalization-service/internal/models"
)

// Catalog is the normalized provider surface the services consume.
// Satisfied by *catalog.Adapter. Every method reduces provider
// failures to empty results.
type Catalog interface {
	DailyBoxOffice(ctx context.Context) []models.BoxOfficeEntry
	Trending(ctx context.Context, page int) []models.MovieSummary
	NowPlaying(ctx context.Context, page int) []models.MovieSummary
	TopRated(ctx context.Context, page int) []models.MovieSummary
	PopularRecords(ctx context.Context, page int) []models.MovieRecord
	MoviesByGenre(ctx context.Context, genreID, page int) []models.MovieSummary
	SearchMovies(ctx context.Context, query string) []models.MovieSummary
	SearchByTitle(ctx context.Context, title, year string) *models.MovieSummary
	Genres(ctx context.Context) []models.Genre
	FetchDetails(ctx context.Context, id string) *models.MovieRecord
	OnboardingCandidates(ctx context.Context, mood string, rng *rand.Rand) []models.OnboardingMovie
	DetailsForIDs(ctx context.Context, ids []string) []models.OnboardingMovie
	SearchPersonID(ctx context.Context, name string) string
	SearchPersonProfileURL(ctx context.Context, name string) string
	PersonDetails(ctx context.Context, personID string) *models.PersonDetail
	BoxOfficeMovieInfo(ctx context.Context, movieCd string) *kobis.MovieInfo
}

// MovieStore is the movie record persistence the services consume.
// Satisfied by *repository.MovieRepository.
type MovieStore interface {
	UpsertMovie(m *models.MovieRecord) error
	UpsertArtCache(id, title, releaseDate, posterURL string) error
	UpdateEmotionalTags(id string, tags []string) error
	GetMovieByID(id string) (*models.MovieRecord, error)
	GetMoviesByIDs(ids []string) (map[string]*models.MovieRecord, error)
	ListWithFeatures() ([]models.MovieRecord, error)
	CountWithPoster() (int, error)
	ListWithPoster(limit, offset int) ([]models.MovieSummary, error)
}

// InteractionStore is the rating/like persistence the services consume.
// Satisfied by *repository.InteractionRepository.
type InteractionStore interface {
	UpsertRating(rating models.Rating) error
	GetRating(userID, movieID string) (*models.Rating, error)
	ListRatings(userID string) ([]models.Rating, error)
	UpsertLike(userID, movieID string) error
	DeleteLike(userID, movieID string) (bool, error)
	IsLiked(userID, movieID string) (bool, error)
	ListLikedMovieIDs(userID string) ([]string, error)
}

// SimilaritySource serves content similarity neighbor lists.
// Satisfied by *similarity.Engine.
type SimilaritySource interface {
	Neighbors(movieID string) []models.SimilarityNeighbor
}
