package repository

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"movie-personalization-service/internal/models"
)

// InteractionRepository handles database operations for ratings and likes.
type InteractionRepository struct {
	db *sql.DB
}

// NewInteractionRepository creates a new InteractionRepository.
func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// UpsertRating creates or overwrites the rating for a (user, movie)
// pair. Repeat ratings update in place; there is never more than one
// row per pair.
func (r *InteractionRepository) UpsertRating(rating models.Rating) error {
	_, err := r.db.Exec(`
		INSERT INTO user_ratings (user_id, movie_id, rating, comment, source, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			comment = EXCLUDED.comment,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at
	`, rating.UserID, rating.MovieID, rating.Rating,
		nullableStr(rating.Comment), nullableStr(rating.Source), time.Now())
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// GetRating returns the user's rating for one movie, or ErrNotFound.
func (r *InteractionRepository) GetRating(userID, movieID string) (*models.Rating, error) {
	var (
		rating  models.Rating
		comment sql.NullString
		source  sql.NullString
	)
	err := r.db.QueryRow(`
		SELECT user_id, movie_id, rating, comment, source, updated_at
		FROM user_ratings
		WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID).Scan(&rating.UserID, &rating.MovieID, &rating.Rating,
		&comment, &source, &rating.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	rating.Comment = comment.String
	rating.Source = source.String
	return &rating, nil
}

// ListRatings returns all ratings by one user.
func (r *InteractionRepository) ListRatings(userID string) ([]models.Rating, error) {
	rows, err := r.db.Query(`
		SELECT user_id, movie_id, rating, comment, source, updated_at
		FROM user_ratings
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var (
			rating  models.Rating
			comment sql.NullString
			source  sql.NullString
		)
		if err := rows.Scan(&rating.UserID, &rating.MovieID, &rating.Rating,
			&comment, &source, &rating.UpdatedAt); err != nil {
			slog.Error("failed to scan rating row", "error", err)
			continue
		}
		rating.Comment = comment.String
		rating.Source = source.String
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// UpsertLike saves a like. Duplicate likes are no-ops.
func (r *InteractionRepository) UpsertLike(userID, movieID string) error {
	_, err := r.db.Exec(`
		INSERT INTO user_likes (user_id, movie_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, movie_id) DO NOTHING
	`, userID, movieID)
	if err != nil {
		return fmt.Errorf("upsert like: %w", err)
	}
	return nil
}

// DeleteLike removes a like. Reports whether a row was removed.
func (r *InteractionRepository) DeleteLike(userID, movieID string) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM user_likes WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// IsLiked reports whether the user has liked the movie.
func (r *InteractionRepository) IsLiked(userID, movieID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM user_likes WHERE user_id = $1 AND movie_id = $2)
	`, userID, movieID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return exists, nil
}

// ListLikedMovieIDs returns the ids of all movies liked by one user.
func (r *InteractionRepository) ListLikedMovieIDs(userID string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT movie_id FROM user_likes WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
