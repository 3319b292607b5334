package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"movie-personalization-service/internal/models"
)

// MovieRepository handles database operations for movie records.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// UpsertMovie inserts or updates a full movie record. List fields are
// normalized before writing so cached rows never carry nulls.
func (r *MovieRepository) UpsertMovie(m *models.MovieRecord) error {
	m.Normalize()

	providersJSON, err := json.Marshal(m.WatchProviders)
	if err != nil {
		return fmt.Errorf("marshal watch providers: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO movies (id, title, release_date, runtime, genres, directors,
			actors, synopsis, poster_url, backdrop_url, emotional_tags, keywords,
			watch_link, watch_providers, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			release_date = EXCLUDED.release_date,
			runtime = EXCLUDED.runtime,
			genres = EXCLUDED.genres,
			directors = EXCLUDED.directors,
			actors = EXCLUDED.actors,
			synopsis = EXCLUDED.synopsis,
			poster_url = EXCLUDED.poster_url,
			backdrop_url = EXCLUDED.backdrop_url,
			emotional_tags = EXCLUDED.emotional_tags,
			keywords = EXCLUDED.keywords,
			watch_link = EXCLUDED.watch_link,
			watch_providers = EXCLUDED.watch_providers,
			last_updated = EXCLUDED.last_updated
	`, m.ID, m.Title, nullableStr(m.ReleaseDate), nullableInt(m.Runtime),
		pq.Array(m.Genres), pq.Array(m.Directors), pq.Array(m.Actors),
		m.Synopsis, nullableStr(m.PosterURL), nullableStr(m.BackdropURL),
		pq.Array(m.EmotionalTags), pq.Array(m.Keywords),
		m.WatchLink, providersJSON, time.Now())
	if err != nil {
		return fmt.Errorf("upsert movie %s: %w", m.ID, err)
	}
	return nil
}

// UpsertArtCache writes the minimal id/title/release/poster snapshot
// used by the box office art cache without touching richer fields.
func (r *MovieRepository) UpsertArtCache(id, title, releaseDate, posterURL string) error {
	_, err := r.db.Exec(`
		INSERT INTO movies (id, title, release_date, poster_url, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			release_date = EXCLUDED.release_date,
			poster_url = EXCLUDED.poster_url,
			last_updated = EXCLUDED.last_updated
	`, id, title, nullableStr(releaseDate), nullableStr(posterURL), time.Now())
	if err != nil {
		return fmt.Errorf("upsert art cache %s: %w", id, err)
	}
	return nil
}

// UpdateEmotionalTags sets the mood tags for a movie.
func (r *MovieRepository) UpdateEmotionalTags(id string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	_, err := r.db.Exec(`UPDATE movies SET emotional_tags = $1 WHERE id = $2`, pq.Array(tags), id)
	if err != nil {
		return fmt.Errorf("update emotional tags %s: %w", id, err)
	}
	return nil
}

const movieColumns = `id, title, COALESCE(release_date, ''), runtime, genres,
	directors, actors, synopsis, COALESCE(poster_url, ''),
	COALESCE(backdrop_url, ''), emotional_tags, keywords, watch_link,
	watch_providers, last_updated`

// GetMovieByID returns a movie record, or ErrNotFound.
func (r *MovieRepository) GetMovieByID(id string) (*models.MovieRecord, error) {
	row := r.db.QueryRow(`SELECT `+movieColumns+` FROM movies WHERE id = $1`, id)
	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get movie %s: %w", id, err)
	}
	return m, nil
}

// GetMoviesByIDs returns the stored records for the given ids, keyed
// by id. Missing ids are simply absent from the result.
func (r *MovieRepository) GetMoviesByIDs(ids []string) (map[string]*models.MovieRecord, error) {
	if len(ids) == 0 {
		return map[string]*models.MovieRecord{}, nil
	}
	rows, err := r.db.Query(`SELECT `+movieColumns+` FROM movies WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get movies by ids: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*models.MovieRecord, len(ids))
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			slog.Error("failed to scan movie row", "error", err)
			continue
		}
		result[m.ID] = m
	}
	return result, rows.Err()
}

// ListWithFeatures returns catalog rows carrying a complete feature
// set (non-empty genres and keywords), the input of a similarity build.
func (r *MovieRepository) ListWithFeatures() ([]models.MovieRecord, error) {
	rows, err := r.db.Query(`
		SELECT ` + movieColumns + ` FROM movies
		WHERE cardinality(genres) > 0 AND cardinality(keywords) > 0
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list movies with features: %w", err)
	}
	defer rows.Close()

	var movies []models.MovieRecord
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			slog.Error("failed to scan movie row", "error", err)
			continue
		}
		movies = append(movies, *m)
	}
	return movies, rows.Err()
}

// CountWithPoster counts catalog rows with poster art.
func (r *MovieRepository) CountWithPoster() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM movies WHERE poster_url IS NOT NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return count, nil
}

// ListWithPoster returns a page of catalog rows with poster art in
// stable id order; the caller decides the offset.
func (r *MovieRepository) ListWithPoster(limit, offset int) ([]models.MovieSummary, error) {
	rows, err := r.db.Query(`
		SELECT id, title, COALESCE(release_date, ''), COALESCE(poster_url, '')
		FROM movies
		WHERE poster_url IS NOT NULL
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var movies []models.MovieSummary
	for rows.Next() {
		var s models.MovieSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.ReleaseDate, &s.PosterURL); err != nil {
			slog.Error("failed to scan movie row", "error", err)
			continue
		}
		movies = append(movies, s)
	}
	return movies, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*models.MovieRecord, error) {
	var (
		m             models.MovieRecord
		runtime       sql.NullInt64
		providersJSON []byte
	)
	err := row.Scan(&m.ID, &m.Title, &m.ReleaseDate, &runtime,
		pq.Array(&m.Genres), pq.Array(&m.Directors), pq.Array(&m.Actors),
		&m.Synopsis, &m.PosterURL, &m.BackdropURL,
		pq.Array(&m.EmotionalTags), pq.Array(&m.Keywords),
		&m.WatchLink, &providersJSON, &m.LastUpdated)
	if err != nil {
		return nil, err
	}
	if runtime.Valid {
		rt := int(runtime.Int64)
		m.Runtime = &rt
	}
	if len(providersJSON) > 0 {
		if err := json.Unmarshal(providersJSON, &m.WatchProviders); err != nil {
			m.WatchProviders = nil
		}
	}
	m.Normalize()
	return &m, nil
}

func nullableStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
