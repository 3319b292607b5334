package repository

import (
	"database/sql"
	"fmt"

	"movie-personalization-service/internal/models"
)

// CachedListRepository handles database operations for list snapshots.
type CachedListRepository struct {
	db *sql.DB
}

// NewCachedListRepository creates a new CachedListRepository.
func NewCachedListRepository(db *sql.DB) *CachedListRepository {
	return &CachedListRepository{db: db}
}

// Get returns the snapshot for a list type, or ErrNotFound.
func (r *CachedListRepository) Get(listType string) (*models.CachedList, error) {
	var entry models.CachedList
	err := r.db.QueryRow(`
		SELECT list_type, data, last_updated FROM cached_lists WHERE list_type = $1
	`, listType).Scan(&entry.ListType, &entry.Data, &entry.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cached list %s: %w", listType, err)
	}
	return &entry, nil
}

// Upsert writes or replaces the snapshot for a list type. Concurrent
// writers for the same list type are last-writer-wins, which is safe
// because snapshots are idempotently reconstructible from source data.
func (r *CachedListRepository) Upsert(entry models.CachedList) error {
	_, err := r.db.Exec(`
		INSERT INTO cached_lists (list_type, data, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (list_type) DO UPDATE SET
			data = EXCLUDED.data,
			last_updated = EXCLUDED.last_updated
	`, entry.ListType, entry.Data, entry.LastUpdated)
	if err != nil {
		return fmt.Errorf("upsert cached list %s: %w", entry.ListType, err)
	}
	return nil
}
