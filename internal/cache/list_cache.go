// Package cache implements the time-bounded list snapshot cache.
// Expiration is lazy: staleness is checked when a snapshot is read,
// there is no background refresh.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"movie-personalization-service/internal/models"
	"movie-personalization-service/internal/repository"
)

const (
	// TTLVolatile covers fast-moving lists (trending, now playing,
	// top rated, box office art).
	TTLVolatile = 6 * time.Hour
	// TTLSlow covers slow-moving lists (genre pages, genre taxonomy).
	TTLSlow = 24 * time.Hour
)

// Store is the snapshot persistence the cache reads and writes.
type Store interface {
	Get(listType string) (*models.CachedList, error)
	Upsert(entry models.CachedList) error
}

// ListCache serves derived lists through cached snapshots.
type ListCache struct {
	store Store
	now   func() time.Time
}

// New creates a list cache over a snapshot store.
func New(store Store) *ListCache {
	return &ListCache{store: store, now: time.Now}
}

// NewWithClock creates a list cache with an injected clock.
func NewWithClock(store Store, now func() time.Time) *ListCache {
	return &ListCache{store: store, now: now}
}

// GetOrFetch returns the cached snapshot for listType when it is
// younger than ttl, otherwise calls fetch and caches a non-empty
// result. An empty fetch result is returned but never cached, so a
// transient upstream outage is not frozen into a snapshot. Store
// failures degrade to a live fetch.
func GetOrFetch[T any](ctx context.Context, c *ListCache, listType string, ttl time.Duration, fetch func(context.Context) []T) []T {
	if cached := Lookup[[]T](c, listType, ttl); cached != nil {
		return *cached
	}

	result := fetch(ctx)
	if len(result) == 0 {
		return result
	}

	data, err := json.Marshal(result)
	if err != nil {
		slog.Error("failed to marshal snapshot", "list_type", listType, "error", err)
		return result
	}
	if err := c.store.Upsert(models.CachedList{
		ListType:    listType,
		Data:        string(data),
		LastUpdated: c.now(),
	}); err != nil {
		slog.Error("failed to cache snapshot", "list_type", listType, "error", err)
	}
	return result
}

// GetOrFetchPage is GetOrFetch with the first-page-only policy: deep
// pages always go live to the source, only page 1 is ever cached.
func GetOrFetchPage[T any](ctx context.Context, c *ListCache, listType string, ttl time.Duration, page int, fetch func(context.Context) []T) []T {
	if page != 1 {
		return fetch(ctx)
	}
	return GetOrFetch(ctx, c, listType, ttl, fetch)
}

// Lookup returns the decoded snapshot when present and younger than
// ttl, or nil. A ttl of zero disables the staleness check.
func Lookup[T any](c *ListCache, listType string, ttl time.Duration) *T {
	entry, err := c.store.Get(listType)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Warn("cache lookup failed", "list_type", listType, "error", err)
		}
		return nil
	}
	if ttl > 0 && c.now().Sub(entry.LastUpdated) >= ttl {
		return nil
	}

	var value T
	if err := json.Unmarshal([]byte(entry.Data), &value); err != nil {
		slog.Warn("cached snapshot is malformed, refetching", "list_type", listType, "error", err)
		return nil
	}
	return &value
}

// Put replaces the snapshot for listType atomically.
func Put(c *ListCache, listType string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.store.Upsert(models.CachedList{
		ListType:    listType,
		Data:        string(data),
		LastUpdated: c.now(),
	})
}
