package similarity

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-personalization-service/internal/cache"
	"movie-personalization-service/internal/models"
	"movie-personalization-service/internal/repository"
)

// memStore is an in-memory cached list store.
type memStore struct {
	entries map[string]models.CachedList
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]models.CachedList)}
}

func (s *memStore) Get(listType string) (*models.CachedList, error) {
	entry, ok := s.entries[listType]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entry, nil
}

func (s *memStore) Upsert(entry models.CachedList) error {
	s.entries[entry.ListType] = entry
	return nil
}

func movie(id string, genres, actors, keywords []string, director string) models.MovieRecord {
	return models.MovieRecord{
		ID:        id,
		Genres:    genres,
		Directors: []string{director},
		Actors:    actors,
		Keywords:  keywords,
	}
}

func TestBuildIndexRanksCloserMoviesFirst(t *testing.T) {
	movies := []models.MovieRecord{
		movie("1", []string{"액션", "범죄"}, []string{"가", "나"}, []string{"복수", "추격"}, "감독A"),
		movie("2", []string{"액션", "범죄"}, []string{"가", "나"}, []string{"복수", "잠입"}, "감독A"),
		movie("3", []string{"로맨스"}, []string{"다"}, []string{"첫사랑"}, "감독B"),
		movie("4", []string{"액션"}, []string{"라"}, []string{"전쟁"}, "감독C"),
	}

	index := BuildIndex(movies, Config{})

	neighbors := index["1"]
	require.NotEmpty(t, neighbors)
	assert.Equal(t, "2", neighbors[0].ID)

	// Movie 3 shares nothing with movie 1.
	for _, n := range neighbors {
		assert.NotEqual(t, "3", n.ID)
		assert.NotEqual(t, "1", n.ID, "a movie must not be its own neighbor")
		assert.Greater(t, n.Score, 0.0)
	}
}

func TestBuildIndexSkipsMoviesWithoutFeatures(t *testing.T) {
	movies := []models.MovieRecord{
		movie("1", []string{"액션"}, nil, []string{"전쟁"}, "감독A"),
		movie("2", nil, nil, []string{"전쟁"}, "감독A"),
		movie("3", []string{"액션"}, nil, nil, "감독A"),
	}

	index := BuildIndex(movies, Config{})

	assert.Contains(t, index, "1")
	assert.NotContains(t, index, "2")
	assert.NotContains(t, index, "3")
}

func TestBuildIndexTruncatesToTopK(t *testing.T) {
	var movies []models.MovieRecord
	for i := 0; i < 10; i++ {
		movies = append(movies, movie(
			fmt.Sprintf("%d", i),
			[]string{"액션"},
			[]string{fmt.Sprintf("배우%d", i)},
			[]string{"전쟁"},
			"감독A",
		))
	}

	index := BuildIndex(movies, Config{TopK: 3})

	for id, neighbors := range index {
		assert.LessOrEqual(t, len(neighbors), 3, "movie %s", id)
	}
}

func TestBuildIndexNeighborListsAreDirected(t *testing.T) {
	// With K=1 the hub movies keep each other and drop the satellite,
	// while the satellite still lists a hub.
	movies := []models.MovieRecord{
		movie("hub-a", []string{"액션", "범죄"}, []string{"가"}, []string{"복수"}, "감독A"),
		movie("hub-b", []string{"액션", "범죄"}, []string{"가"}, []string{"복수"}, "감독A"),
		movie("satellite", []string{"액션"}, []string{"나"}, []string{"모험"}, "감독B"),
	}

	index := BuildIndex(movies, Config{TopK: 1})

	require.Len(t, index["satellite"], 1)
	target := index["satellite"][0].ID

	var reverse []string
	for _, n := range index[target] {
		reverse = append(reverse, n.ID)
	}
	assert.NotContains(t, reverse, "satellite")
}

func TestEngineRebuildAndNeighbors(t *testing.T) {
	lists := cache.New(newMemStore())
	engine := NewEngine(lists, Config{})

	movies := []models.MovieRecord{
		movie("1", []string{"드라마"}, []string{"가"}, []string{"가족"}, "감독A"),
		movie("2", []string{"드라마"}, []string{"가"}, []string{"가족"}, "감독A"),
	}

	count, err := engine.Rebuild(context.Background(), movies)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	neighbors := engine.Neighbors("1")
	require.Len(t, neighbors, 1)
	assert.Equal(t, "2", neighbors[0].ID)
	assert.InDelta(t, 1.0, neighbors[0].Score, 1e-9)
}

func TestEngineNeighborsWithoutIndex(t *testing.T) {
	engine := NewEngine(cache.New(newMemStore()), Config{})

	assert.Empty(t, engine.Neighbors("1"))
}
