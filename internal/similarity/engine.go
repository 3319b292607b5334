// Package similarity builds and serves the item-item content
// similarity index over the movie catalog.
package similarity

import (
	"context"
	"math"
	"sort"

	"movie-personalization-service/internal/cache"
	"movie-personalization-service/internal/feature"
	"movie-personalization-service/internal/models"
)

// Weights set the per-category contribution of feature tokens.
type Weights struct {
	Genre    float64
	Director float64
	Actor    float64
	Keyword  float64
}

// DefaultWeights favor genres and the director over individual actors
// and synopsis keywords.
var DefaultWeights = Weights{
	Genre:    2.0,
	Director: 1.5,
	Actor:    1.0,
	Keyword:  1.0,
}

// DefaultTopK is the neighbor list length retained per movie.
const DefaultTopK = 20

// Config tunes an index build.
type Config struct {
	TopK    int
	Weights Weights
}

// Engine computes and serves content similarity. A rebuild is O(N²) in
// catalog size and runs from an explicit administrative trigger, never
// inline with user requests. The full index replaces the previous
// snapshot atomically as one cached list entry.
type Engine struct {
	lists *cache.ListCache
	cfg   Config
}

// NewEngine creates a similarity engine over the list cache.
func NewEngine(lists *cache.ListCache, cfg Config) *Engine {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights
	}
	return &Engine{lists: lists, cfg: cfg}
}

// Rebuild computes the index over the given catalog and persists it.
// Returns the number of movies indexed.
func (e *Engine) Rebuild(ctx context.Context, movies []models.MovieRecord) (int, error) {
	index := BuildIndex(movies, e.cfg)
	if err := cache.Put(e.lists, models.ListContentSimilar, index); err != nil {
		return 0, err
	}
	return len(index), nil
}

// Neighbors returns a movie's neighbor list ordered by score
// descending. A movie that was never indexed, or an index that was
// never built, yields an empty result, not an error.
func (e *Engine) Neighbors(movieID string) []models.SimilarityNeighbor {
	index := cache.Lookup[models.SimilarityIndex](e.lists, models.ListContentSimilar, 0)
	if index == nil {
		return nil
	}
	neighbors := (*index)[movieID]
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Score > neighbors[j].Score
	})
	return neighbors
}

// BuildIndex computes the top-K neighbor mapping for every movie with
// a complete feature set. Neighbor lists are directed: top-K
// truncation means A listing B does not imply B listing A.
func BuildIndex(movies []models.MovieRecord, cfg Config) models.SimilarityIndex {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights
	}

	type vectorized struct {
		id     string
		vector map[string]float64
		norm   float64
	}

	var items []vectorized
	for i := range movies {
		fs := feature.ExtractFeatures(&movies[i])
		if len(fs.Genres) == 0 || len(fs.Keywords) == 0 {
			continue
		}
		v := vectorize(fs, cfg.Weights)
		items = append(items, vectorized{id: movies[i].ID, vector: v, norm: norm(v)})
	}

	index := make(models.SimilarityIndex, len(items))
	for i := range items {
		var neighbors []models.SimilarityNeighbor
		for j := range items {
			if i == j {
				continue
			}
			score := cosine(items[i].vector, items[i].norm, items[j].vector, items[j].norm)
			if score <= 0 {
				continue
			}
			neighbors = append(neighbors, models.SimilarityNeighbor{ID: items[j].id, Score: score})
		}
		sort.SliceStable(neighbors, func(a, b int) bool {
			return neighbors[a].Score > neighbors[b].Score
		})
		if len(neighbors) > cfg.TopK {
			neighbors = neighbors[:cfg.TopK]
		}
		index[items[i].id] = neighbors
	}
	return index
}

// vectorize builds a sparse weighted vector over the union vocabulary
// of genre, director, actor and keyword tokens. Tokens are prefixed by
// category so a name appearing as both director and actor stays
// distinct.
func vectorize(fs models.FeatureSet, w Weights) map[string]float64 {
	v := make(map[string]float64)
	for _, g := range fs.Genres {
		v["genre:"+g] += w.Genre
	}
	if fs.Director != "" {
		v["director:"+fs.Director] += w.Director
	}
	for _, a := range fs.Actors {
		v["actor:"+a] += w.Actor
	}
	for _, k := range fs.Keywords {
		v["keyword:"+k] += w.Keyword
	}
	return v
}

func norm(v map[string]float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func cosine(a map[string]float64, normA float64, b map[string]float64, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	// Iterate the smaller vector.
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for token, x := range a {
		if y, ok := b[token]; ok {
			dot += x * y
		}
	}
	return dot / (normA * normB)
}
