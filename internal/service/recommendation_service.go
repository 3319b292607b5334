package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"movie-personalization-service/internal/catalog"
	"movie-personalization-service/internal/models"
	"movie-personalization-service/internal/repository"
)

const (
	// Ratings at or above this value count as positive signal.
	positiveRatingFloor = 4

	defaultHomeLimit = 10
	homeCandidateCap = 60

	// Candidate score components. Genre affinity dominates, content
	// similarity refines, popularity only breaks ties.
	genreMatchScore  = 10.0
	similarityWeight = 5.0
)

// RecommendationService produces personalized movie lists by blending
// the user's rating history with catalog popularity and the content
// similarity index.
type RecommendationService struct {
	movies       MovieStore
	interactions InteractionStore
	catalog      Catalog
	similar      SimilaritySource
	seedUserID   string
}

func NewRecommendationService(movies MovieStore, interactions InteractionStore, cat Catalog, similar SimilaritySource, seedUserID string) *RecommendationService {
	return &RecommendationService{
		movies:       movies,
		interactions: interactions,
		catalog:      cat,
		similar:      similar,
		seedUserID:   seedUserID,
	}
}

// GenreRecommendations returns movies from the user's single most
// preferred genre, excluding everything the user has already rated.
// The preferred genre is the most frequent genre across positively
// rated movies; ties go to the genre seen first in rating order.
func (s *RecommendationService) GenreRecommendations(ctx context.Context, userID string, limit int) ([]models.RecommendedMovie, error) {
	if limit < 1 {
		limit = defaultHomeLimit
	}

	ratings, err := s.interactions.ListRatings(userID)
	if err != nil {
		return nil, err
	}
	rated := ratedIDSet(ratings)

	genre := s.preferredGenre(ratings)
	if genre == "" {
		// First-seen genre tie-breaking needs history; without any,
		// fall back to trending.
		return s.trendingFallback(ctx, rated, limit), nil
	}

	genreID, ok := catalog.GenreIDs[genre]
	if !ok {
		return s.trendingFallback(ctx, rated, limit), nil
	}

	candidates := s.catalog.MoviesByGenre(ctx, genreID, 1)
	reason := fmt.Sprintf("선호하시는 %s 장르의 인기 작품이에요", genre)

	out := make([]models.RecommendedMovie, 0, limit)
	for _, c := range candidates {
		if rated[c.ID] {
			continue
		}
		out = append(out, models.RecommendedMovie{MovieSummary: c, Reason: reason})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// HomeRecommendations builds the personalized home shelf. Mood
// keywords narrow the candidate pool to matching genres; otherwise
// the pool is drawn from trending. Candidates are scored by genre
// affinity with the user's positive history, refined by content
// similarity, with catalog popularity breaking ties. Users without
// history borrow the seed user's taste profile when one is configured.
func (s *RecommendationService) HomeRecommendations(ctx context.Context, userID string, moodKeywords []string, limit int) ([]models.RecommendedMovie, error) {
	if limit < 1 {
		limit = defaultHomeLimit
	}

	ratings, err := s.interactions.ListRatings(userID)
	if err != nil {
		return nil, err
	}
	rated := ratedIDSet(ratings)

	positives := positiveRatings(ratings)
	if len(positives) == 0 && s.seedUserID != "" && userID != s.seedUserID {
		seed, err := s.interactions.ListRatings(s.seedUserID)
		if err != nil {
			slog.Warn("seed user history unavailable", "error", err)
		} else {
			positives = positiveRatings(seed)
		}
	}

	candidates := s.candidatePool(ctx, moodKeywords)
	if len(candidates) == 0 {
		return []models.RecommendedMovie{}, nil
	}

	likedGenres, likedIDs := s.tasteSignal(positives)

	scored := make([]models.RecommendedMovie, 0, len(candidates))
	for _, c := range candidates {
		if rated[c.ID] {
			continue
		}

		score := 0.0
		reason := "요즘 많은 분들이 보고 있어요"

		rec, err := s.movies.GetMovieByID(c.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if rec != nil {
			if g := firstSharedGenre(rec.Genres, likedGenres); g != "" {
				score += genreMatchScore
				reason = fmt.Sprintf("좋아하신 %s 장르와 비슷한 작품이에요", g)
			}
		}

		if sim := s.maxSimilarityTo(c.ID, likedIDs); sim > 0 {
			score += sim * similarityWeight
			if score < genreMatchScore {
				reason = "평가하신 작품과 분위기가 닮았어요"
			}
		}

		scored = append(scored, models.RecommendedMovie{
			MovieSummary: c,
			Score:        score,
			Reason:       reason,
		})
	}

	// Stable sort keeps candidate-pool order (popularity) as the tie
	// break.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// SimilarMovies returns the display list for a movie's content
// similarity neighbors. An empty list means the index has no entry.
func (s *RecommendationService) SimilarMovies(ctx context.Context, movieID string, limit int) ([]models.RecommendedMovie, error) {
	if limit < 1 {
		limit = defaultHomeLimit
	}

	neighbors := s.similar.Neighbors(movieID)
	if len(neighbors) == 0 {
		return []models.RecommendedMovie{}, nil
	}
	if len(neighbors) > limit {
		neighbors = neighbors[:limit]
	}

	ids := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		ids = append(ids, n.ID)
	}
	records, err := s.movies.GetMoviesByIDs(ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.RecommendedMovie, 0, len(neighbors))
	for _, n := range neighbors {
		rec, ok := records[n.ID]
		if !ok {
			continue
		}
		out = append(out, models.RecommendedMovie{
			MovieSummary: models.MovieSummary{
				ID:          rec.ID,
				Title:       rec.Title,
				ReleaseDate: rec.ReleaseDate,
				PosterURL:   rec.PosterURL,
				VoteAverage: rec.VoteAverage,
			},
			Score:  n.Score,
			Reason: "이 작품과 결이 비슷해요",
		})
	}
	return out, nil
}

// candidatePool gathers scoring candidates: mood keywords map to
// genre pools fetched in parallel pages, no mood means trending.
func (s *RecommendationService) candidatePool(ctx context.Context, moodKeywords []string) []models.MovieSummary {
	if len(moodKeywords) == 0 {
		return s.catalog.Trending(ctx, 1)
	}

	seen := make(map[string]bool)
	var pool []models.MovieSummary
	for _, genreID := range catalog.GenreIDsForMood(moodKeywords) {
		for _, m := range s.catalog.MoviesByGenre(ctx, genreID, 1) {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			pool = append(pool, m)
		}
		if len(pool) >= homeCandidateCap {
			break
		}
	}
	return pool
}

// preferredGenre counts genres across positively rated movies in
// rating order and returns the most frequent one. The first genre to
// reach the winning count wins ties.
func (s *RecommendationService) preferredGenre(ratings []models.Rating) string {
	counts := make(map[string]int)
	var order []string
	for _, r := range positiveRatings(ratings) {
		rec, err := s.movies.GetMovieByID(r.MovieID)
		if err != nil || rec == nil {
			continue
		}
		for _, g := range rec.Genres {
			if _, ok := counts[g]; !ok {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	best := ""
	bestCount := 0
	for _, g := range order {
		if counts[g] > bestCount {
			best = g
			bestCount = counts[g]
		}
	}
	return best
}

// tasteSignal collects the genres and ids behind the user's positive
// ratings, in rating order.
func (s *RecommendationService) tasteSignal(positives []models.Rating) (map[string]bool, []string) {
	genres := make(map[string]bool)
	ids := make([]string, 0, len(positives))
	for _, r := range positives {
		ids = append(ids, r.MovieID)
		rec, err := s.movies.GetMovieByID(r.MovieID)
		if err != nil || rec == nil {
			continue
		}
		for _, g := range rec.Genres {
			genres[g] = true
		}
	}
	return genres, ids
}

// maxSimilarityTo returns the highest similarity score between
// candidateID and any of the user's liked movies. Neighbor lists are
// directed, so both endpoints are consulted.
func (s *RecommendationService) maxSimilarityTo(candidateID string, likedIDs []string) float64 {
	liked := make(map[string]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}

	best := 0.0
	for _, n := range s.similar.Neighbors(candidateID) {
		if liked[n.ID] && n.Score > best {
			best = n.Score
		}
	}
	for _, id := range likedIDs {
		for _, n := range s.similar.Neighbors(id) {
			if n.ID == candidateID && n.Score > best {
				best = n.Score
			}
		}
	}
	return best
}

func (s *RecommendationService) trendingFallback(ctx context.Context, rated map[string]bool, limit int) []models.RecommendedMovie {
	out := make([]models.RecommendedMovie, 0, limit)
	for _, c := range s.catalog.Trending(ctx, 1) {
		if rated[c.ID] {
			continue
		}
		out = append(out, models.RecommendedMovie{
			MovieSummary: c,
			Reason:       "요즘 많은 분들이 보고 있어요",
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}

func ratedIDSet(ratings []models.Rating) map[string]bool {
	set := make(map[string]bool, len(ratings))
	for _, r := range ratings {
		set[r.MovieID] = true
	}
	return set
}

func positiveRatings(ratings []models.Rating) []models.Rating {
	var out []models.Rating
	for _, r := range ratings {
		if r.Rating >= positiveRatingFloor {
			out = append(out, r)
		}
	}
	return out
}

func firstSharedGenre(genres []string, liked map[string]bool) string {
	for _, g := range genres {
		if liked[g] {
			return g
		}
	}
	return ""
}
