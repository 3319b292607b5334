package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"movie-personalization-service/internal/models"
)

const (
	// A taste report needs at least this many ratings to say anything.
	tasteMinRatings = 3

	tasteTopGenres    = 3
	tasteTopActors    = 5
	tasteTopDirectors = 3
)

// TasteService builds the descriptive taste analysis report from a
// user's rating history.
type TasteService struct {
	movies       MovieStore
	interactions InteractionStore
	catalog      Catalog
}

func NewTasteService(movies MovieStore, interactions InteractionStore, cat Catalog) *TasteService {
	return &TasteService{movies: movies, interactions: interactions, catalog: cat}
}

// Analyze produces the taste report. Below the rating threshold only
// the histogram and count are filled and Sufficient is false.
// Preference counters weight positively rated movies double, so a
// genre behind two 5-star ratings outranks one behind three 2-star
// ratings.
func (s *TasteService) Analyze(ctx context.Context, userID string) (*models.TasteReport, error) {
	ratings, err := s.interactions.ListRatings(userID)
	if err != nil {
		return nil, err
	}

	report := &models.TasteReport{
		TotalRatings: len(ratings),
		TopGenres:    []string{},
		TopActors:    []models.PersonRef{},
		TopDirectors: []models.PersonRef{},
	}
	for _, r := range ratings {
		if r.Rating >= 1 && r.Rating <= 5 {
			report.Histogram[r.Rating-1]++
		}
	}
	if len(ratings) < tasteMinRatings {
		return report, nil
	}
	report.Sufficient = true

	genres := newCounter()
	actors := newCounter()
	directors := newCounter()
	decades := newCounter()

	for _, r := range ratings {
		rec, err := s.movies.GetMovieByID(r.MovieID)
		if err != nil || rec == nil {
			continue
		}
		weight := 1
		if r.Rating >= positiveRatingFloor {
			weight = 2
		}
		for _, g := range rec.Genres {
			genres.add(g, weight)
		}
		for _, a := range rec.Actors {
			actors.add(a, weight)
		}
		for _, d := range rec.Directors {
			directors.add(d, weight)
		}
		if len(rec.ReleaseDate) >= 4 {
			if year, err := strconv.Atoi(rec.ReleaseDate[:4]); err == nil {
				decades.add(fmt.Sprintf("%d년대", year/10*10), weight)
			}
		}
	}

	report.TopGenres = genres.top(tasteTopGenres)
	for _, name := range actors.top(tasteTopActors) {
		report.TopActors = append(report.TopActors, models.PersonRef{
			Name:     name,
			PersonID: s.catalog.SearchPersonID(ctx, name),
		})
	}
	for _, name := range directors.top(tasteTopDirectors) {
		report.TopDirectors = append(report.TopDirectors, models.PersonRef{
			Name:     name,
			PersonID: s.catalog.SearchPersonID(ctx, name),
		})
	}
	if era := decades.top(1); len(era) > 0 {
		report.PreferredEra = era[0]
	}
	report.TasteTitle = tasteTitle(report.TopGenres, report.PreferredEra)
	return report, nil
}

func tasteTitle(topGenres []string, era string) string {
	if len(topGenres) == 0 {
		return "탐험을 시작한 영화 팬"
	}
	if era != "" {
		return fmt.Sprintf("%s %s 애호가", era, topGenres[0])
	}
	return fmt.Sprintf("%s 장르 애호가", topGenres[0])
}

// counter tallies weighted occurrences while remembering insertion
// order; ties rank by whichever key was seen first.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string, weight int) {
	if key == "" {
		return
	}
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += weight
}

func (c *counter) top(n int) []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
