package service

import (
	"context"
	"log/slog"
	"sync"

	"movie-personalization-service/internal/cache"
	"movie-personalization-service/internal/kobis"
	"movie-personalization-service/internal/models"
)

const (
	weeklyPersonMovieCount = 5
	weeklyPersonActorCount = 3
)

// PeopleService surfaces film people: the weekly spotlight and
// per-person detail lookups.
type PeopleService struct {
	catalog Catalog
	lists   *cache.ListCache
}

func NewPeopleService(cat Catalog, lists *cache.ListCache) *PeopleService {
	return &PeopleService{catalog: cat, lists: lists}
}

// WeeklyPopularPerson finds the director or top-billed actor credited
// across the most movies in today's box office top five. Credits come
// from the raw box office details, which carry the provider person
// code; a name search is the fallback when no code was listed. The
// result is snapshot cached until it goes stale.
func (s *PeopleService) WeeklyPopularPerson(ctx context.Context) *models.WeeklyPopularPerson {
	if cached := cache.Lookup[models.WeeklyPopularPerson](s.lists, models.ListWeeklyPerson, cache.TTLVolatile); cached != nil {
		return cached
	}

	entries := s.catalog.DailyBoxOffice(ctx)
	if len(entries) > weeklyPersonMovieCount {
		entries = entries[:weeklyPersonMovieCount]
	}
	if len(entries) == 0 {
		return nil
	}

	// Detail fetches are independent, run them together.
	infos := make([]*kobis.MovieInfo, len(entries))
	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			infos[i] = s.catalog.BoxOfficeMovieInfo(ctx, id)
		}(i, e.ID)
	}
	wg.Wait()

	credits := newCounter()
	codes := make(map[string]string)
	appearances := make(map[string][]models.MovieSummary)
	for i, info := range infos {
		if info == nil {
			continue
		}
		summary := models.MovieSummary{
			ID:        entries[i].ID,
			Title:     entries[i].Title,
			PosterURL: entries[i].PosterURL,
		}
		actors := info.Actors
		if len(actors) > weeklyPersonActorCount {
			actors = actors[:weeklyPersonActorCount]
		}
		people := make([]kobis.NamedCode, 0, len(info.Directors)+len(actors))
		people = append(people, info.Directors...)
		people = append(people, actors...)
		for _, p := range people {
			credits.add(p.PeopleNm, 1)
			appearances[p.PeopleNm] = append(appearances[p.PeopleNm], summary)
			if p.PeopleCd != "" {
				codes[p.PeopleNm] = p.PeopleCd
			}
		}
	}

	top := credits.top(1)
	if len(top) == 0 {
		return nil
	}
	name := top[0]

	id := codes[name]
	if id == "" {
		id = s.catalog.SearchPersonID(ctx, name)
	}

	person := &models.WeeklyPopularPerson{
		ID:            id,
		Name:          name,
		ProfileURL:    s.catalog.SearchPersonProfileURL(ctx, name),
		RelatedMovies: appearances[name],
	}
	if err := cache.Put(s.lists, models.ListWeeklyPerson, person); err != nil {
		slog.Error("failed to cache weekly popular person", "error", err)
	}
	return person
}

// PersonDetails returns one person's record and filmography.
func (s *PeopleService) PersonDetails(ctx context.Context, personID string) *models.PersonDetail {
	return s.catalog.PersonDetails(ctx, personID)
}
