package catalog

import (
	"context"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"movie-personalization-service/internal/kobis"
	"movie-personalization-service/internal/models"
	"movie-personalization-service/internal/tmdb"
)

// BoxOfficeAPI is the box office provider surface the adapter consumes.
type BoxOfficeAPI interface {
	DailyBoxOffice(ctx context.Context) ([]kobis.BoxOfficeMovie, error)
	MovieInfo(ctx context.Context, movieCd string) (*kobis.MovieInfo, error)
	SearchPeople(ctx context.Context, name string) ([]kobis.Person, error)
	PersonInfo(ctx context.Context, peopleCd string) (*kobis.PersonInfo, error)
}

// CatalogAPI is the global catalog provider surface the adapter consumes.
type CatalogAPI interface {
	DiscoverByGenre(ctx context.Context, genreID, page int) ([]tmdb.Movie, error)
	Popular(ctx context.Context, page int) ([]tmdb.Movie, error)
	Trending(ctx context.Context, timeWindow string, page int) ([]tmdb.Movie, error)
	NowPlaying(ctx context.Context, page int) ([]tmdb.Movie, error)
	TopRated(ctx context.Context, page int) ([]tmdb.Movie, error)
	SearchMovies(ctx context.Context, query, year string) ([]tmdb.Movie, error)
	SearchPerson(ctx context.Context, name string) (*tmdb.Person, error)
	GetMovieDetail(ctx context.Context, tmdbID int) (*tmdb.MovieDetail, error)
	GetCredits(ctx context.Context, tmdbID int) (*tmdb.Credits, error)
	GetWatchProviders(ctx context.Context, tmdbID int) (*tmdb.WatchProviders, error)
	GetGenres(ctx context.Context) ([]tmdb.Genre, error)
}

// Adapter normalizes both external providers into the internal movie
// shapes. All provider failures are reduced to nil/empty results at
// this boundary: callers see "no data", never transport errors. A
// single failed call is final; there is no retry.
type Adapter struct {
	boxOffice BoxOfficeAPI
	catalog   CatalogAPI
}

// NewAdapter creates a catalog adapter over the two providers.
func NewAdapter(boxOffice BoxOfficeAPI, catalog CatalogAPI) *Adapter {
	return &Adapter{boxOffice: boxOffice, catalog: catalog}
}

// IsBoxOfficeID reports whether an id belongs to the box office
// provider namespace. Its codes are fully numeric and longer than 7
// digits; shorter numeric ids belong to the global catalog. This is a
// format heuristic with known false-positive potential.
func IsBoxOfficeID(id string) bool {
	if len(id) <= 7 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ---- Popularity lists ----

// DailyBoxOffice returns the ranked national daily box office list.
func (a *Adapter) DailyBoxOffice(ctx context.Context) []models.BoxOfficeEntry {
	raw, err := a.boxOffice.DailyBoxOffice(ctx)
	if err != nil {
		slog.Warn("box office fetch failed", "error", err)
		return nil
	}

	entries := make([]models.BoxOfficeEntry, 0, len(raw))
	for _, m := range raw {
		rank, _ := strconv.Atoi(m.Rank)
		audiAcc, _ := strconv.Atoi(m.AudiAcc)
		audiCnt, _ := strconv.Atoi(m.AudiCnt)
		entries = append(entries, models.BoxOfficeEntry{
			ID:                 m.MovieCd,
			Rank:               rank,
			Title:              m.MovieNm,
			ReleaseDate:        m.OpenDt,
			CumulativeAudience: audiAcc,
			DailyAudience:      audiCnt,
			NationCode:         m.RepNationCd,
		})
	}
	return entries
}

// Trending returns the weekly trending list page.
func (a *Adapter) Trending(ctx context.Context, page int) []models.MovieSummary {
	raw, err := a.catalog.Trending(ctx, "week", page)
	if err != nil {
		slog.Warn("trending fetch failed", "page", page, "error", err)
		return nil
	}
	return summaries(raw)
}

// NowPlaying returns the now-playing list page.
func (a *Adapter) NowPlaying(ctx context.Context, page int) []models.MovieSummary {
	raw, err := a.catalog.NowPlaying(ctx, page)
	if err != nil {
		slog.Warn("now playing fetch failed", "page", page, "error", err)
		return nil
	}
	return summaries(raw)
}

// TopRated returns the top-rated list page.
func (a *Adapter) TopRated(ctx context.Context, page int) []models.MovieSummary {
	raw, err := a.catalog.TopRated(ctx, page)
	if err != nil {
		slog.Warn("top rated fetch failed", "page", page, "error", err)
		return nil
	}
	return summaries(raw)
}

// PopularRecords returns the popular list page as normalized records
// (the catalog seeding pool). Genre ids are resolved to display names
// through the static taxonomy so seeded rows carry usable features.
func (a *Adapter) PopularRecords(ctx context.Context, page int) []models.MovieRecord {
	raw, err := a.catalog.Popular(ctx, page)
	if err != nil {
		slog.Warn("popular fetch failed", "page", page, "error", err)
		return nil
	}

	records := make([]models.MovieRecord, 0, len(raw))
	for _, m := range raw {
		if m.PosterPath == "" {
			continue
		}
		rec := models.MovieRecord{
			ID:          strconv.Itoa(m.ID),
			Title:       m.Title,
			ReleaseDate: m.ReleaseDate,
			Synopsis:    m.Overview,
			PosterURL:   tmdb.ImageURL(m.PosterPath, "w500"),
			BackdropURL: tmdb.ImageURL(m.BackdropPath, "w780"),
			VoteAverage: m.VoteAverage,
			Popularity:  m.Popularity,
		}
		if rec.Synopsis == "" {
			rec.Synopsis = models.PlaceholderSynopsis
		}
		for _, gid := range m.GenreIDs {
			if name := GenreNameByID(gid); name != "기타" {
				rec.Genres = append(rec.Genres, name)
			}
		}
		rec.Normalize()
		records = append(records, rec)
	}
	return records
}

// MoviesByGenre returns a popularity-ordered genre page.
func (a *Adapter) MoviesByGenre(ctx context.Context, genreID, page int) []models.MovieSummary {
	raw, err := a.catalog.DiscoverByGenre(ctx, genreID, page)
	if err != nil {
		slog.Warn("genre page fetch failed", "genre_id", genreID, "page", page, "error", err)
		return nil
	}
	return summaries(raw)
}

// SearchMovies searches the catalog by title.
func (a *Adapter) SearchMovies(ctx context.Context, query string) []models.MovieSummary {
	raw, err := a.catalog.SearchMovies(ctx, query, "")
	if err != nil {
		slog.Warn("movie search failed", "query", query, "error", err)
		return nil
	}
	return summaries(raw)
}

// Genres returns the catalog genre taxonomy.
func (a *Adapter) Genres(ctx context.Context) []models.Genre {
	raw, err := a.catalog.GetGenres(ctx)
	if err != nil {
		slog.Warn("genre taxonomy fetch failed", "error", err)
		return nil
	}
	genres := make([]models.Genre, 0, len(raw))
	for _, g := range raw {
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Name})
	}
	return genres
}

// ---- Detail lookups ----

// FetchDetails resolves a movie id from either provider namespace into
// one normalized record. Returns nil when neither provider knows the id.
func (a *Adapter) FetchDetails(ctx context.Context, id string) *models.MovieRecord {
	if IsBoxOfficeID(id) {
		if rec := a.boxOfficeDetails(ctx, id); rec != nil {
			return rec
		}
		// Fall through: the heuristic can misfire on long catalog ids.
	}
	tmdbID, err := strconv.Atoi(id)
	if err != nil {
		return nil
	}
	return a.catalogDetails(ctx, tmdbID)
}

// boxOfficeDetails fetches a movie from the box office provider and
// enriches it best-effort with catalog art and synopsis via fuzzy
// title+year search.
func (a *Adapter) boxOfficeDetails(ctx context.Context, movieCd string) *models.MovieRecord {
	info, err := a.boxOffice.MovieInfo(ctx, movieCd)
	if err != nil || info == nil || info.MovieNm == "" {
		if err != nil {
			slog.Warn("box office detail fetch failed", "movie_cd", movieCd, "error", err)
		}
		return nil
	}

	rec := &models.MovieRecord{
		ID:          movieCd,
		Title:       info.MovieNm,
		ReleaseDate: info.OpenDt,
		Synopsis:    models.PlaceholderSynopsis,
	}
	if rt, err := strconv.Atoi(info.ShowTm); err == nil {
		rec.Runtime = &rt
	}
	for _, g := range info.Genres {
		if g.GenreNm != "" {
			rec.Genres = append(rec.Genres, g.GenreNm)
		}
	}
	for _, d := range info.Directors {
		if d.PeopleNm != "" {
			rec.Directors = append(rec.Directors, d.PeopleNm)
		}
	}
	for i, act := range info.Actors {
		if i >= 5 {
			break
		}
		if act.PeopleNm != "" {
			rec.Actors = append(rec.Actors, act.PeopleNm)
		}
	}

	// Best-effort art enrichment. The first search hit is trusted
	// without verification, so a mismatch is possible.
	year := ""
	if len(info.OpenDt) >= 4 {
		year = info.OpenDt[:4]
	}
	if match := a.searchFirst(ctx, info.MovieNm, year); match != nil {
		if detail, err := a.catalog.GetMovieDetail(ctx, match.ID); err == nil && detail != nil {
			rec.PosterURL = tmdb.ImageURL(detail.PosterPath, "w500")
			rec.BackdropURL = tmdb.ImageURL(detail.BackdropPath, "w780")
			if detail.Overview != "" {
				rec.Synopsis = detail.Overview
			}
		}
	}

	rec.Normalize()
	return rec
}

// catalogDetails fetches details, credits and watch providers for a
// catalog id concurrently. A failed branch leaves its fields empty;
// only a failed details branch makes the whole lookup come back empty.
func (a *Adapter) catalogDetails(ctx context.Context, tmdbID int) *models.MovieRecord {
	var (
		detail    *tmdb.MovieDetail
		credits   *tmdb.Credits
		providers *tmdb.WatchProviders
		wg        sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		d, err := a.catalog.GetMovieDetail(ctx, tmdbID)
		if err != nil {
			slog.Warn("catalog detail fetch failed", "tmdb_id", tmdbID, "error", err)
			return
		}
		detail = d
	}()
	go func() {
		defer wg.Done()
		cr, err := a.catalog.GetCredits(ctx, tmdbID)
		if err != nil {
			slog.Warn("credits fetch failed", "tmdb_id", tmdbID, "error", err)
			return
		}
		credits = cr
	}()
	go func() {
		defer wg.Done()
		wp, err := a.catalog.GetWatchProviders(ctx, tmdbID)
		if err != nil {
			slog.Warn("watch providers fetch failed", "tmdb_id", tmdbID, "error", err)
			return
		}
		providers = wp
	}()
	wg.Wait()

	if detail == nil {
		return nil
	}

	rec := &models.MovieRecord{
		ID:          strconv.Itoa(tmdbID),
		Title:       detail.Title,
		ReleaseDate: detail.ReleaseDate,
		Synopsis:    detail.Overview,
		PosterURL:   tmdb.ImageURL(detail.PosterPath, "w500"),
		BackdropURL: tmdb.ImageURL(detail.BackdropPath, "w780"),
		VoteAverage: detail.VoteAverage,
		Popularity:  detail.Popularity,
	}
	if rec.Synopsis == "" {
		rec.Synopsis = models.PlaceholderSynopsis
	}
	if detail.Runtime > 0 {
		rt := detail.Runtime
		rec.Runtime = &rt
	}
	for _, g := range detail.Genres {
		rec.Genres = append(rec.Genres, g.Name)
	}

	if credits != nil {
		for _, p := range credits.Crew {
			if p.Job == "Director" {
				rec.Directors = append(rec.Directors, p.Name)
			}
		}
		for i, p := range credits.Cast {
			if i >= 5 {
				break
			}
			rec.Actors = append(rec.Actors, p.Name)
		}
	}

	if providers != nil {
		rec.WatchLink = providers.Link
		for _, p := range providers.Flatrate {
			rec.WatchProviders = append(rec.WatchProviders, models.WatchProvider{
				Name:    p.ProviderName,
				LogoURL: tmdb.ImageURL(p.LogoPath, "w500"),
			})
		}
	}

	rec.Normalize()
	return rec
}

// SearchByTitle returns the first catalog match for a title and
// optional release year, or nil when nothing matched.
func (a *Adapter) SearchByTitle(ctx context.Context, title, year string) *models.MovieSummary {
	match := a.searchFirst(ctx, title, year)
	if match == nil {
		return nil
	}
	s := summarize(*match)
	return &s
}

// SearchPersonID resolves a person name to a box office provider
// person id, best-effort.
func (a *Adapter) SearchPersonID(ctx context.Context, name string) string {
	people, err := a.boxOffice.SearchPeople(ctx, name)
	if err != nil {
		slog.Warn("person search failed", "name", name, "error", err)
		return ""
	}
	for _, p := range people {
		if p.PeopleNm == name {
			return p.PeopleCd
		}
	}
	if len(people) > 0 {
		return people[0].PeopleCd
	}
	return ""
}

// SearchPersonProfileURL resolves a person name to catalog profile art.
func (a *Adapter) SearchPersonProfileURL(ctx context.Context, name string) string {
	person, err := a.catalog.SearchPerson(ctx, name)
	if err != nil {
		slog.Warn("catalog person search failed", "name", name, "error", err)
		return ""
	}
	if person == nil {
		return ""
	}
	return tmdb.ImageURL(person.ProfilePath, "w500")
}

// PersonDetails returns a person's record and filmography by box
// office provider person code. Profile art is enriched best-effort
// from the global catalog.
func (a *Adapter) PersonDetails(ctx context.Context, personID string) *models.PersonDetail {
	info, err := a.boxOffice.PersonInfo(ctx, personID)
	if err != nil {
		slog.Warn("person detail fetch failed", "person_id", personID, "error", err)
		return nil
	}
	if info == nil {
		return nil
	}

	filmography := make([]models.MovieSummary, 0, len(info.Filmos))
	for _, f := range info.Filmos {
		filmography = append(filmography, models.MovieSummary{
			ID:    f.MovieCd,
			Title: f.MovieNm,
		})
	}
	return &models.PersonDetail{
		ID:          info.PeopleCd,
		Name:        info.PeopleNm,
		Role:        info.RepRoleNm,
		ProfileURL:  a.SearchPersonProfileURL(ctx, info.PeopleNm),
		Filmography: filmography,
	}
}

// BoxOfficeMovieInfo returns raw provider-A details for weekly people
// analysis (directors and top cast with person codes).
func (a *Adapter) BoxOfficeMovieInfo(ctx context.Context, movieCd string) *kobis.MovieInfo {
	info, err := a.boxOffice.MovieInfo(ctx, movieCd)
	if err != nil {
		slog.Warn("box office detail fetch failed", "movie_cd", movieCd, "error", err)
		return nil
	}
	return info
}

// ---- Onboarding ----

const onboardingPerGenre = 3

// OnboardingCandidates collects popular movies across the mood's genre
// spread for the taste onboarding deck. Genre pages are fetched
// concurrently; a failed page is skipped. The result order is shuffled
// with the supplied source.
func (a *Adapter) OnboardingCandidates(ctx context.Context, mood string, rng *rand.Rand) []models.OnboardingMovie {
	genreIDs := DefaultOnboardingGenres
	if mood != "" {
		if ids, ok := MoodGenreMap[mood]; ok {
			genreIDs = ids
		}
	}

	type pageResult struct {
		genreID int
		movies  []tmdb.Movie
	}
	results := make([]pageResult, len(genreIDs))

	var wg sync.WaitGroup
	for i, genreID := range genreIDs {
		wg.Add(1)
		go func(i, genreID int) {
			defer wg.Done()
			movies, err := a.catalog.DiscoverByGenre(ctx, genreID, 1)
			if err != nil {
				slog.Warn("onboarding genre fetch failed", "genre_id", genreID, "error", err)
				return
			}
			results[i] = pageResult{genreID: genreID, movies: movies}
		}(i, genreID)
	}
	wg.Wait()

	var candidates []models.OnboardingMovie
	seen := make(map[int]bool)
	for _, res := range results {
		name := GenreNameByID(res.genreID)
		picked := 0
		for _, m := range res.movies {
			if picked >= onboardingPerGenre {
				break
			}
			if m.PosterPath == "" || seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			candidates = append(candidates, models.OnboardingMovie{
				MovieID:   strconv.Itoa(m.ID),
				Title:     m.Title,
				PosterURL: tmdb.ImageURL(m.PosterPath, "w500"),
				GenreName: name,
			})
			picked++
		}
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates
}

// DetailsForIDs fetches display details for a batch of catalog ids
// concurrently, skipping ids that fail or lack poster art.
func (a *Adapter) DetailsForIDs(ctx context.Context, ids []string) []models.OnboardingMovie {
	details := make([]*tmdb.MovieDetail, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		tmdbID, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		wg.Add(1)
		go func(i, tmdbID int) {
			defer wg.Done()
			d, err := a.catalog.GetMovieDetail(ctx, tmdbID)
			if err != nil {
				slog.Warn("batch detail fetch failed", "tmdb_id", tmdbID, "error", err)
				return
			}
			details[i] = d
		}(i, tmdbID)
	}
	wg.Wait()

	var out []models.OnboardingMovie
	for _, d := range details {
		if d == nil || d.PosterPath == "" {
			continue
		}
		genreName := "기타"
		if len(d.Genres) > 0 {
			genreName = d.Genres[0].Name
		}
		out = append(out, models.OnboardingMovie{
			MovieID:   strconv.Itoa(d.ID),
			Title:     d.Title,
			PosterURL: tmdb.ImageURL(d.PosterPath, "w500"),
			GenreName: genreName,
		})
	}
	return out
}

// ---- helpers ----

func (a *Adapter) searchFirst(ctx context.Context, title, year string) *tmdb.Movie {
	results, err := a.catalog.SearchMovies(ctx, strings.TrimSpace(title), year)
	if err != nil {
		slog.Warn("title search failed", "title", title, "error", err)
		return nil
	}
	if len(results) == 0 {
		return nil
	}
	return &results[0]
}

// summaries keeps only entries with poster art, matching the display
// contract of the list surfaces.
func summaries(raw []tmdb.Movie) []models.MovieSummary {
	out := make([]models.MovieSummary, 0, len(raw))
	for _, m := range raw {
		if m.PosterPath == "" {
			continue
		}
		out = append(out, summarize(m))
	}
	return out
}

func summarize(m tmdb.Movie) models.MovieSummary {
	return models.MovieSummary{
		ID:          strconv.Itoa(m.ID),
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		Overview:    m.Overview,
		PosterURL:   tmdb.ImageURL(m.PosterPath, "w500"),
		VoteAverage: m.VoteAverage,
	}
}
