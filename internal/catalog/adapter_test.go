package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-personalization-service/internal/kobis"
	"movie-personalization-service/internal/tmdb"
)

func TestIsBoxOfficeID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"20124079", true},
		{"202500001", true},
		{"550", false},
		{"1234567", false},
		{"12345678a", false},
		{"tt0111161", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsBoxOfficeID(tt.id), "id %q", tt.id)
	}
}

// stubBoxOfficeAPI cans provider-A responses per method.
type stubBoxOfficeAPI struct {
	personInfo    *kobis.PersonInfo
	personInfoErr error
}

func (s *stubBoxOfficeAPI) DailyBoxOffice(ctx context.Context) ([]kobis.BoxOfficeMovie, error) {
	return nil, nil
}

func (s *stubBoxOfficeAPI) MovieInfo(ctx context.Context, movieCd string) (*kobis.MovieInfo, error) {
	return nil, nil
}

func (s *stubBoxOfficeAPI) SearchPeople(ctx context.Context, name string) ([]kobis.Person, error) {
	return nil, nil
}

func (s *stubBoxOfficeAPI) PersonInfo(ctx context.Context, peopleCd string) (*kobis.PersonInfo, error) {
	return s.personInfo, s.personInfoErr
}

// stubCatalogAPI cans provider-B responses per method.
type stubCatalogAPI struct {
	person *tmdb.Person
}

func (s *stubCatalogAPI) DiscoverByGenre(ctx context.Context, genreID, page int) ([]tmdb.Movie, error) {
	return nil, nil
}

func (s *stubCatalogAPI) Popular(ctx context.Context, page int) ([]tmdb.Movie, error) {
	return nil, nil
}

func (s *stubCatalogAPI) Trending(ctx context.Context, timeWindow string, page int) ([]tmdb.Movie, error) {
	return nil, nil
}

func (s *stubCatalogAPI) NowPlaying(ctx context.Context, page int) ([]tmdb.Movie, error) {
	return nil, nil
}

func (s *stubCatalogAPI) TopRated(ctx context.Context, page int) ([]tmdb.Movie, error) {
	return nil, nil
}

func (s *stubCatalogAPI) SearchMovies(ctx context.Context, query, year string) ([]tmdb.Movie, error) {
	return nil, nil
}

func (s *stubCatalogAPI) SearchPerson(ctx context.Context, name string) (*tmdb.Person, error) {
	return s.person, nil
}

func (s *stubCatalogAPI) GetMovieDetail(ctx context.Context, tmdbID int) (*tmdb.MovieDetail, error) {
	return nil, nil
}

func (s *stubCatalogAPI) GetCredits(ctx context.Context, tmdbID int) (*tmdb.Credits, error) {
	return nil, nil
}

func (s *stubCatalogAPI) GetWatchProviders(ctx context.Context, tmdbID int) (*tmdb.WatchProviders, error) {
	return nil, nil
}

func (s *stubCatalogAPI) GetGenres(ctx context.Context) ([]tmdb.Genre, error) {
	return nil, nil
}

func TestPersonDetailsMapsFilmography(t *testing.T) {
	boxOffice := &stubBoxOfficeAPI{
		personInfo: &kobis.PersonInfo{
			PeopleCd:  "10000001",
			PeopleNm:  "송강호",
			RepRoleNm: "배우",
			Filmos: []kobis.Filmo{
				{MovieCd: "20100001", MovieNm: "영화 하나"},
				{MovieCd: "20100002", MovieNm: "영화 둘"},
			},
		},
	}
	cat := &stubCatalogAPI{person: &tmdb.Person{Name: "송강호", ProfilePath: "/p.jpg"}}

	a := NewAdapter(boxOffice, cat)

	got := a.PersonDetails(context.Background(), "10000001")
	require.NotNil(t, got)
	assert.Equal(t, "10000001", got.ID)
	assert.Equal(t, "송강호", got.Name)
	assert.Equal(t, "배우", got.Role)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/p.jpg", got.ProfileURL)
	require.Len(t, got.Filmography, 2)
	assert.Equal(t, "20100001", got.Filmography[0].ID)
	assert.Equal(t, "영화 하나", got.Filmography[0].Title)
}

func TestPersonDetailsReducesFailuresToNil(t *testing.T) {
	a := NewAdapter(&stubBoxOfficeAPI{personInfoErr: errors.New("timeout")}, &stubCatalogAPI{})
	assert.Nil(t, a.PersonDetails(context.Background(), "10000001"))

	a = NewAdapter(&stubBoxOfficeAPI{}, &stubCatalogAPI{})
	assert.Nil(t, a.PersonDetails(context.Background(), "10000099"))
}
