package kobis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client is the KOBIS open API client (daily box office and movie/people
// metadata for the national theatrical market).
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new KOBIS API client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- KOBIS Response Types ----

// BoxOfficeMovie is one row of the daily box office ranking. KOBIS
// serializes every numeric field as a string.
type BoxOfficeMovie struct {
	MovieCd     string `json:"movieCd"`
	MovieNm     string `json:"movieNm"`
	Rank        string `json:"rank"`
	AudiAcc     string `json:"audiAcc"`
	AudiCnt     string `json:"audiCnt"`
	OpenDt      string `json:"openDt"`
	RepNationCd string `json:"repNationCd"`
}

type boxOfficeResponse struct {
	BoxOfficeResult struct {
		DailyBoxOfficeList []BoxOfficeMovie `json:"dailyBoxOfficeList"`
	} `json:"boxOfficeResult"`
}

// NamedCode is the {name} or {name, code} pair KOBIS uses for genres,
// nations, directors and actors.
type NamedCode struct {
	GenreNm  string `json:"genreNm,omitempty"`
	PeopleNm string `json:"peopleNm,omitempty"`
	PeopleCd string `json:"peopleCd,omitempty"`
	NationNm string `json:"nationNm,omitempty"`
}

// MovieInfo is the detailed movie record from KOBIS.
type MovieInfo struct {
	MovieCd   string      `json:"movieCd"`
	MovieNm   string      `json:"movieNm"`
	OpenDt    string      `json:"openDt"`
	ShowTm    string      `json:"showTm"`
	Genres    []NamedCode `json:"genres"`
	Directors []NamedCode `json:"directors"`
	Actors    []NamedCode `json:"actors"`
	Nations   []NamedCode `json:"nations"`
}

type movieInfoResponse struct {
	MovieInfoResult struct {
		MovieInfo *MovieInfo `json:"movieInfo"`
	} `json:"movieInfoResult"`
}

// Person is one row of a people search result.
type Person struct {
	PeopleCd  string `json:"peopleCd"`
	PeopleNm  string `json:"peopleNm"`
	RepRoleNm string `json:"repRoleNm"`
}

type peopleListResponse struct {
	PeopleListResult struct {
		PeopleList []Person `json:"peopleList"`
	} `json:"peopleListResult"`
}

// Filmo is one filmography entry of a person.
type Filmo struct {
	MovieCd string `json:"movieCd"`
	MovieNm string `json:"movieNm"`
}

// PersonInfo is the detailed person record from KOBIS.
type PersonInfo struct {
	PeopleCd  string  `json:"peopleCd"`
	PeopleNm  string  `json:"peopleNm"`
	RepRoleNm string  `json:"repRoleNm"`
	Filmos    []Filmo `json:"filmos"`
}

type personInfoResponse struct {
	PeopleInfoResult struct {
		PeopleInfo *PersonInfo `json:"peopleInfo"`
	} `json:"peopleInfoResult"`
}

// ---- Client Methods ----

// DailyBoxOffice fetches the ranked daily box office list. The figures
// are aggregated a day behind, so yesterday's date is queried.
func (c *Client) DailyBoxOffice(ctx context.Context) ([]BoxOfficeMovie, error) {
	targetDt := time.Now().AddDate(0, 0, -1).Format("20060102")
	q := url.Values{
		"key":         {c.apiKey},
		"targetDt":    {targetDt},
		"itemPerPage": {"10"},
	}

	slog.Debug("fetching KOBIS daily box office", "target_dt", targetDt)
	var result boxOfficeResponse
	if err := c.doGet(ctx, "/boxoffice/searchDailyBoxOfficeList.json", q, &result); err != nil {
		return nil, err
	}
	return result.BoxOfficeResult.DailyBoxOfficeList, nil
}

// MovieInfo fetches detailed info for a movie code.
func (c *Client) MovieInfo(ctx context.Context, movieCd string) (*MovieInfo, error) {
	if movieCd == "" {
		return nil, fmt.Errorf("empty movie code")
	}
	q := url.Values{
		"key":     {c.apiKey},
		"movieCd": {movieCd},
	}

	slog.Debug("fetching KOBIS movie info", "movie_cd", movieCd)
	var result movieInfoResponse
	if err := c.doGet(ctx, "/movie/searchMovieInfo.json", q, &result); err != nil {
		return nil, err
	}
	return result.MovieInfoResult.MovieInfo, nil
}

// SearchPeople searches people by name and returns the matches.
func (c *Client) SearchPeople(ctx context.Context, name string) ([]Person, error) {
	q := url.Values{
		"key":      {c.apiKey},
		"peopleNm": {name},
	}

	var result peopleListResponse
	if err := c.doGet(ctx, "/people/searchPeopleList.json", q, &result); err != nil {
		return nil, err
	}
	return result.PeopleListResult.PeopleList, nil
}

// PersonInfo fetches detailed info and filmography for a person code.
func (c *Client) PersonInfo(ctx context.Context, peopleCd string) (*PersonInfo, error) {
	q := url.Values{
		"key":      {c.apiKey},
		"peopleCd": {peopleCd},
	}

	var result personInfoResponse
	if err := c.doGet(ctx, "/people/searchPeopleInfo.json", q, &result); err != nil {
		return nil, err
	}
	return result.PeopleInfoResult.PeopleInfo, nil
}

func (c *Client) doGet(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("KOBIS API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode KOBIS response: %w", err)
	}
	return nil
}
