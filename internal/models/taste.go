package models

// PersonRef names a director or actor, with a best-effort resolved
// provider person id when a name search found one.
type PersonRef struct {
	Name     string `json:"name"`
	PersonID string `json:"person_id,omitempty"`
}

// TasteReport is the descriptive taste analysis for one user.
type TasteReport struct {
	TasteTitle   string      `json:"taste_title"`
	TotalRatings int         `json:"total_ratings"`
	// Histogram[i] counts ratings with value i+1.
	Histogram    [5]int      `json:"rating_histogram"`
	TopGenres    []string    `json:"top_genres"`
	TopActors    []PersonRef `json:"top_actors"`
	TopDirectors []PersonRef `json:"top_directors"`
	PreferredEra string      `json:"preferred_era,omitempty"`
	// Sufficient is false when the user has fewer qualifying ratings
	// than the analysis threshold; the rest of the report is then empty.
	Sufficient bool `json:"sufficient"`
}

// WeeklyPopularPerson is the most-featured person across the current
// top box office movies.
type WeeklyPopularPerson struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ProfileURL    string         `json:"profile_url,omitempty"`
	RelatedMovies []MovieSummary `json:"related_movies"`
}

// PersonDetail is one film person's record with filmography, keyed by
// the box office provider's person code.
type PersonDetail struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Role        string         `json:"role,omitempty"`
	ProfileURL  string         `json:"profile_url,omitempty"`
	Filmography []MovieSummary `json:"filmography"`
}
