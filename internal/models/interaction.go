package models

import "time"

// Rating is a user's 1-5 score for a movie. At most one row exists per
// (user, movie) pair; repeat ratings overwrite.
type Rating struct {
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Source    string    `json:"source,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Like marks a movie as saved by a user.
type Like struct {
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RateRequest is the request body for creating or updating a rating.
type RateRequest struct {
	MovieID string `json:"movie_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
	Source  string `json:"source,omitempty"`
}

// ActivityStatus summarizes a user's recorded activity for one movie.
type ActivityStatus struct {
	UserRating *int   `json:"user_rating"`
	IsLiked    bool   `json:"is_liked"`
	Comment    string `json:"comment,omitempty"`
}

// RatedMovie pairs a rating with its movie's display fields.
type RatedMovie struct {
	MovieID   string `json:"movie_id"`
	Title     string `json:"title"`
	PosterURL string `json:"poster_url,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// LikedMovie is a liked movie's display entry.
type LikedMovie struct {
	MovieID   string `json:"movie_id"`
	Title     string `json:"title"`
	PosterURL string `json:"poster_url,omitempty"`
}
