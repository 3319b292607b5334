package handler

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"movie-personalization-service/internal/repository"
	"movie-personalization-service/internal/service"
)

// MovieHandler handles HTTP requests for catalog browsing and details.
type MovieHandler struct {
	svc *service.MovieService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc *service.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MovieHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-personalization-service",
	})
}

// Trending returns the weekly trending list.
// @Summary Trending movies
// @Tags movies
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {array} models.MovieSummary
// @Router /movies/trending [get]
func (h *MovieHandler) Trending(c fiber.Ctx) error {
	page := fiber.Query(c, "page", 1)
	return c.JSON(h.svc.Trending(c.Context(), page))
}

// NowPlaying returns movies currently in theaters.
// @Summary Now playing movies
// @Tags movies
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {array} models.MovieSummary
// @Router /movies/now-playing [get]
func (h *MovieHandler) NowPlaying(c fiber.Ctx) error {
	page := fiber.Query(c, "page", 1)
	return c.JSON(h.svc.NowPlaying(c.Context(), page))
}

// TopRated returns the highest rated movies.
// @Summary Top rated movies
// @Tags movies
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {array} models.MovieSummary
// @Router /movies/top-rated [get]
func (h *MovieHandler) TopRated(c fiber.Ctx) error {
	page := fiber.Query(c, "page", 1)
	return c.JSON(h.svc.TopRated(c.Context(), page))
}

// ByGenre returns movies for one genre.
// @Summary Movies by genre
// @Tags movies
// @Produce json
// @Param id path int true "Genre ID"
// @Param page query int false "Page number" default(1)
// @Success 200 {array} models.MovieSummary
// @Failure 400 {object} ErrorResponse
// @Router /movies/genre/{id} [get]
func (h *MovieHandler) ByGenre(c fiber.Ctx) error {
	genreID := fiber.Params[int](c, "id")
	if genreID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid genre ID",
		})
	}
	page := fiber.Query(c, "page", 1)
	return c.JSON(h.svc.MoviesByGenre(c.Context(), genreID, page))
}

// Genres returns the genre taxonomy.
// @Summary List genres
// @Tags movies
// @Produce json
// @Success 200 {array} models.Genre
// @Router /genres [get]
func (h *MovieHandler) Genres(c fiber.Ctx) error {
	return c.JSON(h.svc.GenreTaxonomy(c.Context()))
}

// BoxOffice returns the daily box office ranking.
// @Summary Daily box office
// @Tags movies
// @Produce json
// @Param sort_by query string false "Sort field" Enums(rank,audience) default(rank)
// @Success 200 {array} models.BoxOfficeEntry
// @Router /movies/box-office [get]
func (h *MovieHandler) BoxOffice(c fiber.Ctx) error {
	sortBy := c.Query("sort_by", "rank")
	entries := h.svc.BoxOffice(c.Context(), sortBy)
	if entries == nil {
		return c.JSON([]any{})
	}
	return c.JSON(entries)
}

// Search searches movies by title.
// @Summary Search movies
// @Tags movies
// @Produce json
// @Param query query string true "Search keyword"
// @Success 200 {array} models.MovieSummary
// @Failure 400 {object} ErrorResponse
// @Router /movies/search [get]
func (h *MovieHandler) Search(c fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query is required",
		})
	}
	return c.JSON(h.svc.Search(c.Context(), query))
}

// Random returns catalog movies in a page-stable random order.
// @Summary Random movie feed
// @Tags movies
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {array} models.MovieSummary
// @Failure 500 {object} ErrorResponse
// @Router /movies/random [get]
func (h *MovieHandler) Random(c fiber.Ctx) error {
	page := fiber.Query(c, "page", 1)
	limit := fiber.Query(c, "limit", 20)

	movies, err := h.svc.RandomPage(c.Context(), page, limit)
	if err != nil {
		slog.Error("failed to build random page", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to retrieve movies",
		})
	}
	return c.JSON(movies)
}

// Detail returns the full record for one movie.
// @Summary Get movie detail
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID (box office code or catalog id)"
// @Success 200 {object} models.MovieRecord
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) Detail(c fiber.Ctx) error {
	id := c.Params("id")

	rec, err := h.svc.Details(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "movie not found",
			})
		}
		slog.Error("failed to get movie detail", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to retrieve movie details",
		})
	}
	return c.JSON(rec)
}

// Onboarding returns the taste onboarding candidate deck.
// @Summary Onboarding candidates
// @Tags onboarding
// @Produce json
// @Param mood query string false "Mood keyword"
// @Success 200 {array} models.OnboardingMovie
// @Router /onboarding/movies [get]
func (h *MovieHandler) Onboarding(c fiber.Ctx) error {
	mood := c.Query("mood")
	return c.JSON(h.svc.Onboarding(c.Context(), mood))
}

// DetailsByIDs returns display details for a batch of movie ids.
// @Summary Batch movie details
// @Tags movies
// @Produce json
// @Param ids query string true "Comma-separated movie ids"
// @Success 200 {array} models.OnboardingMovie
// @Failure 400 {object} ErrorResponse
// @Router /movies/batch [get]
func (h *MovieHandler) DetailsByIDs(c fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("ids"))
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "ids is required",
		})
	}

	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return c.JSON(h.svc.DetailsByIDs(c.Context(), ids))
}
