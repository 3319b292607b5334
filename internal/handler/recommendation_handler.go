package handler

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"movie-personalization-service/internal/middleware"
	"movie-personalization-service/internal/service"
)

// RecommendationHandler handles HTTP requests for personalized lists.
type RecommendationHandler struct {
	svc *service.RecommendationService
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(svc *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// Home returns the personalized home shelf.
// @Summary Home recommendations
// @Tags recommendations
// @Produce json
// @Param mood query string false "Comma-separated mood keywords"
// @Param limit query int false "Max results" default(10)
// @Param X-User-ID header string false "User UUID"
// @Success 200 {array} models.RecommendedMovie
// @Failure 500 {object} ErrorResponse
// @Router /recommendations/home [get]
func (h *RecommendationHandler) Home(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	limit := fiber.Query(c, "limit", 10)

	var moods []string
	for _, m := range strings.Split(c.Query("mood"), ",") {
		if m = strings.TrimSpace(m); m != "" {
			moods = append(moods, m)
		}
	}

	result, err := h.svc.HomeRecommendations(c.Context(), userID, moods, limit)
	if err != nil {
		slog.Error("failed to build home recommendations", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to build recommendations",
		})
	}
	return c.JSON(result)
}

// ByGenre returns movies from the user's preferred genre.
// @Summary Preferred genre recommendations
// @Tags recommendations
// @Produce json
// @Param limit query int false "Max results" default(10)
// @Param X-User-ID header string false "User UUID"
// @Success 200 {array} models.RecommendedMovie
// @Failure 500 {object} ErrorResponse
// @Router /recommendations/genre [get]
func (h *RecommendationHandler) ByGenre(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	limit := fiber.Query(c, "limit", 10)

	result, err := h.svc.GenreRecommendations(c.Context(), userID, limit)
	if err != nil {
		slog.Error("failed to build genre recommendations", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to build recommendations",
		})
	}
	return c.JSON(result)
}

// Similar returns content-similar movies for one movie.
// @Summary Similar movies
// @Tags recommendations
// @Produce json
// @Param id path string true "Movie ID"
// @Param limit query int false "Max results" default(10)
// @Success 200 {array} models.RecommendedMovie
// @Failure 500 {object} ErrorResponse
// @Router /movies/{id}/similar [get]
func (h *RecommendationHandler) Similar(c fiber.Ctx) error {
	movieID := c.Params("id")
	limit := fiber.Query(c, "limit", 10)

	result, err := h.svc.SimilarMovies(c.Context(), movieID, limit)
	if err != nil {
		slog.Error("failed to get similar movies", "movie_id", movieID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to retrieve similar movies",
		})
	}
	return c.JSON(result)
}
