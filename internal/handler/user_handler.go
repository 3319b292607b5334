package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"movie-personalization-service/internal/middleware"
	"movie-personalization-service/internal/models"
	"movie-personalization-service/internal/service"
)

// UserHandler handles HTTP requests for ratings, likes and the taste
// report.
type UserHandler struct {
	interactions *service.InteractionService
	taste        *service.TasteService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(interactions *service.InteractionService, taste *service.TasteService) *UserHandler {
	return &UserHandler{interactions: interactions, taste: taste}
}

// Rate records a 1-5 rating for a movie.
// @Summary Rate a movie
// @Tags users
// @Accept json
// @Produce json
// @Param X-User-ID header string false "User UUID"
// @Param body body models.RateRequest true "Rating payload"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/me/ratings [post]
func (h *UserHandler) Rate(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req models.RateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}

	if err := h.interactions.Rate(c.Context(), userID, req); err != nil {
		if errors.Is(err, service.ErrMissingMovieID) || errors.Is(err, service.ErrInvalidRating) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: err.Error(),
			})
		}
		slog.Error("failed to save rating", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to save rating",
		})
	}
	return c.JSON(fiber.Map{"message": "rating saved"})
}

// Ratings lists the user's rated movies.
// @Summary List rated movies
// @Tags users
// @Produce json
// @Param X-User-ID header string false "User UUID"
// @Success 200 {array} models.RatedMovie
// @Failure 500 {object} ErrorResponse
// @Router /users/me/ratings [get]
func (h *UserHandler) Ratings(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	result, err := h.interactions.RatedMovies(c.Context(), userID)
	if err != nil {
		slog.Error("failed to list ratings", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to retrieve ratings",
		})
	}
	return c.JSON(result)
}

// Like saves a movie to the user's liked list.
// @Summary Like a movie
// @Tags users
// @Produce json
// @Param id path string true "Movie ID"
// @Param X-User-ID header string false "User UUID"
// @Success 200 {object} map[string]string
// @Failure 500 {object} ErrorResponse
// @Router /users/me/likes/{id} [post]
func (h *UserHandler) Like(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	movieID := c.Params("id")

	if err := h.interactions.Like(c.Context(), userID, movieID); err != nil {
		slog.Error("failed to save like", "user_id", userID, "movie_id", movieID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to save like",
		})
	}
	return c.JSON(fiber.Map{"message": "movie liked"})
}

// Unlike removes a movie from the user's liked list.
// @Summary Unlike a movie
// @Tags users
// @Produce json
// @Param id path string true "Movie ID"
// @Param X-User-ID header string false "User UUID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/me/likes/{id} [delete]
func (h *UserHandler) Unlike(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	movieID := c.Params("id")

	removed, err := h.interactions.Unlike(c.Context(), userID, movieID)
	if err != nil {
		slog.Error("failed to remove like", "user_id", userID, "movie_id", movieID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to remove like",
		})
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "like not found",
		})
	}
	return c.JSON(fiber.Map{"message": "like removed"})
}

// Likes lists the user's liked movies.
// @Summary List liked movies
// @Tags users
// @Produce json
// @Param X-User-ID header string false "User UUID"
// @Success 200 {array} models.LikedMovie
// @Failure 500 {object} ErrorResponse
// @Router /users/me/likes [get]
func (h *UserHandler) Likes(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	result, err := h.interactions.LikedMovies(c.Context(), userID)
	if err != nil {
		slog.Error("failed to list likes", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to retrieve likes",
		})
	}
	return c.JSON(result)
}

// Activity reports the user's recorded activity for one movie.
// @Summary Movie activity status
// @Tags users
// @Produce json
// @Param id path string true "Movie ID"
// @Param X-User-ID header string false "User UUID"
// @Success 200 {object} models.ActivityStatus
// @Failure 500 {object} ErrorResponse
// @Router /users/me/activity/{id} [get]
func (h *UserHandler) Activity(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	movieID := c.Params("id")

	status, err := h.interactions.ActivityStatus(c.Context(), userID, movieID)
	if err != nil {
		slog.Error("failed to read activity", "user_id", userID, "movie_id", movieID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to retrieve activity",
		})
	}
	return c.JSON(status)
}

// Taste returns the user's taste analysis report.
// @Summary Taste analysis
// @Tags users
// @Produce json
// @Param X-User-ID header string false "User UUID"
// @Success 200 {object} models.TasteReport
// @Failure 500 {object} ErrorResponse
// @Router /users/me/taste [get]
func (h *UserHandler) Taste(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	report, err := h.taste.Analyze(c.Context(), userID)
	if err != nil {
		slog.Error("failed to analyze taste", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to analyze taste",
		})
	}
	return c.JSON(report)
}
