package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"movie-personalization-service/internal/service"
)

// AdminHandler handles catalog seeding and index training.
type AdminHandler struct {
	movies *service.MovieService
	index  *service.IndexService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(movies *service.MovieService, index *service.IndexService) *AdminHandler {
	return &AdminHandler{movies: movies, index: index}
}

// Seed fills the movie store from the catalog popularity pool.
// @Summary Seed the catalog
// @Tags admin
// @Produce json
// @Param pages query int false "Number of pages to seed" default(5)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /admin/seed [post]
func (h *AdminHandler) Seed(c fiber.Ctx) error {
	pages := fiber.Query(c, "pages", 5)
	if pages < 1 {
		pages = 1
	}
	if pages > 50 {
		pages = 50
	}

	count, err := h.movies.SeedCatalog(c.Context(), pages)
	if err != nil {
		slog.Error("seed failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "seed failed: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":       "seed completed",
		"movies_seeded": count,
		"pages":         pages,
	})
}

// Train rebuilds the content similarity index.
// @Summary Rebuild the similarity index
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /admin/train-similarity [post]
func (h *AdminHandler) Train(c fiber.Ctx) error {
	count, err := h.index.Train(c.Context())
	if err != nil {
		slog.Error("training failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "training failed: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":        "training completed",
		"movies_indexed": count,
	})
}
