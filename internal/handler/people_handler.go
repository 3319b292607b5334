package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-personalization-service/internal/service"
)

// PeopleHandler handles HTTP requests for people spotlights.
type PeopleHandler struct {
	svc *service.PeopleService
}

// NewPeopleHandler creates a new PeopleHandler.
func NewPeopleHandler(svc *service.PeopleService) *PeopleHandler {
	return &PeopleHandler{svc: svc}
}

// WeeklyPopular returns the person most featured in the current box
// office top movies.
// @Summary Weekly popular person
// @Tags people
// @Produce json
// @Success 200 {object} models.WeeklyPopularPerson
// @Failure 404 {object} ErrorResponse
// @Router /people/weekly-popular [get]
func (h *PeopleHandler) WeeklyPopular(c fiber.Ctx) error {
	person := h.svc.WeeklyPopularPerson(c.Context())
	if person == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "no box office data available",
		})
	}
	return c.JSON(person)
}

// Detail returns one person's record and filmography.
// @Summary Person details
// @Tags people
// @Produce json
// @Param id path string true "Person code"
// @Success 200 {object} models.PersonDetail
// @Failure 404 {object} ErrorResponse
// @Router /people/{id} [get]
func (h *PeopleHandler) Detail(c fiber.Ctx) error {
	person := h.svc.PersonDetails(c.Context(), c.Params("id"))
	if person == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "person not found",
		})
	}
	return c.JSON(person)
}
