package server

import (
	"sehhaty/internal/models"
	"sehhaty/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateRequest handles POST /api/requests
func (s *Server) CreateRequest(c *fiber.Ctx) error {
	var req struct {
		Type models.RequestType `json:"type"`
		Data map[string]string  `json:"data"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	request, err := s.requestService.Create(c.Context(), s.access(c), service.CreateRequestInput{
		Type:    req.Type,
		Payload: req.Data,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"request": request,
	})
}

// GetMyRequests handles GET /api/requests
func (s *Server) GetMyRequests(c *fiber.Ctx) error {
	requests, err := s.requestService.ListForAccount(c.Context(), s.access(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"requests": requests,
		"count":    len(requests),
	})
}

// GetRequest handles GET /api/requests/:id and GET /api/admin/requests/:id.
// Visibility is decided by the service: citizens only see their own.
func (s *Server) GetRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	request, err := s.requestService.Get(c.Context(), s.access(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"request": request,
	})
}

// CancelRequest handles POST /api/requests/:id/cancel
func (s *Server) CancelRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	request, err := s.requestService.Cancel(c.Context(), s.access(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"request": request,
	})
}
