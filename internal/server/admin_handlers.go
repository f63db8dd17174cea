package server

import (
	"time"

	"sehhaty/internal/models"
	"sehhaty/internal/repository"
	"sehhaty/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAllRequests handles GET /api/admin/requests with optional
// ?type=&status=&search= filters.
func (s *Server) GetAllRequests(c *fiber.Ctx) error {
	filter := repository.RequestFilter{
		Type:   models.RequestType(c.Query("type")),
		Status: models.RequestStatus(c.Query("status")),
		Search: c.Query("search"),
	}

	requests, err := s.requestService.ListAll(c.Context(), s.access(c), filter)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"requests": requests,
		"count":    len(requests),
	})
}

// SetRequestStatus handles PUT /api/admin/requests/:id/status
func (s *Server) SetRequestStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status        models.RequestStatus `json:"status"`
		Notes         string               `json:"notes"`
		ProcessedData map[string]string    `json:"processed_data"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	request, err := s.requestService.AdminSetStatus(c.Context(), s.access(c), service.SetStatusInput{
		RequestID:     id,
		Status:        req.Status,
		Notes:         req.Notes,
		ProcessedData: req.ProcessedData,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"request": request,
	})
}

// ProcessRequest handles POST /api/admin/requests/:id/process. The expected
// fields depend on the request type; everything except notes is treated as a
// fulfillment field.
func (s *Server) ProcessRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req map[string]string
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	notes := req["notes"]
	delete(req, "notes")

	request, err := s.requestService.AdminProcess(c.Context(), s.access(c), service.ProcessInput{
		RequestID: id,
		Fields:    req,
		Notes:     notes,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"request": request,
	})
}

// ExportRequests handles GET /api/admin/export/requests, a full dump of all
// requests with account details for offline reporting.
func (s *Server) ExportRequests(c *fiber.Ctx) error {
	records, err := s.requestService.Export(c.Context(), s.access(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"export_date":   time.Now(),
		"total_records": len(records),
		"data":          records,
	})
}

// GetAllAccounts handles GET /api/admin/accounts
func (s *Server) GetAllAccounts(c *fiber.Ctx) error {
	accounts, err := s.accountService.List(c.Context(), s.access(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// SearchAccounts handles GET /api/admin/accounts/search?q=
func (s *Server) SearchAccounts(c *fiber.Ctx) error {
	accounts, err := s.accountService.Search(c.Context(), s.access(c), c.Query("q"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// BlockAccount handles POST /api/admin/accounts/:id/block
func (s *Server) BlockAccount(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	account, err := s.accountService.Block(c.Context(), s.access(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"account": account,
	})
}

// UnblockAccount handles POST /api/admin/accounts/:id/unblock
func (s *Server) UnblockAccount(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	account, err := s.accountService.Unblock(c.Context(), s.access(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"account": account,
	})
}

// DeleteAccount handles DELETE /api/admin/accounts/:id
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.accountService.Delete(c.Context(), s.access(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"deleted": true,
	})
}

// GetStatistics handles GET /api/admin/statistics
func (s *Server) GetStatistics(c *fiber.Ctx) error {
	stats, err := s.requestService.Statistics(c.Context(), s.access(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(stats)
}
