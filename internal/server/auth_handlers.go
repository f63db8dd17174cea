package server

import (
	"sehhaty/internal/models"
	"sehhaty/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		FullName   string `json:"full_name"`
		NationalID string `json:"national_id"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	account, err := s.accountService.Register(c.Context(), service.RegisterInput{
		FullName:   req.FullName,
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      req.Phone,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"account": account,
	})
}

// Login handles POST /api/login. On success a new session is created and its
// token set as the HTTPOnly session cookie.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		NationalID string `json:"national_id"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	account, err := s.accountService.Login(c.Context(), service.LoginInput{
		NationalID: req.NationalID,
		Password:   req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.sessions.Create(c.Context(), account.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.setSessionCookie(c, token)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"account": account,
		"admin":   account.IsAdmin(),
	})
}

// Logout handles POST /api/logout.
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(SessionCookie); token != "" {
		_ = s.sessions.Destroy(c.Context(), token)
	}
	s.clearSessionCookie(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"logged_out": true,
	})
}

// SessionProbe handles GET /api/session. It never fails: an anonymous or
// stale session reads as logged_in=false.
func (s *Server) SessionProbe(c *fiber.Ctx) error {
	token := c.Cookies(SessionCookie)
	if token == "" {
		return c.JSON(fiber.Map{"logged_in": false})
	}

	accountID, err := s.sessions.Resolve(c.Context(), token)
	if err != nil {
		s.clearSessionCookie(c)
		return c.JSON(fiber.Map{"logged_in": false})
	}

	account, err := s.accountRepo.GetByID(c.Context(), accountID)
	if err != nil || account.IsBlocked() {
		s.destroySession(c, token, "session_probe")
		return c.JSON(fiber.Map{"logged_in": false})
	}

	return c.JSON(fiber.Map{
		"logged_in": true,
		"account":   account.Summary(),
		"admin":     account.IsAdmin(),
	})
}

// GetProfile handles GET /api/profile.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"account": s.access(c).Account,
	})
}

// UpdateProfile handles PUT /api/profile.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	account, err := s.accountService.UpdateProfile(c.Context(), s.access(c), service.UpdateProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"account": account,
	})
}
