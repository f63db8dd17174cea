package server

import (
	"io"

	"sehhaty/internal/models"
	"sehhaty/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadRequestFile handles POST /api/admin/requests/:id/files with a
// multipart "file" part and an optional "notes" field.
func (s *Server) UploadRequestFile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, s.config.MaxUploadBytes()+1))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	attachment, err := s.attachmentService.Attach(c.Context(), s.access(c), service.AttachInput{
		RequestID:    id,
		OriginalName: fileHeader.Filename,
		Content:      content,
		Notes:        c.FormValue("notes"),
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attachment": attachment,
	})
}

// GetMyFiles handles GET /api/files
func (s *Server) GetMyFiles(c *fiber.Ctx) error {
	files, err := s.attachmentService.ListForAccount(c.Context(), s.access(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"files": files,
		"count": len(files),
	})
}

// GetAllFiles handles GET /api/admin/files
func (s *Server) GetAllFiles(c *fiber.Ctx) error {
	files, err := s.attachmentService.ListAll(c.Context(), s.access(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"files": files,
		"count": len(files),
	})
}

// DownloadFile handles GET /api/files/:id/download, preserving the original
// filename in the attachment disposition.
func (s *Server) DownloadFile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	attachment, path, err := s.attachmentService.Open(c.Context(), s.access(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Download(path, attachment.OriginalName)
}

// ViewFile handles GET /api/files/:id/view, rendering the PDF inline.
func (s *Server) ViewFile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	attachment, path, err := s.attachmentService.Open(c.Context(), s.access(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	c.Set(fiber.HeaderContentType, attachment.MIMEType)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+attachment.OriginalName+`"`)
	return c.SendFile(path)
}

// DeleteFile handles DELETE /api/admin/files/:id. The response distinguishes
// a full delete from a soft-disable after a failed physical delete.
func (s *Server) DeleteFile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	outcome, err := s.attachmentService.Delete(c.Context(), s.access(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(outcome)
}

// ToggleFile handles POST /api/admin/files/:id/toggle
func (s *Server) ToggleFile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	attachment, err := s.attachmentService.ToggleActive(c.Context(), s.access(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"attachment": attachment,
	})
}
