package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rxtech-lab/x402-marketplace/internal/logger"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
	"go.uber.org/zap"
)

type uploadRequest struct {
	File string `json:"file"`
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

func (s *APIServer) handleUpload(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil || req.File == "" {
		return respondError(c, fiber.StatusBadRequest, services.ErrNoFile.Error())
	}

	result, err := s.mediaService.UploadImage(c.UserContext(), req.File)
	if err != nil {
		return respondServiceError(c, err, msgNotFound)
	}
	return c.JSON(uploadResponse{Success: true, URL: result.URL, PublicID: result.PublicID})
}

// handleDeleteUpload removes a preview image. Failures are logged and the
// caller still gets success.
func (s *APIServer) handleDeleteUpload(c *fiber.Ctx) error {
	publicID := c.Query("public_id")
	if publicID == "" {
		return respondError(c, fiber.StatusBadRequest, msgNoPublicID)
	}

	if err := s.mediaService.DeleteImage(c.UserContext(), publicID); err != nil {
		logger.WarnCtx(c.UserContext(), "failed to delete uploaded image",
			zap.String("public_id", publicID), zap.Error(err))
	}
	return respondOK(c)
}
