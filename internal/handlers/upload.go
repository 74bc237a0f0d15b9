package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/shopweve/internal/services"
)

// UploadHandler hands out signed upload parameters for direct-to-host image
// uploads.
type UploadHandler struct {
	imagekit *services.ImageKitService
}

// NewUploadHandler constructs UploadHandler.
func NewUploadHandler(imagekit *services.ImageKitService) *UploadHandler {
	return &UploadHandler{imagekit: imagekit}
}

// AuthParams mints ephemeral upload credentials.
func (h *UploadHandler) AuthParams(c *fiber.Ctx) error {
	params, err := h.imagekit.AuthParams()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate upload credentials")
	}

	return c.JSON(params)
}
