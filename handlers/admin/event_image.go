package admin

import (
	"io"
	"log"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	"github.com/ukotvy/website/utils/response"
)

const maxImageSize = 5 * 1024 * 1024 // 5MB

// allowedImageTypes maps accepted media types to the stored file
// extension. The declared Content-Type and the sniffed content must both
// resolve to the same entry.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadEventImage replaces the event's promotional image. The previous
// file is deleted on acceptance, so at most one image is ever stored.
// POST /admin/event/image
func (h *AdminHandler) UploadEventImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "Image file is required")
	}
	if file.Size > maxImageSize {
		return response.BadRequest(c, "Image exceeds maximum allowed size of 5MB")
	}

	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(file.Header.Get("Content-Type"), ";", 2)[0]))
	ext, ok := allowedImageTypes[declared]
	if !ok {
		return response.ValidationFailed(c, map[string]string{
			"image": "Image must be JPEG, PNG, WebP or GIF",
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Printf("admin: open uploaded image: %v", err)
		return response.InternalServerError(c, "")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImageSize+1))
	if err != nil {
		log.Printf("admin: read uploaded image: %v", err)
		return response.InternalServerError(c, "")
	}
	if len(data) > maxImageSize {
		return response.BadRequest(c, "Image exceeds maximum allowed size of 5MB")
	}

	// The declared type is attacker-controlled; the actual bytes must
	// agree with it.
	sniffed := mimetype.Detect(data)
	if !sniffed.Is(declared) {
		return response.ValidationFailed(c, map[string]string{
			"image": "Image content does not match its declared type",
		})
	}

	name, err := h.settings.StoreEventImage(ext, data)
	if err != nil {
		log.Printf("admin: store event image: %v", err)
		return response.InternalServerError(c, "Failed to store image")
	}

	return response.Success(c, fiber.Map{"image_file": name})
}
