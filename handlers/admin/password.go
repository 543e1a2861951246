package admin

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ukotvy/website/utils/auth"
	"github.com/ukotvy/website/utils/response"
)

// ChangePasswordRequest requires re-proof of the current password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

// ChangePassword updates the admin password. Both checks fail closed:
// nothing is persisted unless the current password verifies and the new
// one meets the length policy.
// POST /admin/password
func (h *AdminHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	settings, err := h.settings.Load()
	if err != nil {
		log.Printf("admin: load settings for password change: %v", err)
		return response.InternalServerError(c, "")
	}

	if err := auth.VerifyPassword(settings.AdminPasswordHash, req.CurrentPassword); err != nil {
		return response.Unauthorized(c, "Current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return response.ValidationFailed(c, map[string]string{
				"new_password": err.Error(),
			})
		}
		log.Printf("admin: hash new password: %v", err)
		return response.InternalServerError(c, "")
	}

	if err := h.settings.UpdatePasswordHash(hash); err != nil {
		log.Printf("admin: persist new password: %v", err)
		return response.InternalServerError(c, "Failed to save password")
	}
	return response.SuccessWithMessage(c, "Password changed", nil)
}
