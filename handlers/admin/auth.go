// Package admin implements the password-protected administration API:
// login, whole-document settings saves, password changes, the event image
// upload and the scrape trigger.
package admin

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ukotvy/website/store"
	"github.com/ukotvy/website/utils/auth"
	"github.com/ukotvy/website/utils/middleware"
	"github.com/ukotvy/website/utils/response"
)

// sessionExpiry is how long an admin session lasts before a new login is
// required.
const sessionExpiry = 2 * time.Hour

// AdminHandler serves the admin API
type AdminHandler struct {
	settings   *store.SettingsStore
	jwtManager *auth.JWTManager
	loginGuard *middleware.LoginGuard
}

// NewAdminHandler creates the admin handler. loginGuard may be nil when
// redis is not configured.
func NewAdminHandler(settings *store.SettingsStore, jwtManager *auth.JWTManager, loginGuard *middleware.LoginGuard) *AdminHandler {
	return &AdminHandler{
		settings:   settings,
		jwtManager: jwtManager,
		loginGuard: loginGuard,
	}
}

// LoginRequest carries the admin login form
type LoginRequest struct {
	Password string `json:"password" form:"password"`
}

// LoginResponse returns the session's anti-forgery token; the session
// itself travels in an HttpOnly cookie.
type LoginResponse struct {
	CSRFToken string `json:"csrf_token"`
	ExpiresIn int    `json:"expires_in"` // in seconds
}

// Login verifies the admin password and opens a session
// POST /admin/login
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	ip := c.IP()

	settings, err := h.settings.Load()
	if err != nil {
		log.Printf("admin: load settings for login: %v", err)
		return response.InternalServerError(c, "")
	}

	if err := auth.VerifyPassword(settings.AdminPasswordHash, req.Password); err != nil {
		if h.loginGuard != nil {
			h.loginGuard.RecordFailure(c, ip)
		}
		return response.Unauthorized(c, "Invalid password")
	}

	if h.loginGuard != nil {
		h.loginGuard.RecordSuccess(c, ip)
	}

	token, csrfSecret, err := h.jwtManager.GenerateSessionToken()
	if err != nil {
		log.Printf("admin: generate session token: %v", err)
		return response.InternalServerError(c, "")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(sessionExpiry),
		HTTPOnly: true,
		SameSite: "Strict",
		Path:     "/",
	})

	return response.Success(c, LoginResponse{
		CSRFToken: csrfSecret,
		ExpiresIn: int(sessionExpiry.Seconds()),
	})
}

// Logout closes the admin session
// POST /admin/logout
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Strict",
		Path:     "/",
	})
	return response.SuccessWithMessage(c, "Logged out", nil)
}
