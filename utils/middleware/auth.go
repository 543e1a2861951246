package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ukotvy/website/utils/auth"
	"github.com/ukotvy/website/utils/response"
)

// SessionCookie is the cookie carrying the admin session token.
const SessionCookie = "admin_session"

// AuthMiddleware guards the admin routes with the session JWT.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Required only lets requests with a valid, unexpired session through.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			return response.Unauthorized(c, "Not logged in")
		}

		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Session has expired")
			}
			return response.Unauthorized(c, "Invalid session")
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}

// RequireCSRF rejects mutating requests whose anti-forgery token does not
// match the session's secret. It must run after Required. Nothing is
// mutated on mismatch; the handler is never reached.
func (m *AuthMiddleware) RequireCSRF() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*auth.Claims)
		if !ok {
			return response.Unauthorized(c, "Not logged in")
		}

		token := c.Get("X-CSRF-Token")
		if token == "" {
			token = c.FormValue("csrf_token")
		}
		if token == "" || token != claims.CSRFSecret {
			return response.Forbidden(c, "Invalid anti-forgery token")
		}
		return c.Next()
	}
}
