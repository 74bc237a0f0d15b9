package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/shopweve/internal/models"
	"github.com/example/shopweve/internal/token"
)

// Cookie names shared with the auth handler.
const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

const authUserKey = "authUser"

// AuthUser is the decoded identity attached to authenticated requests.
type AuthUser struct {
	ID    uuid.UUID
	Phone string
	Role  string
}

// IsAdmin reports whether the principal carries the administrator role claim.
func (u AuthUser) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

// AuthMiddleware validates the access token taken from the Authorization
// header, falling back to the accessToken cookie, and loads the decoded
// identity into the request context.
func AuthMiddleware(tokens *token.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := BearerToken(c)
		if raw == "" {
			raw = c.Cookies(AccessCookieName)
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Access token required")
		}

		claims, err := tokens.VerifyAccess(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(authUserKey, AuthUser{ID: id, Phone: claims.Phone, Role: claims.Role})
		return c.Next()
	}
}

// BearerToken extracts the token from the Authorization header, if present.
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// GetAuthUser extracts the authenticated identity from context.
func GetAuthUser(c *fiber.Ctx) (AuthUser, bool) {
	value := c.Locals(authUserKey)
	if value == nil {
		return AuthUser{}, false
	}

	user, ok := value.(AuthUser)
	return user, ok
}

// RequireOwnerPhone passes when the :phone route param belongs to the caller
// or the caller is an administrator. Must run after AuthMiddleware.
func RequireOwnerPhone() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetAuthUser(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Access token required")
		}

		if !user.IsAdmin() && user.Phone != c.Params("phone") {
			return fiber.NewError(fiber.StatusForbidden, "Unauthorized access to this resource")
		}
		return c.Next()
	}
}

// RequireAdmin passes only administrators. Must run after AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetAuthUser(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Access token required")
		}

		if !user.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "Admin access required")
		}
		return c.Next()
	}
}
