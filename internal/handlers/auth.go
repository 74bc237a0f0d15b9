package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/shopweve/internal/config"
	"github.com/example/shopweve/internal/middleware"
	"github.com/example/shopweve/internal/models"
	"github.com/example/shopweve/internal/store"
	"github.com/example/shopweve/internal/token"
)

// AuthHandler owns the session lifecycle: login-or-register, access token
// rotation, and logout.
type AuthHandler struct {
	users  store.UserStore
	tokens *token.Manager
	cfg    *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users store.UserStore, tokens *token.Manager, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, cfg: cfg}
}

type loginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
}

// Login finds the user by phone number, registering a new account when a
// name is supplied, and issues a fresh token pair. Storing the pair on the
// user record invalidates any previously issued pair: one active session per
// account.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.PhoneNumber == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Phone number is required")
	}

	user, err := h.users.FindByPhone(req.PhoneNumber)
	if errors.Is(err, store.ErrUserNotFound) {
		if req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "User not found. Please provide a name to register.")
		}
		user = &models.User{
			Name:   req.Name,
			Phone:  req.PhoneNumber,
			Role:   models.RoleUser,
			Status: models.UserStatusActive,
		}
		if err := h.users.Create(user); err != nil {
			return err
		}
		log.Printf("[Auth] registered new user %s", user.ID)
	} else if err != nil {
		return err
	}

	if user.Status == models.UserStatusBlocked {
		return fiber.NewError(fiber.StatusForbidden, "Account is blocked")
	}

	user.RecordLogin(time.Now())

	pair, err := h.tokens.IssuePair(user.ID, user.Phone, user.Role)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate tokens")
	}

	user.SetSession(pair.AccessToken, pair.TokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	if err := h.users.Save(user); err != nil {
		return err
	}

	h.setAuthCookie(c, middleware.AccessCookieName, pair.AccessToken, pair.TokenExpiry)
	h.setAuthCookie(c, middleware.RefreshCookieName, pair.RefreshToken, pair.RefreshTokenExpiry)

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userPayload(user),
		"tokens": fiber.Map{
			"accessToken":        pair.AccessToken,
			"refreshToken":       pair.RefreshToken,
			"tokenExpiry":        pair.TokenExpiry,
			"refreshTokenExpiry": pair.RefreshTokenExpiry,
		},
		"message": "Login successful",
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh mints a new access token against a valid refresh token. The stored
// refresh token and its expiry are left untouched; only the access credential
// rotates.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	_ = c.BodyParser(&req)

	raw := req.RefreshToken
	if raw == "" {
		raw = c.Cookies(middleware.RefreshCookieName)
	}
	if raw == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Refresh token is required")
	}

	claims, err := h.tokens.VerifyRefresh(raw)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired refresh token")
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token")
	}

	user, err := h.users.FindByID(id)
	if errors.Is(err, store.ErrUserNotFound) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token")
	} else if err != nil {
		return err
	}

	// The token must equal the single stored one; a newer login supersedes it.
	if user.RefreshToken == nil || *user.RefreshToken != raw {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token")
	}

	// The stored expiry is checked on its own, independent of the token's
	// embedded exp claim.
	if user.RefreshTokenExpiry == nil || !user.RefreshTokenExpiry.After(time.Now()) {
		return fiber.NewError(fiber.StatusUnauthorized, "Refresh token expired")
	}

	access, expiry, err := h.tokens.IssueAccess(user.ID, user.Phone, user.Role)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	user.SetAccessToken(access, expiry)
	if err := h.users.Save(user); err != nil {
		return err
	}

	h.setAuthCookie(c, middleware.AccessCookieName, access, expiry)

	return c.JSON(fiber.Map{
		"success": true,
		"tokens": fiber.Map{
			"accessToken": access,
			"tokenExpiry": expiry,
		},
		"message": "Token refreshed successfully",
	})
}

// Logout clears both session cookies and, when a verifiable access token is
// presented, drops the stored token pair. A missing or garbage token still
// yields a successful logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearAuthCookie(c, middleware.AccessCookieName)
	h.clearAuthCookie(c, middleware.RefreshCookieName)

	if raw := middleware.BearerToken(c); raw != "" {
		h.invalidateSession(raw)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) invalidateSession(raw string) {
	claims, err := h.tokens.VerifyAccess(raw)
	if err != nil {
		log.Printf("[Auth] ignoring invalid token during logout: %v", err)
		return
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		return
	}

	user.ClearSession()
	if err := h.users.Save(user); err != nil {
		log.Printf("[Auth] failed to clear session for %s: %v", user.ID, err)
	}
}

func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, name, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearAuthCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// userPayload shapes the user for API responses. Token material is excluded
// by the model's json tags, but the shape is pinned here anyway.
func userPayload(user *models.User) fiber.Map {
	return fiber.Map{
		"id":        user.ID,
		"name":      user.Name,
		"phone":     user.Phone,
		"email":     user.Email,
		"addresses": user.Addresses,
		"cart":      user.Cart,
		"wishlist":  user.Wishlist,
	}
}
