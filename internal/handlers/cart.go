package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/shopweve/internal/models"
	"github.com/example/shopweve/internal/store"
)

// CartHandler manages the cart and wishlist of a user. Routes are keyed by
// phone number and guarded by the ownership middleware.
type CartHandler struct {
	users store.UserStore
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(users store.UserStore) *CartHandler {
	return &CartHandler{users: users}
}

func (h *CartHandler) loadUser(c *fiber.Ctx) (*models.User, error) {
	user, err := h.users.FindByPhone(c.Params("phone"))
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return user, err
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// UpdateCart sets the quantity for a product, adding the line when missing.
func (h *CartHandler) UpdateCart(c *fiber.Ctx) error {
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.ProductID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Product ID is required")
	}

	user, err := h.loadUser(c)
	if err != nil {
		return err
	}

	user.UpsertCartItem(req.ProductID, req.Qty)

	if err := h.users.Save(user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"cart":    user.Cart,
		"message": "Cart updated successfully",
	})
}

// RemoveFromCart drops a product line from the cart.
func (h *CartHandler) RemoveFromCart(c *fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return err
	}

	user.RemoveCartItem(c.Params("productId"))

	if err := h.users.Save(user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"cart":    user.Cart,
		"message": "Product removed from cart",
	})
}

type wishlistRequest struct {
	ProductID string `json:"productId"`
}

// AddToWishlist records a product once; re-adding is a no-op.
func (h *CartHandler) AddToWishlist(c *fiber.Ctx) error {
	var req wishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.ProductID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Product ID is required")
	}

	user, err := h.loadUser(c)
	if err != nil {
		return err
	}

	user.AddToWishlist(req.ProductID)

	if err := h.users.Save(user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"wishlist": user.Wishlist,
		"message":  "Product added to wishlist",
	})
}

// RemoveFromWishlist drops a product from the wishlist.
func (h *CartHandler) RemoveFromWishlist(c *fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return err
	}

	user.RemoveFromWishlist(c.Params("productId"))

	if err := h.users.Save(user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"wishlist": user.Wishlist,
		"message":  "Product removed from wishlist",
	})
}
