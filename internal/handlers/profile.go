package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/shopweve/internal/models"
	"github.com/example/shopweve/internal/store"
)

// ProfileHandler manages the profile and address book of a user. Routes are
// keyed by phone number and guarded by the ownership middleware.
type ProfileHandler struct {
	users store.UserStore
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(users store.UserStore) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) loadUser(c *fiber.Ctx) (*models.User, error) {
	user, err := h.users.FindByPhone(c.Params("phone"))
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return user, err
}

// GetProfile returns the profile of the addressed user.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userPayload(user),
	})
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateProfile updates the mutable profile fields. The phone number is the
// natural key and stays immutable.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.loadUser(c)
	if err != nil {
		return err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}

	if err := h.users.Save(user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userPayload(user),
		"message": "Profile updated successfully",
	})
}

// ListAddresses returns the address book.
func (h *ProfileHandler) ListAddresses(c *fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"addresses": user.Addresses,
	})
}

// AddAddress appends a new address to the book.
func (h *ProfileHandler) AddAddress(c *fiber.Ctx) error {
	var addr models.Address
	if err := c.BodyParser(&addr); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if addr.Street == "" || addr.City == "" || addr.State == "" || addr.Pincode == "" {
		return fiber.NewError(fiber.StatusBadRequest, "All address fields are required")
	}

	user, err := h.loadUser(c)
	if err != nil {
		return err
	}

	addr.ID = ""
	user.AddAddress(addr)

	if err := h.users.Save(user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"addresses": user.Addresses,
		"message":   "Address added successfully",
	})
}

// UpdateAddress applies a partial update to one address.
func (h *ProfileHandler) UpdateAddress(c *fiber.Ctx) error {
	var patch models.AddressPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.loadUser(c)
	if err != nil {
		return err
	}

	if err := user.UpdateAddress(c.Params("addressId"), patch); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Address not found")
	}

	if err := h.users.Save(user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"addresses": user.Addresses,
		"message":   "Address updated successfully",
	})
}

// DeleteAddress removes one address, promoting a new default if needed.
func (h *ProfileHandler) DeleteAddress(c *fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return err
	}

	if err := user.DeleteAddress(c.Params("addressId")); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Address not found")
	}

	if err := h.users.Save(user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"addresses": user.Addresses,
		"message":   "Address deleted successfully",
	})
}

// SetDefaultAddress marks one address as the default.
func (h *ProfileHandler) SetDefaultAddress(c *fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return err
	}

	if err := user.SetDefaultAddress(c.Params("addressId")); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Address not found")
	}

	if err := h.users.Save(user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"addresses": user.Addresses,
		"message":   "Default address set successfully",
	})
}
