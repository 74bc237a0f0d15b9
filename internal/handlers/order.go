package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/shopweve/internal/middleware"
	"github.com/example/shopweve/internal/models"
	"github.com/example/shopweve/internal/utils"
)

// OrderHandler manages order placement and status tracking.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type orderItemRequest struct {
	ProductCode string  `json:"product_code"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image"`
}

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items"`
	Total           float64            `json:"total"`
	ShippingAddress models.Address     `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
	PaymentID       string             `json:"payment_id"`
}

// CreateOrder places an order for the authenticated user. The shipping
// address is copied onto the order at placement time.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	auth, ok := middleware.GetAuthUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Access token required")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Order must contain at least one item")
	}
	if req.Total <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Order total must be positive")
	}
	if req.PaymentMethod == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Payment method is required")
	}
	addr := req.ShippingAddress
	if addr.Street == "" || addr.City == "" || addr.State == "" || addr.Pincode == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Shipping address is incomplete")
	}
	if addr.Country == "" {
		addr.Country = models.DefaultCountry
	}

	order := models.Order{
		UserID:          auth.ID,
		Phone:           auth.Phone,
		Total:           req.Total,
		ShippingStreet:  addr.Street,
		ShippingCity:    addr.City,
		ShippingState:   addr.State,
		ShippingPincode: addr.Pincode,
		ShippingCountry: addr.Country,
		PaymentMethod:   req.PaymentMethod,
		PaymentID:       req.PaymentID,
		Status:          models.OrderStatusPending,
		PlacedAt:        time.Now(),
	}
	for _, item := range req.Items {
		if item.ProductCode == "" || item.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Order items need a product code and positive quantity")
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductCode: item.ProductCode,
			Name:        item.Name,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Image:       item.Image,
		})
	}

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"order":   order,
		"message": "Order placed successfully",
	})
}

// ListUserOrders returns the orders of one user, newest first. Non-admin
// callers may only read their own orders.
func (h *OrderHandler) ListUserOrders(c *fiber.Ctx) error {
	auth, ok := middleware.GetAuthUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Access token required")
	}

	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid user ID")
	}

	if !auth.IsAdmin() && auth.ID != userID {
		return fiber.NewError(fiber.StatusForbidden, "Unauthorized access to this resource")
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("placed_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
	})
}

// GetOrder returns one order. Non-admin callers may only read their own.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	auth, ok := middleware.GetAuthUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Access token required")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order ID")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		return err
	}

	if !auth.IsAdmin() && order.UserID != auth.ID {
		return fiber.NewError(fiber.StatusForbidden, "Unauthorized access to this resource")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// ListAllOrders returns every order with pagination. Admin only, optionally
// filtered by status.
func (h *OrderHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order status")
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
		"pagination": fiber.Map{
			"total": total,
			"page":  pg.Page,
			"limit": pg.Limit,
			"pages": pg.Pages(total),
		},
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order to a new lifecycle status. Admin only.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if !models.ValidOrderStatus(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order status")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order ID")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		return err
	}

	order.Status = req.Status
	if err := h.db.Save(&order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
		"message": "Order status updated successfully",
	})
}
