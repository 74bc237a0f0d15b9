package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/shopweve/internal/models"
	"github.com/example/shopweve/internal/utils"
)

// AdminHandler serves the administration dashboard endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// DashboardStats aggregates counts and revenue for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var userCount, productCount, orderCount int64
	if err := h.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Product{}).Count(&productCount).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		return err
	}

	var revenue float64
	if err := h.db.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var byStatus []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return err
	}

	ordersByStatus := fiber.Map{}
	for _, row := range byStatus {
		ordersByStatus[row.Status] = row.Count
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats": fiber.Map{
			"users":            userCount,
			"products":         productCount,
			"orders":           orderCount,
			"revenue":          revenue,
			"orders_by_status": ordersByStatus,
		},
	})
}

// ListAllUsers returns every registered user with pagination and optional
// search over name, phone, and email.
func (h *AdminHandler) ListAllUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if search := c.Query("q"); search != "" {
		q := "%" + search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR email ILIKE ?", q, q, q)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"pagination": fiber.Map{
			"total": total,
			"page":  pg.Page,
			"limit": pg.Limit,
			"pages": pg.Pages(total),
		},
	})
}

// ListNewUsers returns users who logged in within the last 24 hours, most
// recent first.
func (h *AdminHandler) ListNewUsers(c *fiber.Ctx) error {
	since := time.Now().Add(-24 * time.Hour)

	var users []models.User
	if err := h.db.
		Where("last_login >= ?", since).
		Order("last_login desc").
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}
