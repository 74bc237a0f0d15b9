package handlers

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/example/shopweve/internal/cache"
	"github.com/example/shopweve/internal/models"
	"github.com/example/shopweve/internal/utils"
)

// ProductHandler manages catalog CRUD and filtered listing.
type ProductHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, rdb *redis.Client) *ProductHandler {
	return &ProductHandler{db: db, rdb: rdb}
}

// ListProducts returns paginated products with optional filters. Listing
// responses sit behind the response cache middleware.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if c.Query("inStock") == "true" {
		query = query.Where("in_stock = ?", true)
	}

	if minPrice := c.Query("minPrice"); minPrice != "" {
		if val, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price_discounted >= ?", val)
		}
	}

	if maxPrice := c.Query("maxPrice"); maxPrice != "" {
		if val, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price_discounted <= ?", val)
		}
	}

	if search := strings.TrimSpace(c.Query("q")); search != "" {
		q := "%" + search + "%"
		query = query.Where(
			"name ILIKE ? OR description ILIKE ? OR array_to_string(tags, ' ') ILIKE ?",
			q, q, q,
		)
	}

	order := "updated_at desc"
	switch c.Query("sort") {
	case "price-asc":
		order = "price_discounted asc"
	case "price-desc":
		order = "price_discounted desc"
	case "name-asc":
		order = "name asc"
	case "name-desc":
		order = "name desc"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Order(order).
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"products": products,
			"pagination": fiber.Map{
				"total": total,
				"page":  pg.Page,
				"limit": pg.Limit,
				"pages": pg.Pages(total),
			},
		},
	})
}

// GetProduct loads a product by its public code, falling back to the slug.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	idOrSlug := c.Params("idOrSlug")

	var product models.Product
	err := h.db.First(&product, "code = ?", idOrSlug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = h.db.First(&product, "slug = ?", idOrSlug).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

type productRequest struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	Brand            string   `json:"brand"`
	Category         string   `json:"category"`
	Subcategory      string   `json:"subcategory"`
	PriceOriginal    float64  `json:"price_original"`
	PriceDiscounted  float64  `json:"price_discounted"`
	Currency         string   `json:"currency"`
	Quantity         int      `json:"quantity"`
	Image            string   `json:"image"`
	ExtraImages      []string `json:"extra_images"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description"`
	Features         []string `json:"features"`
	Tags             []string `json:"tags"`
	SKU              string   `json:"sku"`
	InStock          *bool    `json:"in_stock"`
	CODAvailable     bool     `json:"cod_available"`
	Warranty         string   `json:"warranty"`
}

func (req *productRequest) validate() error {
	if req.Name == "" || req.PriceOriginal <= 0 || req.Category == "" || req.Quantity < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Missing required fields: name, price, category, quantity")
	}
	return nil
}

func (req *productRequest) apply(product *models.Product) {
	product.Name = req.Name
	product.Brand = req.Brand
	product.Category = req.Category
	product.Subcategory = req.Subcategory
	product.PriceOriginal = req.PriceOriginal
	product.PriceDiscounted = req.PriceDiscounted
	if product.PriceDiscounted == 0 {
		product.PriceDiscounted = req.PriceOriginal
	}
	if req.Currency != "" {
		product.Currency = req.Currency
	}
	product.Quantity = req.Quantity
	product.Image = req.Image
	product.ExtraImages = req.ExtraImages
	product.Description = req.Description
	product.ShortDescription = req.ShortDescription
	product.Features = req.Features
	product.Tags = req.Tags
	product.SKU = req.SKU
	if req.InStock != nil {
		product.InStock = *req.InStock
	} else {
		product.InStock = req.Quantity > 0
	}
	product.CODAvailable = req.CODAvailable
	product.Warranty = req.Warranty
}

// CreateProduct adds a catalog entry, generating the public code when absent.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := req.validate(); err != nil {
		return err
	}

	product := models.Product{Code: req.Code}
	if product.Code == "" {
		product.Code = generateProductCode()
	}
	req.apply(&product)

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	cache.InvalidateProducts(c.Context(), h.rdb)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    product,
		"message": "Product added successfully",
	})
}

// UpdateProduct replaces the mutable fields of a product.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := req.validate(); err != nil {
		return err
	}

	var product models.Product
	if err := h.db.First(&product, "code = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return err
	}

	req.apply(&product)
	if err := h.db.Save(&product).Error; err != nil {
		return err
	}

	cache.InvalidateProducts(c.Context(), h.rdb)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    product,
		"message": "Product updated successfully",
	})
}

// DeleteProduct removes a product by its public code.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	result := h.db.Where("code = ?", c.Params("id")).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	cache.InvalidateProducts(c.Context(), h.rdb)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}

func generateProductCode() string {
	stamp := fmt.Sprintf("%d", time.Now().UnixMilli())
	return fmt.Sprintf("PROD-%s%04d", stamp[len(stamp)-6:], rand.Intn(10000))
}
