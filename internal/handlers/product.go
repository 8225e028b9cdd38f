package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/achievepack/internal/models"
	"github.com/example/achievepack/internal/utils"
)

// ProductHandler serves the store catalog.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// ListProducts returns active products, optionally filtered by category.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{}).Where("is_active = ?", true)

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}
	if stock := strings.TrimSpace(c.Query("stock")); stock == "true" {
		query = query.Where("is_stock = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.
		Preload("PriceTiers").
		Order("name asc").
		Limit(pg.Limit).
		Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct returns one product by slug with its option axes and price
// tiers, everything the configurator needs.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := h.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("axis asc, sort_order asc")
		}).
		Preload("PriceTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("quantity asc")
		}).
		Where("slug = ?", c.Params("slug")).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

type productRequest struct {
	Slug             string                    `json:"slug"`
	Name             string                    `json:"name"`
	Category         string                    `json:"category"`
	ShortDescription string                    `json:"short_description"`
	LongDescription  string                    `json:"long_description"`
	HeroImage        string                    `json:"hero_image"`
	BasePrice        float64                   `json:"base_price"`
	MinOrderQty      int                       `json:"min_order_qty"`
	IsStock          bool                      `json:"is_stock"`
	IsActive         *bool                     `json:"is_active"`
	Options          []models.ProductOption    `json:"options"`
	PriceTiers       []models.ProductPriceTier `json:"price_tiers"`
}

// CreateProduct adds a product to the catalog.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Slug == "" || req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "slug and name are required")
	}

	product := models.Product{
		Slug:             req.Slug,
		Name:             req.Name,
		Category:         req.Category,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		HeroImage:        req.HeroImage,
		BasePrice:        req.BasePrice,
		Currency:         "USD",
		MinOrderQty:      req.MinOrderQty,
		IsStock:          req.IsStock,
		IsActive:         true,
		Options:          req.Options,
		PriceTiers:       req.PriceTiers,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct updates catalog fields. Options and price tiers are
// replaced wholesale when provided.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := h.db.Where("slug = ?", c.Params("slug")).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.ShortDescription != "" {
		product.ShortDescription = req.ShortDescription
	}
	if req.LongDescription != "" {
		product.LongDescription = req.LongDescription
	}
	if req.HeroImage != "" {
		product.HeroImage = req.HeroImage
	}
	if req.BasePrice > 0 {
		product.BasePrice = req.BasePrice
	}
	if req.MinOrderQty > 0 {
		product.MinOrderQty = req.MinOrderQty
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.db.Save(&product).Error; err != nil {
		return err
	}

	if req.Options != nil {
		if err := h.db.Where("product_id = ?", product.ID).Delete(&models.ProductOption{}).Error; err != nil {
			return err
		}
		for i := range req.Options {
			req.Options[i].ProductID = product.ID
		}
		if len(req.Options) > 0 {
			if err := h.db.Create(&req.Options).Error; err != nil {
				return err
			}
		}
	}

	if req.PriceTiers != nil {
		if err := h.db.Where("product_id = ?", product.ID).Delete(&models.ProductPriceTier{}).Error; err != nil {
			return err
		}
		for i := range req.PriceTiers {
			req.PriceTiers[i].ProductID = product.ID
		}
		if len(req.PriceTiers) > 0 {
			if err := h.db.Create(&req.PriceTiers).Error; err != nil {
				return err
			}
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct deactivates a product rather than removing rows that order
// snapshots may still reference.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	res := h.db.Model(&models.Product{}).
		Where("slug = ?", c.Params("slug")).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	return c.JSON(fiber.Map{"success": true})
}
