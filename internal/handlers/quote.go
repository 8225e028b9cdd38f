package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/achievepack/internal/models"
	"github.com/example/achievepack/internal/utils"
)

// QuoteHandler serves quote requests for the back office.
type QuoteHandler struct {
	db *gorm.DB
}

// NewQuoteHandler constructs QuoteHandler.
func NewQuoteHandler(db *gorm.DB) *QuoteHandler {
	return &QuoteHandler{db: db}
}

// ListQuotes returns quote requests, newest first, optionally filtered by
// status or contact email.
func (h *QuoteHandler) ListQuotes(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.QuoteRequest{})

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}
	if email := strings.TrimSpace(c.Query("email")); email != "" {
		query = query.Where("contact_email = ?", strings.ToLower(email))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var quotes []models.QuoteRequest
	if err := query.
		Preload("Items").
		Order("submitted_at desc").
		Limit(pg.Limit).
		Offset(pg.Offset).
		Find(&quotes).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    quotes,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
