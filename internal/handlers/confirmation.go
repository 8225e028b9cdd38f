package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/achievepack/internal/cart"
	"github.com/example/achievepack/internal/middleware"
	"github.com/example/achievepack/internal/models"
	"github.com/example/achievepack/internal/services"
)

// ConfirmationHandler serves the post-payment and post-RFQ landing
// endpoints.
type ConfirmationHandler struct {
	db           *gorm.DB
	confirmation *services.ConfirmationService
	store        *cart.Store
}

// NewConfirmationHandler constructs ConfirmationHandler.
func NewConfirmationHandler(db *gorm.DB, confirmation *services.ConfirmationService, store *cart.Store) *ConfirmationHandler {
	return &ConfirmationHandler{db: db, confirmation: confirmation, store: store}
}

// OrderConfirmation reconciles an order when the browser returns from the
// payment gateway with a session reference, or shows the fallback
// confirmation without one. The purchase cart is cleared no matter how the
// reconciliation went: a completed purchase must never resurrect from the
// local cart, the order record is the source of truth from here on.
func (h *ConfirmationHandler) OrderConfirmation(c *fiber.Ctx) error {
	orderNumber := strings.TrimSpace(c.Query("order"))
	if orderNumber == "" {
		return fiber.NewError(fiber.StatusBadRequest, "order is required")
	}
	sessionRef := strings.TrimSpace(c.Query("session_id"))

	result, err := h.confirmation.Reconcile(c.Context(), orderNumber, sessionRef)

	if sessionID, ok := middleware.GetSessionID(c); ok {
		if clearErr := h.store.Clear(c.Context(), sessionID, cart.ModeCart); clearErr != nil {
			log.Printf("[Confirmation] Failed to clear cart for session %s: %v", sessionID, clearErr)
		}
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": result})
}

// RFQConfirmation shows the submitted quote request by its reference.
func (h *ConfirmationHandler) RFQConfirmation(c *fiber.Ctx) error {
	rfqNumber := strings.TrimSpace(c.Query("rfq"))
	if rfqNumber == "" {
		return fiber.NewError(fiber.StatusBadRequest, "rfq is required")
	}

	var quote models.QuoteRequest
	if err := h.db.Preload("Items").
		Where("rfq_number = ?", rfqNumber).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "quote request not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"rfq_number":      quote.RFQNumber,
			"status":          quote.Status,
			"estimated_total": quote.EstimatedTotal,
			"submitted_at":    quote.SubmittedAt,
		},
	})
}
