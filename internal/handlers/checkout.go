package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/achievepack/internal/cart"
	"github.com/example/achievepack/internal/middleware"
	"github.com/example/achievepack/internal/models"
	"github.com/example/achievepack/internal/services"
)

// CheckoutHandler drives purchase and quote-request submissions.
type CheckoutHandler struct {
	db       *gorm.DB
	checkout *services.CheckoutService
	store    *cart.Store
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(db *gorm.DB, checkout *services.CheckoutService, store *cart.Store) *CheckoutHandler {
	return &CheckoutHandler{db: db, checkout: checkout, store: store}
}

type checkoutRequest struct {
	Contact services.ContactForm `json:"contact"`
	Notes   string               `json:"notes"`
}

// SubmitCart runs the purchase checkout: durable order first, then the
// payment session. On the gateway-down fallback the purchase cart is
// cleared here; on a redirect it survives until the confirmation page
// reconciles the order.
func (h *CheckoutHandler) SubmitCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	sessionID, _ := middleware.GetSessionID(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Contact.Email == "" {
		// Pre-fill from the account the way the storefront form does.
		var user models.User
		if err := h.db.First(&user, "id = ?", userID).Error; err == nil {
			req.Contact.Email = user.Email
		}
	}

	items, err := h.store.Items(c.Context(), sessionID, cart.ModeCart)
	if err != nil {
		return err
	}

	result, err := h.checkout.SubmitCart(c.Context(), services.CartCheckoutInput{
		SessionID: sessionID,
		UserID:    userID,
		Contact:   req.Contact,
		Items:     items,
	})
	if err != nil {
		return checkoutError(err)
	}

	if result.Fallback {
		if clearErr := h.store.Clear(c.Context(), sessionID, cart.ModeCart); clearErr != nil {
			log.Printf("[Checkout] Failed to clear cart for session %s: %v", sessionID, clearErr)
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": result})
}

// SubmitRFQ runs the quote-request flow. Anonymous submissions are allowed;
// the RFQ cart is cleared once the submission is accepted.
func (h *CheckoutHandler) SubmitRFQ(c *fiber.Ctx) error {
	sessionID, _ := middleware.GetSessionID(c)

	var userIDPtr *uuid.UUID
	if userID, ok := middleware.GetCurrentUserID(c); ok {
		userIDPtr = &userID
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	items, err := h.store.Items(c.Context(), sessionID, cart.ModeRFQ)
	if err != nil {
		return err
	}

	result, err := h.checkout.SubmitRFQ(c.Context(), services.RFQInput{
		SessionID: sessionID,
		UserID:    userIDPtr,
		Contact:   req.Contact,
		Notes:     req.Notes,
		Items:     items,
	})
	if err != nil {
		return checkoutError(err)
	}

	if clearErr := h.store.Clear(c.Context(), sessionID, cart.ModeRFQ); clearErr != nil {
		log.Printf("[Checkout] Failed to clear RFQ cart for session %s: %v", sessionID, clearErr)
	}

	return c.JSON(fiber.Map{"success": true, "data": result})
}

func checkoutError(err error) error {
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	case errors.Is(err, services.ErrMissingContact):
		return fiber.NewError(fiber.StatusBadRequest, "missing required contact fields")
	case errors.Is(err, services.ErrAuthRequired):
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, services.ErrCheckoutInFlight):
		return fiber.NewError(fiber.StatusConflict, "a checkout is already in progress")
	case errors.Is(err, services.ErrOrderPersist):
		return fiber.NewError(fiber.StatusServiceUnavailable, "we could not save your order, please try again")
	default:
		return err
	}
}
