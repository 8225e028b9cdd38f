package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/achievepack/internal/cart"
	"github.com/example/achievepack/internal/middleware"
)

// CartHandler manages the dual-mode session cart endpoints.
type CartHandler struct {
	store *cart.Store
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(store *cart.Store) *CartHandler {
	return &CartHandler{store: store}
}

type addItemRequest struct {
	Mode       cart.Mode        `json:"mode"`
	ProductID  string           `json:"product_id"`
	Name       string           `json:"name"`
	Image      string           `json:"image"`
	Variant    cart.Variant     `json:"variant"`
	Quantity   int              `json:"quantity"`
	UnitPrice  float64          `json:"unit_price"`
	CustomSize *cart.CustomSize `json:"custom_size"`
}

type updateItemRequest struct {
	Mode     cart.Mode `json:"mode"`
	Quantity int       `json:"quantity"`
}

type setModeRequest struct {
	Mode cart.Mode `json:"mode"`
}

type collectionView struct {
	Items []cart.LineItem `json:"items"`
	Count int             `json:"count"`
	Total float64         `json:"total"`
}

// GetCart returns both collections plus the sidebar state. Totals are
// derived from the current items on every call; the RFQ total is an
// estimate only.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	sessionID, _ := middleware.GetSessionID(c)

	purchase, err := h.store.Items(c.Context(), sessionID, cart.ModeCart)
	if err != nil {
		return err
	}
	rfq, err := h.store.Items(c.Context(), sessionID, cart.ModeRFQ)
	if err != nil {
		return err
	}
	ui, err := h.store.UI(c.Context(), sessionID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"cart":            collectionView{Items: purchase, Count: cart.Count(purchase), Total: cart.Total(purchase)},
			"rfq":             collectionView{Items: rfq, Count: cart.Count(rfq), Total: cart.Total(rfq)},
			"active_mode":     ui.ActiveMode,
			"is_open":         ui.IsOpen,
			"rfq_total_label": "estimated",
		},
	})
}

// AddItem merges an item into the requested collection and opens the
// sidebar. The active mode is not switched here; the storefront switches it
// explicitly when routing a custom-size item to the RFQ cart.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	sessionID, _ := middleware.GetSessionID(c)

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Mode.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid cart mode")
	}
	if req.ProductID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
	}
	if req.Quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
	}
	if req.UnitPrice < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "unit_price must not be negative")
	}

	items, err := h.store.Add(c.Context(), sessionID, req.Mode, cart.LineItem{
		ProductID:  req.ProductID,
		Name:       req.Name,
		Image:      req.Image,
		Variant:    req.Variant,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		CustomSize: req.CustomSize,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    collectionView{Items: items, Count: cart.Count(items), Total: cart.Total(items)},
	})
}

// UpdateItem sets a line's quantity; zero or less removes the line.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	sessionID, _ := middleware.GetSessionID(c)

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Mode.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid cart mode")
	}

	items, err := h.store.UpdateQuantity(c.Context(), sessionID, req.Mode, c.Params("id"), req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    collectionView{Items: items, Count: cart.Count(items), Total: cart.Total(items)},
	})
}

// RemoveItem drops a line. Removing an absent line succeeds.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	sessionID, _ := middleware.GetSessionID(c)

	mode := cart.Mode(c.Query("mode", string(cart.ModeCart)))
	if !mode.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid cart mode")
	}

	items, err := h.store.Remove(c.Context(), sessionID, mode, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    collectionView{Items: items, Count: cart.Count(items), Total: cart.Total(items)},
	})
}

// ClearCart empties one collection.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	sessionID, _ := middleware.GetSessionID(c)

	mode := cart.Mode(c.Query("mode", string(cart.ModeCart)))
	if !mode.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid cart mode")
	}

	if err := h.store.Clear(c.Context(), sessionID, mode); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// SetMode switches which collection the sidebar and checkout act on.
func (h *CartHandler) SetMode(c *fiber.Ctx) error {
	sessionID, _ := middleware.GetSessionID(c)

	var req setModeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Mode.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid cart mode")
	}

	if err := h.store.SetMode(c.Context(), sessionID, req.Mode); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"active_mode": req.Mode}})
}

// CloseCart closes the sidebar.
func (h *CartHandler) CloseCart(c *fiber.Ctx) error {
	sessionID, _ := middleware.GetSessionID(c)

	if err := h.store.SetOpen(c.Context(), sessionID, false); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
