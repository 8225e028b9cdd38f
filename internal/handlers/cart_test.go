package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/achievepack/internal/cart"
	"github.com/example/achievepack/internal/middleware"
)

type memoryStorage struct {
	data map[string][]byte
}

func (m *memoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memoryStorage) Save(_ context.Context, key string, data []byte) error {
	m.data[key] = data
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func newCartTestApp() *fiber.App {
	store := cart.NewStore(&memoryStorage{data: make(map[string][]byte)})
	handler := NewCartHandler(store)

	app := fiber.New()
	group := app.Group("/api/cart", middleware.SessionMiddleware())
	group.Get("/", handler.GetCart)
	group.Post("/items", handler.AddItem)
	group.Put("/items/:id", handler.UpdateItem)
	group.Delete("/items/:id", handler.RemoveItem)
	group.Post("/clear", handler.ClearCart)
	group.Put("/mode", handler.SetMode)
	group.Put("/close", handler.CloseCart)
	return app
}

func cartRequest(t *testing.T, app *fiber.App, method, path, sessionID string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func TestCartRequiresSessionHeader(t *testing.T) {
	app := newCartTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/cart/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCartAddMergeAndGet(t *testing.T) {
	app := newCartTestApp()

	item := fiber.Map{
		"mode":       "cart",
		"product_id": "stand-up-pouch",
		"name":       "Stand Up Pouch",
		"variant":    fiber.Map{"shape": "stand-up", "size": "m", "barrier": "high"},
		"quantity":   500,
		"unit_price": 0.42,
	}

	resp, _ := cartRequest(t, app, http.MethodPost, "/api/cart/items", "sess-1", item)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Adding the same configuration again merges rather than duplicates.
	_, payload := cartRequest(t, app, http.MethodPost, "/api/cart/items", "sess-1", item)
	data := payload["data"].(map[string]any)
	items := data["items"].([]any)
	require.Len(t, items, 1)
	assert.EqualValues(t, 1000, data["count"])

	resp, payload = cartRequest(t, app, http.MethodGet, "/api/cart/", "sess-1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data = payload["data"].(map[string]any)

	purchase := data["cart"].(map[string]any)
	assert.EqualValues(t, 1000, purchase["count"])
	assert.InDelta(t, 1000*0.42, purchase["total"].(float64), 1e-6)

	rfq := data["rfq"].(map[string]any)
	assert.EqualValues(t, 0, rfq["count"])

	// Adding opened the sidebar; mode stays on the purchase cart.
	assert.Equal(t, true, data["is_open"])
	assert.Equal(t, "cart", data["active_mode"])
	assert.Equal(t, "estimated", data["rfq_total_label"])
}

func TestCartAddValidation(t *testing.T) {
	app := newCartTestApp()

	cases := []fiber.Map{
		{"mode": "wishlist", "product_id": "p", "quantity": 1},
		{"mode": "cart", "quantity": 1},
		{"mode": "cart", "product_id": "p", "quantity": 0},
		{"mode": "cart", "product_id": "p", "quantity": 1, "unit_price": -1},
	}
	for _, body := range cases {
		resp, _ := cartRequest(t, app, http.MethodPost, "/api/cart/items", "sess-1", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestCartUpdateAndRemove(t *testing.T) {
	app := newCartTestApp()

	_, payload := cartRequest(t, app, http.MethodPost, "/api/cart/items", "sess-1", fiber.Map{
		"mode":       "cart",
		"product_id": "stand-up-pouch",
		"variant":    fiber.Map{"shape": "stand-up", "size": "m", "barrier": "high"},
		"quantity":   500,
		"unit_price": 0.42,
	})
	items := payload["data"].(map[string]any)["items"].([]any)
	id := items[0].(map[string]any)["id"].(string)

	_, payload = cartRequest(t, app, http.MethodPut, "/api/cart/items/"+id, "sess-1", fiber.Map{
		"mode":     "cart",
		"quantity": 250,
	})
	assert.EqualValues(t, 250, payload["data"].(map[string]any)["count"])

	resp, payload := cartRequest(t, app, http.MethodDelete, "/api/cart/items/"+id+"?mode=cart", "sess-1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, payload["data"].(map[string]any)["items"])

	// Removing again is still a 200.
	resp, _ = cartRequest(t, app, http.MethodDelete, "/api/cart/items/"+id+"?mode=cart", "sess-1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCartClearOnlyTouchesOneMode(t *testing.T) {
	app := newCartTestApp()

	add := func(mode string) {
		cartRequest(t, app, http.MethodPost, "/api/cart/items", "sess-1", fiber.Map{
			"mode":       mode,
			"product_id": "stand-up-pouch",
			"variant":    fiber.Map{"shape": "stand-up", "size": "m"},
			"quantity":   100,
			"unit_price": 0.5,
		})
	}
	add("cart")
	add("rfq")

	resp, _ := cartRequest(t, app, http.MethodPost, "/api/cart/clear?mode=rfq", "sess-1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, payload := cartRequest(t, app, http.MethodGet, "/api/cart/", "sess-1", nil)
	data := payload["data"].(map[string]any)
	assert.EqualValues(t, 0, data["rfq"].(map[string]any)["count"])
	assert.EqualValues(t, 100, data["cart"].(map[string]any)["count"])
}

func TestCartSetModeAndClose(t *testing.T) {
	app := newCartTestApp()

	resp, payload := cartRequest(t, app, http.MethodPut, "/api/cart/mode", "sess-1", fiber.Map{"mode": "rfq"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rfq", payload["data"].(map[string]any)["active_mode"])

	resp, _ = cartRequest(t, app, http.MethodPut, "/api/cart/mode", "sess-1", fiber.Map{"mode": "bogus"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = cartRequest(t, app, http.MethodPut, "/api/cart/close", "sess-1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, payload = cartRequest(t, app, http.MethodGet, "/api/cart/", "sess-1", nil)
	data := payload["data"].(map[string]any)
	assert.Equal(t, false, data["is_open"])
	assert.Equal(t, "rfq", data["active_mode"])
}
