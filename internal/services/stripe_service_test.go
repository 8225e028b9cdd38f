package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/achievepack/internal/cart"
)

func stripeTestService(t *testing.T, handler http.HandlerFunc) *StripeService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewStripeService("sk_test_123", "https://achievepack.example")
	svc.apiURL = server.URL
	return svc
}

func TestCreateCheckoutSession(t *testing.T) {
	var form map[string][]string
	svc := stripeTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/pay/cs_test_1"}`))
	})

	result, err := svc.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		OrderNumber:   "AP-20260828-0001",
		CustomerEmail: "buyer@example.com",
		Items: []cart.LineItem{{
			Name:      "Stand Up Pouch",
			Variant:   cart.Variant{Shape: "stand-up", Size: "m"},
			Quantity:  500,
			UnitPrice: 0.42,
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", result.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", result.URL)

	assert.Equal(t, []string{"payment"}, form["mode"])
	assert.Equal(t, []string{"buyer@example.com"}, form["customer_email"])
	assert.Equal(t, []string{"AP-20260828-0001"}, form["metadata[order_number]"])
	assert.Equal(t, []string{"https://achievepack.example/store/order-confirmation?session_id={CHECKOUT_SESSION_ID}&order=AP-20260828-0001"}, form["success_url"])
	// Unit price is converted to cents.
	assert.Equal(t, []string{"42"}, form["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, []string{"500"}, form["line_items[0][quantity]"])
}

func TestCreateCheckoutSessionStripeError(t *testing.T) {
	svc := stripeTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"Your card was declined."}}`))
	})

	_, err := svc.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		OrderNumber:   "AP-20260828-0002",
		CustomerEmail: "buyer@example.com",
		Items:         []cart.LineItem{{Name: "Pouch", Quantity: 1, UnitPrice: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Your card was declined")
}

func TestCreateCheckoutSessionMissingURL(t *testing.T) {
	svc := stripeTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id":"cs_test_2"}`))
	})

	_, err := svc.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		OrderNumber:   "AP-20260828-0003",
		CustomerEmail: "buyer@example.com",
		Items:         []cart.LineItem{{Name: "Pouch", Quantity: 1, UnitPrice: 1}},
	})
	assert.Error(t, err)
}

func TestCreateCheckoutSessionUnconfigured(t *testing.T) {
	svc := NewStripeService("", "https://achievepack.example")

	_, err := svc.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		OrderNumber:   "AP-20260828-0004",
		CustomerEmail: "buyer@example.com",
		Items:         []cart.LineItem{{Name: "Pouch", Quantity: 1, UnitPrice: 1}},
	})
	assert.ErrorIs(t, err, ErrStripeNotConfigured)
}
