package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/achievepack/internal/cart"
)

const stripeSessionsURL = "https://api.stripe.com/v1/checkout/sessions"

// ErrStripeNotConfigured is returned when no secret key is set. Checkout
// treats it like any other gateway failure and takes the fallback path.
var ErrStripeNotConfigured = errors.New("stripe is not configured")

// CheckoutSessionParams carries everything the gateway needs to build a
// hosted payment page for one order.
type CheckoutSessionParams struct {
	OrderNumber   string
	CustomerEmail string
	Items         []cart.LineItem
}

// CheckoutSessionResult is the gateway's answer: where to send the browser.
type CheckoutSessionResult struct {
	SessionID string
	URL       string
}

// StripeService creates Stripe Checkout sessions over the REST API.
type StripeService struct {
	secretKey string
	baseURL   string
	apiURL    string
	client    *http.Client
}

// NewStripeService constructs a StripeService. baseURL is the public site
// base used for the success and cancel URLs.
func NewStripeService(secretKey, baseURL string) *StripeService {
	return &StripeService{
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiURL:    stripeSessionsURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type stripeSessionResponse struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckoutSession creates a payment session for the order and returns
// the redirect URL. The success URL carries the session reference and order
// number back to the confirmation endpoint.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSessionResult, error) {
	if s.secretKey == "" {
		return nil, ErrStripeNotConfigured
	}
	if len(params.Items) == 0 {
		return nil, errors.New("no items provided")
	}
	if params.CustomerEmail == "" {
		return nil, errors.New("customer email is required")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", fmt.Sprintf("%s/store/order-confirmation?session_id={CHECKOUT_SESSION_ID}&order=%s", s.baseURL, params.OrderNumber))
	form.Set("cancel_url", s.baseURL+"/store/checkout")
	form.Set("customer_email", params.CustomerEmail)
	form.Set("metadata[order_number]", params.OrderNumber)
	form.Set("billing_address_collection", "required")

	for i, item := range params.Items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		description := strings.TrimSpace(fmt.Sprintf("%s • %s • Qty: %d", item.Variant.Shape, item.Variant.Size, item.Quantity))
		form.Set(prefix+"[price_data][currency]", "usd")
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[price_data][product_data][description]", description)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(int64(math.Round(item.UnitPrice*100)), 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	var session stripeSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("stripe response decode failed: %w", err)
	}

	if session.Error != nil {
		return nil, fmt.Errorf("stripe error: %s", session.Error.Message)
	}
	if session.URL == "" {
		return nil, errors.New("stripe returned no redirect url")
	}

	log.Printf("[Stripe] Checkout session %s created for order %s", session.ID, params.OrderNumber)

	return &CheckoutSessionResult{SessionID: session.ID, URL: session.URL}, nil
}
