package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/achievepack/internal/cart"
	"github.com/example/achievepack/internal/models"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrAuthRequired     = errors.New("authentication required")
	ErrMissingContact   = errors.New("missing required contact fields")
	ErrOrderPersist     = errors.New("failed to save order")
	ErrCheckoutInFlight = errors.New("checkout already in progress")
)

// FallbackNote is shown to the customer when the payment gateway is down
// but the order record was durably written.
const FallbackNote = "Online payment is temporarily unavailable. We have received your order and will contact you shortly to arrange payment."

// PaymentGateway creates hosted payment sessions.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSessionResult, error)
}

// Mailer sends best-effort notifications.
type Mailer interface {
	SendOrderEmail(ctx context.Context, data OrderEmailData) error
	SendRfqEmail(ctx context.Context, data RFQEmailData) error
}

// ContactForm is the contact and shipping input collected at checkout.
type ContactForm struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

// Name returns the customer's display name.
func (f ContactForm) Name() string {
	return f.FirstName + " " + f.LastName
}

// CartCheckoutInput is one purchase-checkout attempt.
type CartCheckoutInput struct {
	SessionID string
	UserID    uuid.UUID
	Contact   ContactForm
	Items     []cart.LineItem
}

// CartCheckoutResult reports where the attempt ended up: either a redirect
// to the payment page, or the gateway-down fallback with a durable
// pending_payment order behind it.
type CartCheckoutResult struct {
	OrderNumber string `json:"order_number"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Fallback    bool   `json:"fallback"`
	Note        string `json:"note,omitempty"`
}

// RFQInput is one quote-request submission. UserID is nil for anonymous
// submissions, which are allowed.
type RFQInput struct {
	SessionID string
	UserID    *uuid.UUID
	Contact   ContactForm
	Notes     string
	Items     []cart.LineItem
}

// RFQResult carries the quote reference for display.
type RFQResult struct {
	RFQNumber string `json:"rfq_number"`
	Warning   string `json:"warning,omitempty"`
}

// CheckoutService drives the order-intake flow: durable record first, then
// the payment session, then graceful degradation. The order write must
// succeed before any payment session is requested; that ordering is the
// invariant preventing charged-but-unrecorded states.
type CheckoutService struct {
	repo    OrderRepository
	gateway PaymentGateway
	mailer  Mailer

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(repo OrderRepository, gateway PaymentGateway, mailer Mailer) *CheckoutService {
	return &CheckoutService{
		repo:     repo,
		gateway:  gateway,
		mailer:   mailer,
		inFlight: make(map[string]struct{}),
	}
}

// SubmitCart runs the purchase-mode checkout for one session. A second call
// for the same session while one is outstanding is rejected so double-clicks
// cannot create two orders.
func (s *CheckoutService) SubmitCart(ctx context.Context, in CartCheckoutInput) (*CartCheckoutResult, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if in.UserID == uuid.Nil {
		return nil, ErrAuthRequired
	}
	if in.Contact.Email == "" || in.Contact.FirstName == "" || in.Contact.Address == "" {
		return nil, ErrMissingContact
	}

	if !s.begin("cart:" + in.SessionID) {
		return nil, ErrCheckoutInFlight
	}
	defer s.end("cart:" + in.SessionID)

	orderNumber := GenerateOrderNumber()
	total := cart.Total(in.Items)

	order := &models.Order{
		UserID:            &in.UserID,
		OrderNumber:       orderNumber,
		Status:            models.OrderStatusPendingPayment,
		PlacedAt:          time.Now(),
		TotalAmount:       total,
		Currency:          "USD",
		CustomerEmail:     in.Contact.Email,
		CustomerName:      in.Contact.Name(),
		ShippingFirstName: in.Contact.FirstName,
		ShippingLastName:  in.Contact.LastName,
		ShippingCompany:   in.Contact.Company,
		ShippingAddress:   in.Contact.Address,
		ShippingCity:      in.Contact.City,
		ShippingCountry:   in.Contact.Country,
		ShippingPostal:    in.Contact.PostalCode,
		ShippingPhone:     in.Contact.Phone,
		Items:             snapshotOrderItems(in.Items),
	}

	// The durable record must exist before any payment step. If this write
	// fails nothing else may happen: no session, no email, no cart clear.
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		log.Printf("[Checkout] Order persist failed for %s: %v", orderNumber, err)
		return nil, fmt.Errorf("%w: %v", ErrOrderPersist, err)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionParams{
		OrderNumber:   orderNumber,
		CustomerEmail: in.Contact.Email,
		Items:         in.Items,
	})
	if err != nil || session == nil || session.URL == "" {
		log.Printf("[Checkout] Payment session unavailable for %s, taking fallback path: %v", orderNumber, err)

		if mailErr := s.mailer.SendOrderEmail(ctx, OrderEmailData{
			OrderNumber:    orderNumber,
			CustomerEmail:  in.Contact.Email,
			CustomerName:   in.Contact.Name(),
			Items:          in.Items,
			TotalAmount:    total,
			PaymentPending: true,
		}); mailErr != nil {
			log.Printf("[Checkout] Fallback order email failed for %s: %v", orderNumber, mailErr)
		}

		return &CartCheckoutResult{
			OrderNumber: orderNumber,
			Fallback:    true,
			Note:        FallbackNote,
		}, nil
	}

	return &CartCheckoutResult{
		OrderNumber: orderNumber,
		RedirectURL: session.URL,
	}, nil
}

// SubmitRFQ runs the quote-request flow. No authentication is required; the
// quote record write is best-effort because the RFQ email is the durable
// artifact for the business.
func (s *CheckoutService) SubmitRFQ(ctx context.Context, in RFQInput) (*RFQResult, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if in.Contact.Email == "" || in.Contact.FirstName == "" {
		return nil, ErrMissingContact
	}

	if !s.begin("rfq:" + in.SessionID) {
		return nil, ErrCheckoutInFlight
	}
	defer s.end("rfq:" + in.SessionID)

	rfqNumber := GenerateRFQNumber()
	estimated := cart.Total(in.Items)

	quote := &models.QuoteRequest{
		UserID:          in.UserID,
		RFQNumber:       rfqNumber,
		Status:          models.QuoteStatusPending,
		SubmittedAt:     time.Now(),
		EstimatedTotal:  estimated,
		Currency:        "USD",
		ContactEmail:    in.Contact.Email,
		ContactName:     in.Contact.Name(),
		ContactCompany:  in.Contact.Company,
		ContactPhone:    in.Contact.Phone,
		ShippingAddress: in.Contact.Address,
		ShippingCity:    in.Contact.City,
		ShippingCountry: in.Contact.Country,
		ShippingPostal:  in.Contact.PostalCode,
		Notes:           in.Notes,
		Items:           snapshotQuoteItems(in.Items),
	}

	var warning string
	if err := s.repo.CreateQuoteRequest(ctx, quote); err != nil {
		// Not fatal: the notification below still carries the request.
		log.Printf("[Checkout] Quote persist failed for %s: %v", rfqNumber, err)
		warning = "Your request was received but could not be saved to your dashboard."
	}

	if err := s.mailer.SendRfqEmail(ctx, RFQEmailData{
		RFQNumber:      rfqNumber,
		ContactEmail:   in.Contact.Email,
		ContactName:    in.Contact.Name(),
		ContactCompany: in.Contact.Company,
		Items:          in.Items,
		EstimatedTotal: estimated,
		Notes:          in.Notes,
	}); err != nil {
		log.Printf("[Checkout] RFQ email failed for %s: %v", rfqNumber, err)
	}

	return &RFQResult{RFQNumber: rfqNumber, Warning: warning}, nil
}

func (s *CheckoutService) begin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *CheckoutService) end(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

// GenerateOrderNumber returns a new order number in the AP-YYYYMMDD-NNNN
// format. Collisions are not checked synchronously; the number doubles as
// the idempotency key for the payment step.
func GenerateOrderNumber() string {
	return generateNumber("AP")
}

// GenerateRFQNumber returns a new quote reference in the RFQ-YYYYMMDD-NNNN
// format.
func GenerateRFQNumber() string {
	return generateNumber("RFQ")
}

func generateNumber(prefix string) string {
	dateStr := time.Now().Format("20060102")
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/rand should not fail; fall back to a clock-derived suffix.
		return fmt.Sprintf("%s-%s-%04d", prefix, dateStr, time.Now().UnixNano()%10000)
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, dateStr, n.Int64())
}

func snapshotOrderItems(items []cart.LineItem) []models.OrderItem {
	result := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		variant, _ := json.Marshal(item.Variant)
		snapshot := models.OrderItem{
			LineID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Image:       item.Image,
			Variant:     variant,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.TotalPrice,
		}
		if item.CustomSize != nil {
			snapshot.CustomWidth = item.CustomSize.Width
			snapshot.CustomHeight = item.CustomSize.Height
			snapshot.CustomGusset = item.CustomSize.Gusset
		}
		result = append(result, snapshot)
	}
	return result
}

func snapshotQuoteItems(items []cart.LineItem) []models.QuoteItem {
	result := make([]models.QuoteItem, 0, len(items))
	for _, item := range items {
		variant, _ := json.Marshal(item.Variant)
		snapshot := models.QuoteItem{
			LineID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Image:       item.Image,
			Variant:     variant,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.TotalPrice,
		}
		if item.CustomSize != nil {
			snapshot.CustomWidth = item.CustomSize.Width
			snapshot.CustomHeight = item.CustomSize.Height
			snapshot.CustomGusset = item.CustomSize.Gusset
		}
		result = append(result, snapshot)
	}
	return result
}
