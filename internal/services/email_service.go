package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/example/achievepack/internal/cart"
)

const brevoSendURL = "https://api.brevo.com/v3/smtp/email"

// EmailService sends transactional email through the Brevo SMTP API.
// All sends are best-effort: failures are logged, never propagated to the
// customer-facing flow.
type EmailService struct {
	apiKey      string
	senderEmail string
	senderName  string
	adminEmail  string
	apiURL      string
	client      *http.Client
}

// NewEmailService creates a new EmailService.
func NewEmailService(apiKey, senderEmail, senderName, adminEmail string) *EmailService {
	return &EmailService{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		adminEmail:  adminEmail,
		apiURL:      brevoSendURL,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

type brevoRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoMessage struct {
	Sender      brevoRecipient   `json:"sender"`
	To          []brevoRecipient `json:"to"`
	Subject     string           `json:"subject"`
	HTMLContent string           `json:"htmlContent"`
}

// OrderEmailData contains order data for the confirmation/fallback email.
type OrderEmailData struct {
	OrderNumber    string
	CustomerEmail  string
	CustomerName   string
	Items          []cart.LineItem
	TotalAmount    float64
	PaymentPending bool
}

// RFQEmailData contains quote-request data for the RFQ email.
type RFQEmailData struct {
	RFQNumber      string
	ContactEmail   string
	ContactName    string
	ContactCompany string
	Items          []cart.LineItem
	EstimatedTotal float64
	Notes          string
}

// SendOrderEmail notifies the customer (and the admin inbox) about a new
// order. With PaymentPending set the email carries the manual follow-up
// note used when the payment gateway was unavailable.
func (s *EmailService) SendOrderEmail(ctx context.Context, data OrderEmailData) error {
	subject := fmt.Sprintf("Order %s received", data.OrderNumber)

	var body strings.Builder
	fmt.Fprintf(&body, "<h2>Thank you for your order, %s!</h2>", data.CustomerName)
	fmt.Fprintf(&body, "<p>Order number: <b>%s</b></p>", data.OrderNumber)
	writeItemsTable(&body, data.Items)
	fmt.Fprintf(&body, "<p><b>Total: $%.2f</b></p>", data.TotalAmount)
	if data.PaymentPending {
		body.WriteString("<p>Online payment is temporarily unavailable. Our team will contact you shortly to arrange payment. Your order is reserved.</p>")
	}

	recipients := []brevoRecipient{{Email: data.CustomerEmail, Name: data.CustomerName}}
	if s.adminEmail != "" {
		recipients = append(recipients, brevoRecipient{Email: s.adminEmail})
	}

	return s.send(ctx, recipients, subject, body.String())
}

// SendRfqEmail notifies the customer and the sales inbox about a new quote
// request. The email is the durable artifact for the business even when the
// database write failed.
func (s *EmailService) SendRfqEmail(ctx context.Context, data RFQEmailData) error {
	subject := fmt.Sprintf("Quote request %s received", data.RFQNumber)

	var body strings.Builder
	fmt.Fprintf(&body, "<h2>We received your quote request, %s</h2>", data.ContactName)
	fmt.Fprintf(&body, "<p>Reference: <b>%s</b></p>", data.RFQNumber)
	if data.ContactCompany != "" {
		fmt.Fprintf(&body, "<p>Company: %s</p>", data.ContactCompany)
	}
	writeItemsTable(&body, data.Items)
	fmt.Fprintf(&body, "<p>Estimated total: $%.2f (final pricing follows in your quote)</p>", data.EstimatedTotal)
	if data.Notes != "" {
		fmt.Fprintf(&body, "<p>Notes: %s</p>", data.Notes)
	}
	body.WriteString("<p>Our team will come back to you within one business day.</p>")

	recipients := []brevoRecipient{{Email: data.ContactEmail, Name: data.ContactName}}
	if s.adminEmail != "" {
		recipients = append(recipients, brevoRecipient{Email: s.adminEmail})
	}

	return s.send(ctx, recipients, subject, body.String())
}

// SendPasswordResetEmail sends a reset link for the forgot-password flow.
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, email, resetURL string) error {
	body := fmt.Sprintf(`<h2>Reset your password</h2>
<p>Follow this link to choose a new password. It expires in one hour.</p>
<p><a href="%s">%s</a></p>
<p>If you did not request this, you can ignore this email.</p>`, resetURL, resetURL)

	return s.send(ctx, []brevoRecipient{{Email: email}}, "Reset your Achieve Pack password", body)
}

func (s *EmailService) send(ctx context.Context, to []brevoRecipient, subject, html string) error {
	if s.apiKey == "" {
		log.Println("[Email] Brevo API key not configured, skipping send")
		return nil
	}

	msg := brevoMessage{
		Sender:      brevoRecipient{Email: s.senderEmail, Name: s.senderName},
		To:          to,
		Subject:     subject,
		HTMLContent: html,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Email] Failed to send %q: %v", subject, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[Email] Brevo returned status %d for %q", resp.StatusCode, subject)
		return fmt.Errorf("brevo returned status %d", resp.StatusCode)
	}

	return nil
}

func writeItemsTable(body *strings.Builder, items []cart.LineItem) {
	body.WriteString("<table><tr><th>Product</th><th>Configuration</th><th>Qty</th><th>Line total</th></tr>")
	for _, item := range items {
		config := strings.TrimSpace(fmt.Sprintf("%s %s %s", item.Variant.Shape, item.Variant.Size, item.Variant.Barrier))
		if item.CustomSize != nil {
			config += fmt.Sprintf(" (custom %gx%g", item.CustomSize.Width, item.CustomSize.Height)
			if item.CustomSize.Gusset > 0 {
				config += fmt.Sprintf("x%g", item.CustomSize.Gusset)
			}
			config += "mm)"
		}
		fmt.Fprintf(body, "<tr><td>%s</td><td>%s</td><td>%d</td><td>$%.2f</td></tr>",
			item.Name, config, item.Quantity, item.TotalPrice)
	}
	body.WriteString("</table>")
}
