package models

import (
	"time"

	"github.com/google/uuid"
)

// QuoteRequest statuses. This service only ever creates pending quotes;
// further transitions belong to back-office tooling.
const QuoteStatusPending = "pending"

// QuoteRequest is a request-for-quotation submitted from the RFQ cart.
// Anonymous submissions are allowed, so UserID may be nil.
type QuoteRequest struct {
	BaseModel
	UserID            *uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	RFQNumber         string      `gorm:"uniqueIndex" json:"rfq_number"`
	Status            string      `gorm:"index" json:"status"`
	SubmittedAt       time.Time   `json:"submitted_at"`
	EstimatedTotal    float64     `json:"estimated_total"`
	Currency          string      `json:"currency"`
	ContactEmail      string      `gorm:"index" json:"contact_email"`
	ContactName       string      `json:"contact_name"`
	ContactCompany    string      `json:"contact_company"`
	ContactPhone      string      `json:"contact_phone"`
	ShippingAddress   string      `json:"shipping_address"`
	ShippingCity      string      `json:"shipping_city"`
	ShippingCountry   string      `json:"shipping_country"`
	ShippingPostal    string      `json:"shipping_postal"`
	Notes             string      `json:"notes"`
	Items             []QuoteItem `json:"items,omitempty"`
}

type QuoteItem struct {
	BaseModel
	QuoteRequestID uuid.UUID `gorm:"type:uuid;index" json:"quote_request_id"`
	LineID         string    `json:"line_id"`
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Image          string    `json:"image"`
	Variant        []byte    `gorm:"type:jsonb" json:"variant"`
	Quantity       int       `json:"quantity"`
	UnitPrice      float64   `json:"unit_price"`
	LineTotal      float64   `json:"line_total"`
	CustomWidth    float64   `json:"custom_width"`
	CustomHeight   float64   `json:"custom_height"`
	CustomGusset   float64   `json:"custom_gusset"`
}
