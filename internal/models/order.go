package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. An order is created as pending_payment before any payment
// redirect is attempted and only the confirmation flow moves it to confirmed.
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusFailed         = "failed"
)

type Order struct {
	BaseModel
	UserID            *uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	User              *User       `json:"user,omitempty"`
	OrderNumber       string      `gorm:"uniqueIndex" json:"order_number"`
	Status            string      `gorm:"index" json:"status"`
	PlacedAt          time.Time   `json:"placed_at"`
	TotalAmount       float64     `json:"total_amount"`
	Currency          string      `json:"currency"`
	CustomerEmail     string      `gorm:"index" json:"customer_email"`
	CustomerName      string      `json:"customer_name"`
	ShippingFirstName string      `json:"shipping_first_name"`
	ShippingLastName  string      `json:"shipping_last_name"`
	ShippingCompany   string      `json:"shipping_company"`
	ShippingAddress   string      `json:"shipping_address"`
	ShippingCity      string      `json:"shipping_city"`
	ShippingCountry   string      `json:"shipping_country"`
	ShippingPostal    string      `json:"shipping_postal"`
	ShippingPhone     string      `json:"shipping_phone"`
	PaymentSessionRef string      `json:"payment_session_ref"`
	PaymentNote       string      `json:"payment_note"`
	ConfirmedAt       *time.Time  `json:"confirmed_at"`
	Items             []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID      uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	LineID       string    `json:"line_id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Image        string    `json:"image"`
	Variant      []byte    `gorm:"type:jsonb" json:"variant"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	LineTotal    float64   `json:"line_total"`
	CustomWidth  float64   `json:"custom_width"`
	CustomHeight float64   `json:"custom_height"`
	CustomGusset float64   `json:"custom_gusset"`
}
