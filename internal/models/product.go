package models

import "github.com/google/uuid"

// Product is a packaging product sold in the store (stand-up pouches,
// flat-bottom bags, sample packs and so on). The cart references products
// by slug, not by row ID.
type Product struct {
	BaseModel
	Slug             string             `gorm:"uniqueIndex" json:"slug"`
	Name             string             `json:"name"`
	Category         string             `gorm:"index" json:"category"`
	ShortDescription string             `json:"short_description"`
	LongDescription  string             `json:"long_description"`
	HeroImage        string             `json:"hero_image"`
	BasePrice        float64            `json:"base_price"`
	Currency         string             `json:"currency"`
	MinOrderQty      int                `json:"min_order_qty"`
	IsStock          bool               `json:"is_stock"`
	IsActive         bool               `json:"is_active"`
	Options          []ProductOption    `json:"options,omitempty"`
	PriceTiers       []ProductPriceTier `json:"price_tiers,omitempty"`
}

// ProductOption is one value of a configuration axis (material, size,
// closure, surface, barrier, stiffness...). Axis+Value pairs drive the
// configurator on the product page.
type ProductOption struct {
	BaseModel
	ProductID     uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Axis          string    `gorm:"index" json:"axis"`
	Value         string    `json:"value"`
	Label         string    `json:"label"`
	PriceModifier float64   `json:"price_modifier"`
	SortOrder     int       `json:"sort_order"`
	RequiresQuote bool      `json:"requires_quote"`
}

// ProductPriceTier holds the pre-computed per-unit price for a quantity
// break. Pricing is computed upstream; this service only serves it.
type ProductPriceTier struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}
