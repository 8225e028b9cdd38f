package cart

import "strings"

// Variant is the configured set of option axes for a pouch. Only Shape,
// Size and Barrier take part in line identity; the remaining axes are
// carried for display and for the order snapshot.
type Variant struct {
	Shape         string `json:"shape"`
	Size          string `json:"size"`
	Barrier       string `json:"barrier,omitempty"`
	Finish        string `json:"finish,omitempty"`
	Material      string `json:"material,omitempty"`
	Closure       string `json:"closure,omitempty"`
	Surface       string `json:"surface,omitempty"`
	Stiffness     string `json:"stiffness,omitempty"`
	Shipping      string `json:"shipping,omitempty"`
	DesignCount   int    `json:"design_count,omitempty"`
	QuantityUnits int    `json:"quantity_units,omitempty"`
	LaserScoring  string `json:"laser_scoring,omitempty"`
	Valve         string `json:"valve,omitempty"`
	HangHole      string `json:"hang_hole,omitempty"`
}

// CustomSize holds non-standard pouch dimensions in millimeters. Items with
// a custom size are quote-only.
type CustomSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Gusset float64 `json:"gusset,omitempty"`
}

// LineItem is one configured product line in a cart.
type LineItem struct {
	ID         string      `json:"id"`
	ProductID  string      `json:"product_id"`
	Name       string      `json:"name"`
	Image      string      `json:"image"`
	Variant    Variant     `json:"variant"`
	Quantity   int         `json:"quantity"`
	UnitPrice  float64     `json:"unit_price"`
	TotalPrice float64     `json:"total_price"`
	CustomSize *CustomSize `json:"custom_size,omitempty"`
}

// ItemID derives the stable line identity from the product and the three
// identity-bearing variant axes. Two additions sharing these four fields
// merge into a single line regardless of the other axes.
func ItemID(productID string, v Variant) string {
	return strings.Join([]string{productID, v.Shape, v.Size, v.Barrier}, "-")
}

// AddOrMerge adds item to the collection. When a line with the same derived
// ID exists its quantity accumulates; otherwise the item is appended. The
// line total is always recomputed from quantity and unit price.
func AddOrMerge(items []LineItem, item LineItem) []LineItem {
	if item.ID == "" {
		item.ID = ItemID(item.ProductID, item.Variant)
	}
	item.TotalPrice = float64(item.Quantity) * item.UnitPrice

	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity += item.Quantity
			items[i].TotalPrice = float64(items[i].Quantity) * items[i].UnitPrice
			return items
		}
	}

	return append(items, item)
}

// UpdateQuantity sets the quantity of the matching line and recomputes its
// total. A quantity of zero or less removes the line. Unknown IDs are a
// no-op.
func UpdateQuantity(items []LineItem, id string, quantity int) []LineItem {
	if quantity <= 0 {
		return Remove(items, id)
	}

	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = quantity
			items[i].TotalPrice = float64(quantity) * items[i].UnitPrice
			break
		}
	}

	return items
}

// Remove drops the line with the given ID. Removing an absent ID is not an
// error.
func Remove(items []LineItem, id string) []LineItem {
	result := items[:0]
	for _, item := range items {
		if item.ID != id {
			result = append(result, item)
		}
	}
	return result
}

// Count returns the summed quantity across all lines.
func Count(items []LineItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// Total returns the summed line totals. For the RFQ cart this is an
// estimate, not a chargeable amount.
func Total(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.TotalPrice
	}
	return total
}
