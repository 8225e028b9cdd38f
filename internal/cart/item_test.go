package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func standUpPouch(qty int) LineItem {
	return LineItem{
		ProductID: "stand-up-pouch",
		Name:      "Stand Up Pouch",
		Variant: Variant{
			Shape:   "stand-up",
			Size:    "m",
			Barrier: "high",
			Finish:  "matte",
		},
		Quantity:  qty,
		UnitPrice: 0.42,
	}
}

func TestItemIDUsesIdentityAxesOnly(t *testing.T) {
	a := Variant{Shape: "stand-up", Size: "m", Barrier: "high", Finish: "matte"}
	b := Variant{Shape: "stand-up", Size: "m", Barrier: "high", Finish: "glossy", Closure: "zipper"}

	assert.Equal(t, ItemID("p1", a), ItemID("p1", b))
	assert.NotEqual(t, ItemID("p1", a), ItemID("p2", a))
	assert.NotEqual(t, ItemID("p1", a), ItemID("p1", Variant{Shape: "stand-up", Size: "l", Barrier: "high"}))
}

func TestAddOrMergeAccumulatesMatchingLine(t *testing.T) {
	items := AddOrMerge(nil, standUpPouch(500))
	items = AddOrMerge(items, standUpPouch(250))

	assert.Len(t, items, 1)
	assert.Equal(t, 750, items[0].Quantity)
	assert.InDelta(t, 750*0.42, items[0].TotalPrice, 1e-9)
}

func TestAddOrMergeAppendsDifferentVariant(t *testing.T) {
	other := standUpPouch(100)
	other.Variant.Size = "l"

	items := AddOrMerge(nil, standUpPouch(500))
	items = AddOrMerge(items, other)

	assert.Len(t, items, 2)
}

func TestAddOrMergeDerivesIDAndTotal(t *testing.T) {
	items := AddOrMerge(nil, standUpPouch(500))

	assert.Equal(t, "stand-up-pouch-stand-up-m-high", items[0].ID)
	assert.InDelta(t, 500*0.42, items[0].TotalPrice, 1e-9)
}

func TestUpdateQuantity(t *testing.T) {
	items := AddOrMerge(nil, standUpPouch(500))
	id := items[0].ID

	items = UpdateQuantity(items, id, 1000)
	assert.Equal(t, 1000, items[0].Quantity)
	assert.InDelta(t, 1000*0.42, items[0].TotalPrice, 1e-9)

	// Unknown IDs change nothing.
	items = UpdateQuantity(items, "no-such-line", 5)
	assert.Equal(t, 1000, items[0].Quantity)

	// Zero removes the line.
	items = UpdateQuantity(items, id, 0)
	assert.Empty(t, items)
}

func TestRemoveIsIdempotent(t *testing.T) {
	items := AddOrMerge(nil, standUpPouch(500))
	id := items[0].ID

	items = Remove(items, id)
	assert.Empty(t, items)

	items = Remove(items, id)
	assert.Empty(t, items)
}

func TestCountAndTotal(t *testing.T) {
	other := standUpPouch(100)
	other.Variant.Shape = "flat-bottom"
	other.UnitPrice = 0.8

	items := AddOrMerge(nil, standUpPouch(500))
	items = AddOrMerge(items, other)

	assert.Equal(t, 600, Count(items))
	assert.InDelta(t, 500*0.42+100*0.8, Total(items), 1e-9)
}
