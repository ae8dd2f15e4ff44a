package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBreakdown splits a line item's unit price into its configurable parts.
// TotalPrice is always unit price (base + surcharge) multiplied by quantity.
type PriceBreakdown struct {
	BasePrice     decimal.Decimal `json:"base_price"`
	SizeSurcharge decimal.Decimal `json:"size_surcharge"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// Customization records the frame configuration the customer picked. It
// duplicates the flat size/color/material fields on the line item together
// with the price breakdown, so the storefront can show how a price was built.
type Customization struct {
	Size      string         `json:"size"`
	Color     string         `json:"color"`
	Material  string         `json:"material"`
	Breakdown PriceBreakdown `json:"breakdown"`
}

type CartLineItem struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	Material      string          `json:"material"`
	Quantity      int             `json:"quantity"`
	Customization Customization   `json:"customization"`
	AddedAt       time.Time       `json:"added_at"`
}

// NewLineItem is the only way a line item should be built: it derives the
// unit price and the nested breakdown from the same inputs, so the flat
// fields and the customization record can never disagree.
func NewLineItem(productID, name string, basePrice, sizeSurcharge decimal.Decimal, size, color, material string, quantity int) CartLineItem {
	unit := basePrice.Add(sizeSurcharge)
	return CartLineItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: unit,
		Size:      size,
		Color:     color,
		Material:  material,
		Quantity:  quantity,
		Customization: Customization{
			Size:     size,
			Color:    color,
			Material: material,
			Breakdown: PriceBreakdown{
				BasePrice:     basePrice,
				SizeSurcharge: sizeSurcharge,
				TotalPrice:    unit.Mul(decimal.NewFromInt(int64(quantity))),
			},
		},
	}
}

func (i CartLineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	SessionID string         `json:"session_id"`
	Items     []CartLineItem `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// UpsertItem adds the item, or replaces the existing entry with the same
// product identity. Duplicate adds are last-write-wins: the incoming quantity
// and configuration replace the stored ones, they are not summed.
func (c *Cart) UpsertItem(item CartLineItem) {
	for idx := range c.Items {
		if c.Items[idx].ProductID == item.ProductID {
			c.Items[idx] = item
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveItem filters out the item with the given identity. Returns false if
// no item matched.
func (c *Cart) RemoveItem(productID string) bool {
	for idx, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity sets the quantity on the matching item and keeps the nested
// breakdown total consistent with it. The store does not validate
// quantity > 0; callers are expected to.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity = quantity
			unit := c.Items[idx].UnitPrice
			c.Items[idx].Customization.Breakdown.TotalPrice = unit.Mul(decimal.NewFromInt(int64(quantity)))
			return true
		}
	}
	return false
}

// Total sums unit price times quantity over all items. Pure function of the
// current contents; the empty cart totals zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
