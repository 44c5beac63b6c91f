package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one pending (listing, vendor, quantity) selection of a customer.
// There is at most one line per (customer, listing, vendor).
type CartLine struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CustomerID uint      `json:"customer_id" gorm:"not null;uniqueIndex:idx_cart_lines_owner_item"`
	ListingID  uint      `json:"listing_id" gorm:"not null;uniqueIndex:idx_cart_lines_owner_item"`
	VendorID   uint      `json:"vendor_id" gorm:"not null;uniqueIndex:idx_cart_lines_owner_item"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CartLineView is a cart line priced against the live catalog.
type CartLineView struct {
	LineID     uint            `json:"line_id"`
	ListingID  uint            `json:"listing_id"`
	VendorID   uint            `json:"vendor_id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	VendorName string          `json:"vendor_name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total" gorm:"-"`
}

// CartSummary is the customer's cart with line and grand totals.
type CartSummary struct {
	Lines      []CartLineView  `json:"lines"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Summarize prices every line and sums the grand total.
func Summarize(lines []CartLineView) CartSummary {
	total := decimal.Zero
	for i := range lines {
		lines[i].LineTotal = lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
		total = total.Add(lines[i].LineTotal)
	}
	if lines == nil {
		lines = []CartLineView{}
	}
	return CartSummary{Lines: lines, GrandTotal: total}
}
