package billing

import (
	"time"

	"github.com/subahan-billing/subahan-billing/internal/billing/pricing"
)

// DraftLine is one row of a bill under construction. It carries a snapshot
// of the catalog item's cost fields taken when the operator selected the
// item, so later catalog edits do not move a draft that is already priced.
type DraftLine struct {
	ItemID             string   `json:"item_id"`
	ItemName           string   `json:"item_name"`
	ArabicName         string   `json:"arabic_name"`
	Unit               string   `json:"unit"`
	Quantity           float64  `json:"quantity"`
	UnitPrice          float64  `json:"unit_price"`
	BaseSellingPrice   float64  `json:"base_selling_price"`
	PurchasePrice      *float64 `json:"purchase_price,omitempty"`
	PurchasePercentage *float64 `json:"purchase_percentage,omitempty"`
	SellPercentage     *float64 `json:"sell_percentage,omitempty"`
	IsWireBox          bool     `json:"is_wire_box"`
}

// Subtotal is the draft line's contribution to the running total.
func (l DraftLine) Subtotal() float64 {
	return pricing.LineSubtotal(l.Quantity, l.UnitPrice)
}

// Profit is the draft line's margin, nil when cost is unknown.
func (l DraftLine) Profit() *float64 {
	cost := l.PurchasePrice
	pct := l.PurchasePercentage
	if !l.IsWireBox {
		pct = nil
	}
	return pricing.LineProfit(l.UnitPrice, l.Quantity, cost, pct)
}

// BillItem is the persisted form of a line. Everything the invoice needs is
// denormalized here so historical bills keep printing the same numbers even
// after the catalog item is edited or deleted.
type BillItem struct {
	ID                 int64    `json:"id" db:"id"`
	BillID             string   `json:"bill_id" db:"bill_id"`
	ItemID             string   `json:"item_id" db:"item_id"`
	ItemName           string   `json:"item_name" db:"item_name"`
	ArabicName         string   `json:"arabic_name" db:"arabic_name"`
	Unit               string   `json:"unit" db:"unit"`
	Quantity           float64  `json:"quantity" db:"quantity"`
	UnitPrice          float64  `json:"unit_price" db:"unit_price"`
	BaseSellingPrice   float64  `json:"base_selling_price" db:"base_selling_price"`
	BuyingPrice        *float64 `json:"buying_price,omitempty" db:"buying_price"`
	PurchasePercentage *float64 `json:"purchase_percentage,omitempty" db:"purchase_percentage"`
	LineOrder          int      `json:"line_order" db:"line_order"`
}

// Subtotal is the line's contribution to the bill total.
func (it BillItem) Subtotal() float64 {
	return pricing.LineSubtotal(it.Quantity, it.UnitPrice)
}

// DiscountPerUnit reconstructs the display-only discount from the snapshot
// base price. Never negative: selling above base shows no discount.
func (it BillItem) DiscountPerUnit() float64 {
	return pricing.DiscountPerUnit(it.BaseSellingPrice, it.UnitPrice)
}

// Profit is the line's margin, nil when the cost was unknown at bill time.
func (it BillItem) Profit() *float64 {
	return pricing.LineProfit(it.UnitPrice, it.Quantity, it.BuyingPrice, it.PurchasePercentage)
}

type Bill struct {
	ID          string     `json:"id" db:"id"`
	Customer    *string    `json:"customer,omitempty" db:"customer"`
	TotalAmount float64    `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	Items       []BillItem `json:"items,omitempty" db:"-"`
}
