// Package catalog manages the item master: pricing fields for both modes,
// soft deletion with a 24 hour trash window, and generated item IDs.
package catalog

import (
	"time"

	"github.com/subahan-billing/subahan-billing/internal/billing/pricing"
)

// RetentionWindow is how long a soft-deleted item stays restorable before
// the purge job removes it permanently.
const RetentionWindow = 24 * time.Hour

// Item is one catalog entry. Exactly one pricing mode is active: fixed mode
// stores SellingPrice verbatim, wire/box mode derives it from BuyingPrice
// and SellPercentage.
type Item struct {
	ItemID             string     `json:"item_id" db:"item_id"`
	Name               string     `json:"name" db:"name"`
	ArabicName         string     `json:"arabic_name" db:"arabic_name"`
	Unit               string     `json:"unit" db:"unit"`
	IsWireBox          bool       `json:"is_wire_box" db:"is_wire_box"`
	BuyingPrice        *float64   `json:"buying_price,omitempty" db:"buying_price"`
	SellingPrice       float64    `json:"selling_price" db:"selling_price"`
	PurchasePercentage *float64   `json:"purchase_percentage,omitempty" db:"purchase_percentage"`
	SellPercentage     *float64   `json:"sell_percentage,omitempty" db:"sell_percentage"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// EffectiveSellingPrice is the authoritative per-unit sell price: derived in
// wire/box mode, stored verbatim in fixed mode.
func (it Item) EffectiveSellingPrice() float64 {
	if it.IsWireBox && it.BuyingPrice != nil && it.SellPercentage != nil {
		return pricing.WireBoxSellingPrice(*it.BuyingPrice, *it.SellPercentage)
	}
	return it.SellingPrice
}

// ActualCost is the per-unit purchase cost, nil when unknown.
func (it Item) ActualCost() *float64 {
	if it.IsWireBox {
		return pricing.ActualPurchaseCost(it.BuyingPrice, it.PurchasePercentage)
	}
	return it.BuyingPrice
}

// Restorable reports whether the item sits in the trash window at the given
// instant.
func (it Item) Restorable(now time.Time) bool {
	return it.DeletedAt != nil && now.Sub(*it.DeletedAt) < RetentionWindow
}
