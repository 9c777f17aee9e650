// Package billing turns draft lines into persisted bills and keeps the
// total equal to the sum of its line subtotals.
package billing

import (
	"fmt"

	"github.com/subahan-billing/subahan-billing/internal/catalog"
	"github.com/subahan-billing/subahan-billing/internal/platform/httpx"
)

// ErrEmptyBill rejects a bill with no resolved lines. It wraps the
// validation sentinel so the HTTP layer answers 400.
var ErrEmptyBill = fmt.Errorf("billing: bill has no items: %w", httpx.ErrValidation)

// Total folds the line subtotals. Zero-quantity and zero-price lines
// contribute zero; they are legal, just worthless.
func Total(lines []DraftLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Subtotal()
	}
	return total
}

// ValidateLines checks that at least one line resolved to a catalog item.
// It never rejects zero quantities or prices.
func ValidateLines(lines []DraftLine) error {
	for _, line := range lines {
		if line.ItemID != "" {
			return nil
		}
	}
	return ErrEmptyBill
}

// MaterializeLine snapshots a catalog item into a draft line. The snapshot
// is taken once, at selection time: later catalog edits do not reach into
// an open draft.
func MaterializeLine(item catalog.Item, quantity float64) DraftLine {
	base := item.EffectiveSellingPrice()
	return DraftLine{
		ItemID:             item.ItemID,
		ItemName:           item.Name,
		ArabicName:         item.ArabicName,
		Unit:               item.Unit,
		Quantity:           quantity,
		UnitPrice:          base,
		BaseSellingPrice:   base,
		PurchasePrice:      item.BuyingPrice,
		PurchasePercentage: item.PurchasePercentage,
		SellPercentage:     item.SellPercentage,
		IsWireBox:          item.IsWireBox,
	}
}

// RehydrateForEdit rebuilds a draft line from a stored bill item. The cost
// basis is re-snapshotted from the catalog item as it exists today, while
// the operator-chosen unit price and quantity survive untouched. A nil
// current item (deleted from the catalog since) keeps the stored snapshot.
func RehydrateForEdit(it BillItem, current *catalog.Item) DraftLine {
	line := DraftLine{
		ItemID:             it.ItemID,
		ItemName:           it.ItemName,
		ArabicName:         it.ArabicName,
		Unit:               it.Unit,
		Quantity:           it.Quantity,
		UnitPrice:          it.UnitPrice,
		BaseSellingPrice:   it.BaseSellingPrice,
		PurchasePrice:      it.BuyingPrice,
		PurchasePercentage: it.PurchasePercentage,
		// A persisted percentage means the snapshot came from a
		// wire/box item; keep it alive so re-persisting the line
		// does not strip the cost basis.
		IsWireBox: it.PurchasePercentage != nil,
	}
	if current == nil {
		return line
	}

	line.ItemName = current.Name
	line.ArabicName = current.ArabicName
	line.Unit = current.Unit
	line.BaseSellingPrice = current.EffectiveSellingPrice()
	line.PurchasePrice = current.BuyingPrice
	line.PurchasePercentage = current.PurchasePercentage
	line.SellPercentage = current.SellPercentage
	line.IsWireBox = current.IsWireBox
	return line
}
