// Package pricing derives the money figures for a bill line from its
// pricing-mode inputs. All functions are pure; a nil buying price means
// "cost unknown" and propagates as a nil profit, which is distinct from zero.
package pricing

// clampPercent bounds a discount percentage to [0,100].
func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ActualPurchaseCost computes the real per-unit cost from a base buying price
// and an optional purchase discount percentage. A nil buyingPrice yields nil:
// the cost is unknown and profit cannot be computed.
func ActualPurchaseCost(buyingPrice, purchasePercentage *float64) *float64 {
	if buyingPrice == nil {
		return nil
	}
	pct := 0.0
	if purchasePercentage != nil {
		pct = clampPercent(*purchasePercentage)
	}
	cost := *buyingPrice * (1 - pct/100)
	if cost < 0 {
		cost = 0
	}
	return &cost
}

// EffectiveUnitPrice applies a direct per-unit discount to a unit price.
// The result never goes below zero.
func EffectiveUnitPrice(unitPrice, discountPerUnit float64) float64 {
	price := unitPrice - discountPerUnit
	if price < 0 {
		return 0
	}
	return price
}

// DiscountPerUnit reconstructs the display-only per-unit discount for a
// persisted bill item, where only the undiscounted base selling price and the
// operator-chosen unit price survive.
func DiscountPerUnit(baseSellingPrice, unitPrice float64) float64 {
	d := baseSellingPrice - unitPrice
	if d < 0 {
		return 0
	}
	return d
}

// LineSubtotal is max(0, unitPrice) * quantity. A non-positive unit price
// contributes zero to the bill, never a negative amount. Quantity is not
// clamped here: a negative quantity is a caller validation error.
func LineSubtotal(quantity, unitPrice float64) float64 {
	if unitPrice < 0 {
		unitPrice = 0
	}
	return unitPrice * quantity
}

// LineProfit computes (unitPrice - actual cost) * quantity. It returns nil
// when the buying price is unknown. Profit may be negative: selling below
// cost is permitted and must be surfaced.
func LineProfit(unitPrice, quantity float64, buyingPrice, purchasePercentage *float64) *float64 {
	cost := ActualPurchaseCost(buyingPrice, purchasePercentage)
	if cost == nil {
		return nil
	}
	profit := (unitPrice - *cost) * quantity
	return &profit
}

// WireBoxSellingPrice derives the authoritative sell price for a wire/box
// item: the base price discounted by the sell percentage. Fixed-mode items
// use their stored selling price verbatim instead.
func WireBoxSellingPrice(buyingPrice, sellPercentage float64) float64 {
	return buyingPrice * (1 - clampPercent(sellPercentage)/100)
}
