package billing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subahan-billing/subahan-billing/internal/catalog"
	"github.com/subahan-billing/subahan-billing/internal/platform/httpx"
)

func fp(v float64) *float64 { return &v }

func TestTotalFoldsSubtotals(t *testing.T) {
	lines := []DraftLine{
		{ItemID: "A", Quantity: 3, UnitPrice: 1.5},
		{ItemID: "B", Quantity: 2, UnitPrice: 9.2},
		{ItemID: "C", Quantity: 5, UnitPrice: 0},
		{ItemID: "D", Quantity: 1, UnitPrice: -2},
	}
	assert.InDelta(t, 22.9, Total(lines), 0.0005)
}

func TestValidateLinesEmptyBill(t *testing.T) {
	err := ValidateLines(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyBill))
	assert.True(t, errors.Is(err, httpx.ErrValidation))

	err = ValidateLines([]DraftLine{{Quantity: 2}, {UnitPrice: 5}})
	assert.True(t, errors.Is(err, ErrEmptyBill))

	err = ValidateLines([]DraftLine{{}, {ItemID: "A"}})
	assert.NoError(t, err)
}

func TestValidateLinesAllowsZeroLines(t *testing.T) {
	assert.NoError(t, ValidateLines([]DraftLine{{ItemID: "A", Quantity: 0, UnitPrice: 0}}))
}

func TestMaterializeLineFixedMode(t *testing.T) {
	item := catalog.Item{
		ItemID:       "NAIL50",
		Name:         "Nail 50mm",
		ArabicName:   "مسمار",
		Unit:         "pcs",
		BuyingPrice:  fp(1.0),
		SellingPrice: 1.5,
	}

	line := MaterializeLine(item, 3)
	assert.Equal(t, "NAIL50", line.ItemID)
	assert.Equal(t, 1.5, line.UnitPrice)
	assert.Equal(t, 1.5, line.BaseSellingPrice)
	assert.InDelta(t, 4.5, line.Subtotal(), 0.0005)
	require.NotNil(t, line.Profit())
	assert.InDelta(t, 1.5, *line.Profit(), 0.0005)
}

func TestMaterializeLineWireBox(t *testing.T) {
	item := catalog.Item{
		ItemID:             "WIRE1",
		Name:               "Wire",
		ArabicName:         "سلك",
		Unit:               "roll",
		IsWireBox:          true,
		BuyingPrice:        fp(10.0),
		PurchasePercentage: fp(9),
		SellPercentage:     fp(8),
	}

	line := MaterializeLine(item, 2)
	assert.InDelta(t, 9.2, line.UnitPrice, 0.0005)
	assert.InDelta(t, 18.4, line.Subtotal(), 0.0005)
	require.NotNil(t, line.Profit())
	assert.InDelta(t, 0.2, *line.Profit(), 0.0005)
}

func TestMaterializeLineUnknownCost(t *testing.T) {
	item := catalog.Item{ItemID: "MYST", Name: "Mystery", SellingPrice: 4}
	line := MaterializeLine(item, 2)
	assert.Nil(t, line.Profit())
}

func TestRehydrateForEditResnapshotsCostBasis(t *testing.T) {
	stored := BillItem{
		ItemID:           "NAIL50",
		ItemName:         "Old Name",
		Quantity:         3,
		UnitPrice:        1.4,
		BaseSellingPrice: 1.5,
		BuyingPrice:      fp(1.0),
	}
	current := catalog.Item{
		ItemID:       "NAIL50",
		Name:         "New Name",
		Unit:         "pcs",
		BuyingPrice:  fp(1.2),
		SellingPrice: 1.8,
	}

	line := RehydrateForEdit(stored, &current)
	// Operator figures survive.
	assert.Equal(t, 1.4, line.UnitPrice)
	assert.Equal(t, 3.0, line.Quantity)
	// Cost basis and display fields come from today's catalog.
	assert.Equal(t, "New Name", line.ItemName)
	assert.Equal(t, 1.2, *line.PurchasePrice)
	assert.Equal(t, 1.8, line.BaseSellingPrice)
}

func TestRehydrateForEditMissingItemKeepsSnapshot(t *testing.T) {
	stored := BillItem{
		ItemID:             "GONE1",
		ItemName:           "Gone",
		Quantity:           2,
		UnitPrice:          3.0,
		BaseSellingPrice:   3.5,
		BuyingPrice:        fp(2.0),
		PurchasePercentage: fp(10),
	}

	line := RehydrateForEdit(stored, nil)
	assert.Equal(t, "Gone", line.ItemName)
	assert.Equal(t, 3.0, line.UnitPrice)
	assert.Equal(t, 2.0, *line.PurchasePrice)
	assert.Equal(t, 3.5, line.BaseSellingPrice)
	assert.True(t, line.IsWireBox)
	assert.Equal(t, 10.0, *line.PurchasePercentage)
}

func TestBillItemDisplayFigures(t *testing.T) {
	it := BillItem{
		Quantity:         2,
		UnitPrice:        0.8,
		BaseSellingPrice: 1.0,
		BuyingPrice:      fp(1.0),
	}
	assert.InDelta(t, 0.2, it.DiscountPerUnit(), 0.0005)
	assert.InDelta(t, 1.6, it.Subtotal(), 0.0005)
	require.NotNil(t, it.Profit())
	assert.InDelta(t, -0.4, *it.Profit(), 0.0005)

	above := BillItem{Quantity: 1, UnitPrice: 2.0, BaseSellingPrice: 1.5}
	assert.Zero(t, above.DiscountPerUnit())
	assert.Nil(t, above.Profit())
}
