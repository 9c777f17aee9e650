package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subahan-billing/subahan-billing/internal/billing"
)

func fp(v float64) *float64 { return &v }

func TestBuildDocument(t *testing.T) {
	p, err := NewPaginator(DefaultLayout)
	require.NoError(t, err)

	customer := "Abu Khalid"
	bill := billing.Bill{
		ID:          "b-1",
		Customer:    &customer,
		TotalAmount: 5.4995,
		CreatedAt:   time.Now(),
		Items: []billing.BillItem{
			{
				ItemID:           "NAIL50",
				ItemName:         "Nail 50mm",
				Quantity:         3,
				UnitPrice:        1.5,
				BaseSellingPrice: 1.5,
				BuyingPrice:      fp(1.0),
			},
			{
				ItemID:           "MYST",
				ItemName:         "Mystery",
				Quantity:         2,
				UnitPrice:        0.8,
				BaseSellingPrice: 1.0,
			},
		},
	}

	doc := p.BuildDocument(bill)
	assert.Equal(t, "b-1", doc.BillID)
	assert.Equal(t, 1, doc.PageCount)
	assert.Equal(t, int64(5), doc.TotalWhole)
	assert.Equal(t, "500", doc.TotalFraction)
	require.Len(t, doc.Pages, 1)

	page := doc.Pages[0]
	assert.True(t, page.IsFirst)
	assert.True(t, page.IsLast)
	assert.Equal(t, DefaultLayout.RowsSingle-2, page.Filler)
	require.Len(t, page.Lines, 2)

	nail := page.Lines[0]
	assert.InDelta(t, 4.5, nail.Subtotal, 0.0005)
	require.NotNil(t, nail.Profit)
	assert.InDelta(t, 1.5, *nail.Profit, 0.0005)
	assert.Zero(t, nail.DiscountPerUnit)

	myst := page.Lines[1]
	assert.Nil(t, myst.Profit)
	assert.InDelta(t, 0.2, myst.DiscountPerUnit, 0.0005)
	assert.InDelta(t, 1.6, myst.Subtotal, 0.0005)
}

func TestBuildDocumentMultiPage(t *testing.T) {
	p, err := NewPaginator(DefaultLayout)
	require.NoError(t, err)

	bill := billing.Bill{ID: "b-2", Items: makeItems(50)}
	doc := p.BuildDocument(bill)

	assert.Equal(t, 2, doc.PageCount)
	assert.Len(t, doc.Pages[0].Lines, 30)
	assert.Len(t, doc.Pages[1].Lines, 20)
	assert.Equal(t, 4, doc.Pages[1].Filler)
	assert.False(t, doc.Pages[0].IsLast)
	assert.True(t, doc.Pages[1].IsLast)
}
