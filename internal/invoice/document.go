package invoice

import (
	"time"

	"github.com/subahan-billing/subahan-billing/internal/billing"
)

// LineFigure carries one printed row with its display figures already
// computed, so the renderer does no arithmetic of its own.
type LineFigure struct {
	ItemID          string   `json:"item_id"`
	ItemName        string   `json:"item_name"`
	ArabicName      string   `json:"arabic_name"`
	Unit            string   `json:"unit"`
	Quantity        float64  `json:"quantity"`
	UnitPrice       float64  `json:"unit_price"`
	DiscountPerUnit float64  `json:"discount_per_unit"`
	Subtotal        float64  `json:"subtotal"`
	Profit          *float64 `json:"profit"`
}

// DocumentPage is one rendered page: its rows, blank filler count and
// position flags steering the header/footer blocks.
type DocumentPage struct {
	Lines   []LineFigure `json:"lines"`
	Filler  int          `json:"filler"`
	IsFirst bool         `json:"is_first"`
	IsLast  bool         `json:"is_last"`
}

// Document is the full print payload for a bill.
type Document struct {
	BillID        string         `json:"bill_id"`
	Customer      *string        `json:"customer,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	TotalAmount   float64        `json:"total_amount"`
	TotalWhole    int64          `json:"total_whole"`
	TotalFraction string         `json:"total_fraction"`
	PageCount     int            `json:"page_count"`
	Pages         []DocumentPage `json:"pages"`
}

// BuildDocument paginates the bill and derives every per-line display
// figure. A nil profit means cost was unknown at bill time and prints as a
// dash, not a zero.
func (p *Paginator) BuildDocument(bill billing.Bill) Document {
	pages := p.Paginate(bill.Items)

	doc := Document{
		BillID:      bill.ID,
		Customer:    bill.Customer,
		CreatedAt:   bill.CreatedAt,
		TotalAmount: bill.TotalAmount,
		PageCount:   len(pages),
		Pages:       make([]DocumentPage, 0, len(pages)),
	}
	doc.TotalWhole, doc.TotalFraction = SplitCurrency(bill.TotalAmount)

	for _, page := range pages {
		dp := DocumentPage{
			Lines:   make([]LineFigure, 0, len(page.Items)),
			Filler:  page.Filler(),
			IsFirst: page.IsFirst,
			IsLast:  page.IsLast,
		}
		for _, it := range page.Items {
			dp.Lines = append(dp.Lines, LineFigure{
				ItemID:          it.ItemID,
				ItemName:        it.ItemName,
				ArabicName:      it.ArabicName,
				Unit:            it.Unit,
				Quantity:        it.Quantity,
				UnitPrice:       it.UnitPrice,
				DiscountPerUnit: it.DiscountPerUnit(),
				Subtotal:        it.Subtotal(),
				Profit:          it.Profit(),
			})
		}
		doc.Pages = append(doc.Pages, dp)
	}
	return doc
}
