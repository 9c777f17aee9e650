// Package invoice splits a finalized bill's item list into printable pages
// and prepares the per-page figures the print renderer depends on.
package invoice

import (
	"fmt"

	"github.com/subahan-billing/subahan-billing/internal/billing"
)

// Layout holds the row capacities for each page role. The values come from
// the physical A4 page budget and are configuration, not algorithm.
type Layout struct {
	RowsSingle int
	RowsFirst  int
	RowsMiddle int
	RowsLast   int
}

// DefaultLayout matches the production invoice template.
var DefaultLayout = Layout{
	RowsSingle: 18,
	RowsFirst:  30,
	RowsMiddle: 32,
	RowsLast:   24,
}

// ConfigurationError reports an invalid pagination layout. It is fatal at
// construction time, never a per-call condition.
type ConfigurationError struct {
	Field string
	Value int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invoice: layout %s must be positive, got %d", e.Field, e.Value)
}

// Page describes one printed page: its items, the row count it is padded to,
// and its position flags. The company header renders only on single/first
// pages; the totals footer and signature block only on single/last pages.
type Page struct {
	Items   []billing.BillItem
	FillTo  int
	IsFirst bool
	IsLast  bool
}

// Filler returns how many blank rows pad the page to its fill target.
func (p Page) Filler() int {
	if n := p.FillTo - len(p.Items); n > 0 {
		return n
	}
	return 0
}

// Paginator partitions bill items across pages of a fixed Layout.
type Paginator struct {
	layout Layout
}

// NewPaginator validates the layout and returns a Paginator.
func NewPaginator(layout Layout) (*Paginator, error) {
	checks := []struct {
		field string
		value int
	}{
		{"RowsSingle", layout.RowsSingle},
		{"RowsFirst", layout.RowsFirst},
		{"RowsMiddle", layout.RowsMiddle},
		{"RowsLast", layout.RowsLast},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return nil, &ConfigurationError{Field: c.field, Value: c.value}
		}
	}
	return &Paginator{layout: layout}, nil
}

// Paginate splits items into pages, preserving order exactly. Callers
// guarantee at least one item (empty bills are rejected before they are
// persisted, let alone printed).
//
// A bill that fits within RowsSingle rows prints as one page carrying both
// header and footer. Larger bills open with a RowsFirst-capacity page, then
// consume RowsMiddle items per middle page until the remainder fits the
// RowsLast-capacity closing page.
func (p *Paginator) Paginate(items []billing.BillItem) []Page {
	if len(items) <= p.layout.RowsSingle {
		return []Page{{
			Items:   items,
			FillTo:  p.layout.RowsSingle,
			IsFirst: true,
			IsLast:  true,
		}}
	}

	first := p.layout.RowsFirst
	if first > len(items) {
		first = len(items)
	}
	pages := []Page{{
		Items:   items[:first],
		FillTo:  p.layout.RowsFirst,
		IsFirst: true,
	}}
	rest := items[first:]
	if len(rest) == 0 {
		pages[0].IsLast = true
		return pages
	}

	for len(rest) > p.layout.RowsLast {
		// A middle page never drains the remainder: the closing page
		// always carries at least one item ahead of the totals footer.
		take := p.layout.RowsMiddle
		if take >= len(rest) {
			take = len(rest) - 1
		}
		pages = append(pages, Page{
			Items:  rest[:take],
			FillTo: p.layout.RowsMiddle,
		})
		rest = rest[take:]
	}

	pages = append(pages, Page{
		Items:  rest,
		FillTo: p.layout.RowsLast,
		IsLast: true,
	})
	return pages
}
