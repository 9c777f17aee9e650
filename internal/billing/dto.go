package billing

// BillLineRequest is one submitted line. UnitPrice overrides the catalog
// sell price when set; quantity may be zero (a placeholder row the operator
// never filled in).
type BillLineRequest struct {
	ItemID    string   `json:"item_id" validate:"required,alphanum,max=100"`
	Quantity  float64  `json:"quantity" validate:"gte=0"`
	UnitPrice *float64 `json:"unit_price"`
}

type CreateBillRequest struct {
	Customer *string           `json:"customer"`
	Lines    []BillLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateBillRequest replaces the bill's lines wholesale. The cost basis is
// re-snapshotted from the catalog as it exists now; only the operator's
// unit prices and quantities carry over from the request.
type UpdateBillRequest struct {
	Customer *string            `json:"customer"`
	Lines    *[]BillLineRequest `json:"lines" validate:"omitempty,min=1,dive"`
}

type ListBillsRequest struct {
	Limit  int
	Offset int
}
