package catalog

// CreateItemRequest carries a new catalog entry. ItemID is optional; when
// blank the repository allocates the lowest free generated ID.
type CreateItemRequest struct {
	ItemID             string   `json:"item_id" validate:"omitempty,alphanum,max=100"`
	Name               string   `json:"name" validate:"required"`
	ArabicName         string   `json:"arabic_name" validate:"required"`
	Unit               string   `json:"unit"`
	IsWireBox          bool     `json:"is_wire_box"`
	BuyingPrice        *float64 `json:"buying_price"`
	SellingPrice       float64  `json:"selling_price"`
	PurchasePercentage *float64 `json:"purchase_percentage"`
	SellPercentage     *float64 `json:"sell_percentage"`
}

// UpdateItemRequest mutates an existing entry. Nil fields are left alone;
// pricing-mode fields are validated together against the resulting state.
type UpdateItemRequest struct {
	Name               *string  `json:"name"`
	ArabicName         *string  `json:"arabic_name"`
	Unit               *string  `json:"unit"`
	IsWireBox          *bool    `json:"is_wire_box"`
	BuyingPrice        *float64 `json:"buying_price"`
	SellingPrice       *float64 `json:"selling_price"`
	PurchasePercentage *float64 `json:"purchase_percentage"`
	SellPercentage     *float64 `json:"sell_percentage"`
}

// ListItemsRequest filters the item listing.
type ListItemsRequest struct {
	Search         string
	IncludeDeleted bool
	DeletedOnly    bool
	Limit          int
	Offset         int
}
