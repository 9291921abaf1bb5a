package dto

// CreateInventoryRequest opens stock tracking for a product at a location.
type CreateInventoryRequest struct {
	ProductID   uint    `json:"product_id"   validate:"required"`
	Quantity    int     `json:"quantity"     validate:"min=0"`
	Location    string  `json:"location"`
	MinQuantity int     `json:"min_quantity" validate:"min=0"`
	ExpiryDate  *string `json:"expiry_date"  validate:"omitempty,datetime=2006-01-02"`
}

// AdjustStockRequest records a manual inventory movement. Quantity is a
// magnitude for purchase/sale/return/transfer and a signed delta for
// adjustment.
type AdjustStockRequest struct {
	Type     string  `json:"type"     validate:"required,oneof=purchase sale adjustment return transfer"`
	Quantity int     `json:"quantity" validate:"required"`
	Reason   *string `json:"reason"`
}

type InventoryResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	Location    string  `json:"location"`
	MinQuantity int     `json:"min_quantity"`
	ExpiryDate  *string `json:"expiry_date,omitempty"`
	LowStock    bool    `json:"low_stock"`
}

type InventoryListResponse struct {
	Data  []InventoryResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

// TransactionResponse is one audit-log row. Reference carries the typed
// polymorphic link when present.
type TransactionResponse struct {
	ID               string        `json:"id"`
	InventoryID      uint          `json:"inventory_id"`
	UserID           uint          `json:"user_id"`
	Type             string        `json:"type"`
	Quantity         int           `json:"quantity"`
	Reason           *string       `json:"reason,omitempty"`
	Reference        *ReferenceDTO `json:"reference,omitempty"`
	PreviousQuantity int           `json:"previous_quantity"`
	NewQuantity      int           `json:"new_quantity"`
	CreatedAt        string        `json:"created_at"`
}

// ReferenceDTO is the wire form of the tagged reference union.
type ReferenceDTO struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
