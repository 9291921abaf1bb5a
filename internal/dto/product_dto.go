package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Barcode  string `form:"barcode"`
	Name     string `form:"name"`
	Category string `form:"category"`
	Online   string `form:"online"` // "true" | "false" | "" (all)
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateProductRequest struct {
	Name               string           `json:"name"        validate:"required"`
	Description        *string          `json:"description"`
	Price              decimal.Decimal  `json:"price"       validate:"min=0"`
	Cost               *decimal.Decimal `json:"cost"`
	Category           string           `json:"category"`
	Barcode            string           `json:"barcode"`
	IsGeneratedBarcode bool             `json:"is_generated_barcode"`
	NameAr             *string          `json:"name_ar"`
	DescriptionAr      *string          `json:"description_ar"`
	SerialNumber       *string          `json:"serial_number"`
	UnitID             *uint            `json:"unit_id"`
	IsOnline           *bool            `json:"is_online"`
}

type UpdateProductRequest struct {
	Name          string           `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Cost          *decimal.Decimal `json:"cost"`
	Category      string           `json:"category"`
	NameAr        *string          `json:"name_ar"`
	DescriptionAr *string          `json:"description_ar"`
	SerialNumber  *string          `json:"serial_number"`
	UnitID        *uint            `json:"unit_id"`
	IsOnline      *bool            `json:"is_online"`
}

type ProductResponse struct {
	ID                 uint             `json:"id"`
	Name               string           `json:"name"`
	Description        *string          `json:"description,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	Cost               *decimal.Decimal `json:"cost,omitempty"`
	Stock              int              `json:"stock"`
	Category           string           `json:"category"`
	Barcode            string           `json:"barcode"`
	IsGeneratedBarcode bool             `json:"is_generated_barcode"`
	NameAr             *string          `json:"name_ar,omitempty"`
	DescriptionAr      *string          `json:"description_ar,omitempty"`
	SerialNumber       *string          `json:"serial_number,omitempty"`
	UnitID             *uint            `json:"unit_id,omitempty"`
	IsOnline           bool             `json:"is_online"`
	CreatedAt          string           `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
