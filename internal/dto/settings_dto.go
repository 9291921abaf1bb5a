package dto

import "github.com/shopspring/decimal"

type UpdateSettingsRequest struct {
	StoreName      string           `json:"store_name"      validate:"omitempty,min=1"`
	CurrencyCode   string           `json:"currency_code"   validate:"omitempty,len=3"`
	CurrencySymbol string           `json:"currency_symbol" validate:"omitempty,max=5"`
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	Address        *string          `json:"address"`
	Phone          *string          `json:"phone"`
	Email          *string          `json:"email"    validate:"omitempty,email"`
	Language       string           `json:"language" validate:"omitempty,max=5"`
}

type SettingsResponse struct {
	StoreName      string          `json:"store_name"`
	CurrencyCode   string          `json:"currency_code"`
	CurrencySymbol string          `json:"currency_symbol"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	Address        *string         `json:"address,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	Email          *string         `json:"email,omitempty"`
	Language       string          `json:"language"`
}
