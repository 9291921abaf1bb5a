package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsRowID is the fixed primary key of the single settings row.
// The settings migration adds CHECK (id = 1), so plurality is enforced by
// the schema rather than by application convention.
const SettingsRowID = 1

// Settings is the singleton store configuration row.
type Settings struct {
	ID             uint            `gorm:"primaryKey"`
	StoreName      string          `gorm:"not null;default:'Key Market'"`
	CurrencyCode   string          `gorm:"type:varchar(3);not null;default:'USD'"`
	CurrencySymbol string          `gorm:"type:varchar(5);not null;default:'$'"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Address        *string
	Phone          *string
	Email          *string
	Language       string `gorm:"type:varchar(5);not null;default:'en'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName keeps the table singular-free ("settings", not "settings" pluralized).
func (Settings) TableName() string { return "settings" }
