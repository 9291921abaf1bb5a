package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price and Cost are stored with two fractional
// digits and are never negative (CHECK constraints in the products migration).
// Cost is optional — imported catalogs often omit it.
type Product struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"index;not null"`
	Description *string
	Price       decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	Cost        *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Stock       int              `gorm:"not null;default:0"`
	Category    string           `gorm:"not null;default:'general'"`
	Barcode     string           `gorm:"uniqueIndex;not null"`
	// IsGeneratedBarcode marks barcodes minted by the app instead of scanned.
	IsGeneratedBarcode bool `gorm:"not null;default:false"`
	// Localized catalog fields (added after initial deployment)
	NameAr        *string `gorm:"column:name_ar"`
	DescriptionAr *string `gorm:"column:description_ar"`
	SerialNumber  *string
	UnitID        *uint
	// IsOnline controls visibility in the web storefront
	IsOnline  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Inventories []Inventory `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	SaleItems   []SaleItem  `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}
