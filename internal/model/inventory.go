package model

import "time"

// Inventory tracks stock-at-location for a product. Quantity is never
// negative (CHECK constraint); MinQuantity is the low-stock alert threshold.
type Inventory struct {
	ID          uint `gorm:"primaryKey"`
	ProductID   uint `gorm:"not null;index"`
	Quantity    int  `gorm:"not null;default:0"`
	Location    string `gorm:"not null;default:'main'"`
	MinQuantity int    `gorm:"not null;default:10"`
	ExpiryDate  *time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// Transactions are the append-only audit log; deleting an inventory row
	// with history is blocked by the RESTRICT foreign key.
	Transactions []InventoryTransaction `gorm:"foreignKey:InventoryID;constraint:OnDelete:RESTRICT"`
}

// TableName overrides GORM's pluralization (inventories → inventory).
func (Inventory) TableName() string { return "inventory" }
