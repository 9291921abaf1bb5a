package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction types. Purchases and returns add stock; sales and transfers
// remove it; adjustments carry their own sign in Quantity.
const (
	TxPurchase   = "purchase"
	TxSale       = "sale"
	TxAdjustment = "adjustment"
	TxReturn     = "return"
	TxTransfer   = "transfer"
)

// TransactionTypes lists every legal value of inventory_transactions.type,
// matching the CHECK constraint in the migration.
var TransactionTypes = []string{TxPurchase, TxSale, TxAdjustment, TxReturn, TxTransfer}

// TransactionDirection returns the sign applied to a transaction quantity:
// +1 for stock entering, -1 for stock leaving, 0 for adjustments (the caller
// passes a signed quantity).
func TransactionDirection(txType string) int {
	switch txType {
	case TxPurchase, TxReturn:
		return 1
	case TxSale, TxTransfer:
		return -1
	default:
		return 0
	}
}

// SignedQuantity applies TransactionDirection to a quantity magnitude.
// Adjustment quantities are already signed and pass through unchanged.
func SignedQuantity(txType string, quantity int) int {
	if txType == TxAdjustment {
		return quantity
	}
	return TransactionDirection(txType) * quantity
}

// InventoryTransaction is one entry in the append-only stock audit log.
// Rows are never updated or deleted after creation; the invariant
// NewQuantity == PreviousQuantity + SignedQuantity(Type, Quantity) holds for
// every row the service layer writes.
type InventoryTransaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	InventoryID uint      `gorm:"not null;index"`
	UserID      uint      `gorm:"not null;index"`
	Type        string    `gorm:"type:varchar(20);not null"`
	// Quantity is a magnitude except for adjustments, where it is signed.
	Quantity         int `gorm:"not null"`
	Reason           *string
	ReferenceID      *string `gorm:"index"`
	ReferenceType    *string `gorm:"type:varchar(30)"`
	PreviousQuantity int     `gorm:"not null"`
	NewQuantity      int     `gorm:"not null"`
	CreatedAt        time.Time

	Inventory *Inventory `gorm:"foreignKey:InventoryID;constraint:OnDelete:RESTRICT"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

// BeforeCreate assigns a client-side random v4 id.
func (t *InventoryTransaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Reference returns the typed view of the polymorphic reference columns.
func (t *InventoryTransaction) Reference() (*Reference, error) {
	return RefFromColumns(t.ReferenceID, t.ReferenceType)
}

// SetReference flattens a typed reference into the storage columns.
func (t *InventoryTransaction) SetReference(ref *Reference) {
	t.ReferenceID, t.ReferenceType = ref.Columns()
}
