package model

import "time"

// Notification types match the CHECK constraint on notifications.type.
const (
	NotifLowStock      = "low_stock"
	NotifExpiryWarning = "expiry_warning"
	NotifSaleCompleted = "sale_completed"
	NotifSystem        = "system"
)

var NotificationTypes = []string{NotifLowStock, NotifExpiryWarning, NotifSaleCompleted, NotifSystem}

// Notification is created as a side-effect of domain events (low stock,
// expiring inventory) and only ever mutated by marking it read.
type Notification struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"not null;index"`
	Type        string `gorm:"type:varchar(30);not null"`
	Title       string `gorm:"not null"`
	Message     string `gorm:"not null"`
	RelatedID   *string
	RelatedType *string `gorm:"type:varchar(30)"`
	IsRead      bool    `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Related returns the typed view of the polymorphic related columns.
func (n *Notification) Related() (*Reference, error) {
	return RefFromColumns(n.RelatedID, n.RelatedType)
}

// SetRelated flattens a typed reference into the storage columns.
func (n *Notification) SetRelated(ref *Reference) {
	n.RelatedID, n.RelatedType = ref.Columns()
}
