package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale statuses and payment enums match the CHECK constraints added by the
// alter_sales_add_status_payment migration.
const (
	SalePending   = "pending"
	SaleCompleted = "completed"
	SaleCancelled = "cancelled"

	PayCash          = "cash"
	PayCreditCard    = "credit_card"
	PayDebitCard     = "debit_card"
	PayMobilePayment = "mobile_payment"
	PayOther         = "other"

	PaymentPending       = "pending"
	PaymentPaid          = "paid"
	PaymentPartiallyPaid = "partially_paid"
	PaymentRefunded      = "refunded"
)

var (
	SaleStatuses    = []string{SalePending, SaleCompleted, SaleCancelled}
	PaymentMethods  = []string{PayCash, PayCreditCard, PayDebitCard, PayMobilePayment, PayOther}
	PaymentStatuses = []string{PaymentPending, PaymentPaid, PaymentPartiallyPaid, PaymentRefunded}
)

// Sale is an invoice header. TotalAmount = Subtotal - Discount + Tax; the
// service layer enforces the equation, the schema only constrains the enums.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        *uint           `gorm:"index"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Tax           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'cash'"`
	PaymentStatus string          `gorm:"type:varchar(20);not null;default:'pending'"`
	ReceiptNumber string          `gorm:"uniqueIndex;not null"`
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	User  *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

func (s *Sale) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SaleItem is one invoice line. Subtotal = Quantity × UnitPrice − Discount.
// ProductID is an integer key; the original schema mistakenly declared it
// uuid and a corrective migration changed the type and re-created the FK.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uint            `gorm:"not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

func (i *SaleItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// LineSubtotal computes quantity × unit price − discount for a line.
func LineSubtotal(quantity int, unitPrice, discount decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Sub(discount)
}
