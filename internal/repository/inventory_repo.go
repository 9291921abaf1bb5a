package repository

import (
	"context"

	"keymarket/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionFilter narrows the inventory audit-log listing.
type TransactionFilter struct {
	InventoryID *uint
	UserID      *uint
	Type        string
	Page        int
	Limit       int
}

// InventoryRepository covers inventory rows and their append-only
// transaction log.
type InventoryRepository interface {
	Create(ctx context.Context, inv *model.Inventory) error
	FindByID(ctx context.Context, id uint) (*model.Inventory, error)
	FindByIDTx(tx *gorm.DB, id uint) (*model.Inventory, error)
	// LockByIDTx fetches the row FOR UPDATE inside a transaction so
	// concurrent adjustments serialize.
	LockByIDTx(tx *gorm.DB, id uint) (*model.Inventory, error)
	FindByProductID(ctx context.Context, productID uint) ([]model.Inventory, error)
	List(ctx context.Context, page, limit int) ([]model.Inventory, int64, error)
	ListBelowMinimum(ctx context.Context) ([]model.Inventory, error)
	Update(ctx context.Context, inv *model.Inventory) error
	UpdateQuantityTx(tx *gorm.DB, id uint, newQuantity int) error
	// Delete is blocked by the RESTRICT FK while transaction history exists.
	Delete(ctx context.Context, id uint) error

	CreateTransactionTx(tx *gorm.DB, t *model.InventoryTransaction) error
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.InventoryTransaction, int64, error)

	DB() *gorm.DB
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Create(ctx context.Context, inv *model.Inventory) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *inventoryRepo) FindByID(ctx context.Context, id uint) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.db.WithContext(ctx).Preload("Product").First(&inv, id).Error
	return &inv, err
}

func (r *inventoryRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.Inventory, error) {
	var inv model.Inventory
	err := tx.First(&inv, id).Error
	return &inv, err
}

func (r *inventoryRepo) LockByIDTx(tx *gorm.DB, id uint) (*model.Inventory, error) {
	var inv model.Inventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&inv, id).Error
	return &inv, err
}

func (r *inventoryRepo) FindByProductID(ctx context.Context, productID uint) ([]model.Inventory, error) {
	var rows []model.Inventory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("location ASC").
		Find(&rows).Error
	return rows, err
}

func (r *inventoryRepo) List(ctx context.Context, page, limit int) ([]model.Inventory, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	q := r.db.WithContext(ctx).Model(&model.Inventory{}).Preload("Product")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Inventory
	err := q.Order("id ASC").Offset((page - 1) * limit).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *inventoryRepo) ListBelowMinimum(ctx context.Context) ([]model.Inventory, error) {
	var rows []model.Inventory
	err := r.db.WithContext(ctx).Preload("Product").
		Where("quantity <= min_quantity").
		Find(&rows).Error
	return rows, err
}

func (r *inventoryRepo) Update(ctx context.Context, inv *model.Inventory) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *inventoryRepo) UpdateQuantityTx(tx *gorm.DB, id uint, newQuantity int) error {
	return tx.Model(&model.Inventory{}).Where("id = ?", id).
		Update("quantity", newQuantity).Error
}

func (r *inventoryRepo) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&model.Inventory{}, id).Error
	if isFKViolation(err) {
		return ErrInventoryHasTransactions
	}
	return err
}

func (r *inventoryRepo) CreateTransactionTx(tx *gorm.DB, t *model.InventoryTransaction) error {
	return tx.Create(t).Error
}

func (r *inventoryRepo) ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.InventoryTransaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.InventoryTransaction{})
	if filter.InventoryID != nil {
		q = q.Where("inventory_id = ?", *filter.InventoryID)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var rows []model.InventoryTransaction
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *inventoryRepo) DB() *gorm.DB { return r.db }
