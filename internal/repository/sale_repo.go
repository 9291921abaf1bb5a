package repository

import (
	"context"
	"fmt"

	"keymarket/internal/dto"
	"keymarket/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status, paymentStatus string) error
	// NextReceiptNumber draws from the sales_receipt_seq sequence inside the
	// sale transaction, so cancelled transactions leave gaps but never dupes.
	NextReceiptNumber(tx *gorm.DB) (string, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	if err := tx.Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.Date != "" {
		q = q.Where("created_at::date = ?::date", filter.Date)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []model.Sale
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status, paymentStatus string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"payment_status": paymentStatus,
		}).Error
}

func (r *saleRepo) NextReceiptNumber(tx *gorm.DB) (string, error) {
	var n int64
	if err := tx.Raw("SELECT nextval('sales_receipt_seq')").Scan(&n).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("R-%06d", n), nil
}

func (r *saleRepo) DB() *gorm.DB { return r.db }
