package repository

import (
	"context"

	"keymarket/internal/model"

	"gorm.io/gorm"
)

// LoginHistoryRepository appends and lists authentication audit rows.
// There is deliberately no Update or Delete: the table is append-only.
type LoginHistoryRepository interface {
	Create(ctx context.Context, h *model.LoginHistory) error
	ListByUser(ctx context.Context, userID uint, page, limit int) ([]model.LoginHistory, int64, error)
	ListRecent(ctx context.Context, page, limit int) ([]model.LoginHistory, int64, error)
}

type loginHistoryRepo struct{ db *gorm.DB }

func NewLoginHistoryRepository(db *gorm.DB) LoginHistoryRepository {
	return &loginHistoryRepo{db: db}
}

func (r *loginHistoryRepo) Create(ctx context.Context, h *model.LoginHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *loginHistoryRepo) ListByUser(ctx context.Context, userID uint, page, limit int) ([]model.LoginHistory, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&model.LoginHistory{}).Where("user_id = ?", userID), page, limit)
}

func (r *loginHistoryRepo) ListRecent(ctx context.Context, page, limit int) ([]model.LoginHistory, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&model.LoginHistory{}), page, limit)
}

func (r *loginHistoryRepo) list(_ context.Context, q *gorm.DB, page, limit int) ([]model.LoginHistory, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.LoginHistory
	err := q.Order("login_time DESC").Offset((page - 1) * limit).Limit(limit).Find(&rows).Error
	return rows, total, err
}
