package repository

import (
	"context"

	"keymarket/internal/model"

	"gorm.io/gorm"
)

// SettingsRepository reads and writes the singleton settings row. Every
// query pins id = model.SettingsRowID; the CHECK constraint in the schema
// rejects any other id.
type SettingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, s *model.Settings) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	var s model.Settings
	err := r.db.WithContext(ctx).First(&s, "id = ?", model.SettingsRowID).Error
	return &s, err
}

func (r *settingsRepo) Update(ctx context.Context, s *model.Settings) error {
	s.ID = model.SettingsRowID
	return r.db.WithContext(ctx).Save(s).Error
}
