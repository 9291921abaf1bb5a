package seed

import (
	"context"

	"keymarket/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DefaultAdminUsername = "admin"
	// DefaultAdminPassword is for fresh development databases only; the
	// operator is expected to change it on first login.
	DefaultAdminPassword = "admin123"
)

// adminSeeder upserts the default admin user. The upsert keeps the seeder
// idempotent and also resets a locked-out development environment.
func adminSeeder() Seeder {
	return Seeder{
		Name: "admin_user",
		Up: func(ctx context.Context, db *gorm.DB) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), 12)
			if err != nil {
				return err
			}
			return db.WithContext(ctx).Exec(`
				INSERT INTO users (username, name, password_hash, role, is_active)
				VALUES (?, ?, ?, ?, true)
				ON CONFLICT (username) DO UPDATE
				SET password_hash = EXCLUDED.password_hash,
				    role = EXCLUDED.role,
				    is_active = true
			`, DefaultAdminUsername, "Administrator", string(hash), model.RoleAdmin).Error
		},
		Down: func(ctx context.Context, db *gorm.DB) error {
			return db.WithContext(ctx).
				Where("username = ?", DefaultAdminUsername).
				Delete(&model.User{}).Error
		},
	}
}
