package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Login outcomes recorded in login_history.status.
const (
	LoginSuccess = "success"
	LoginFailed  = "failed"
)

var LoginStatuses = []string{LoginSuccess, LoginFailed}

// LoginHistory records one row per authentication attempt, append-only.
// UserID is nullable: failed attempts against unknown usernames are still
// audited but cannot be attributed to a user.
type LoginHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    *uint     `gorm:"index"`
	IPAddress string    `gorm:"type:varchar(45);not null"`
	UserAgent string
	Device    string    `gorm:"type:varchar(30)"`
	Status    string    `gorm:"type:varchar(10);not null"`
	LoginTime time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's pluralization (login_histories → login_history).
func (LoginHistory) TableName() string { return "login_history" }

func (l *LoginHistory) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.LoginTime.IsZero() {
		l.LoginTime = time.Now()
	}
	return nil
}
