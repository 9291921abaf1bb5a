package infra

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx.
//
// GORM AutoMigrate is deliberately not used: the schema is managed
// exclusively by the versioned migrations in internal/migration, which keep
// precise control over decimal precision, CHECK constraints, and foreign-key
// actions that AutoMigrate cannot express. The startup sequence in
// cmd/server runs the migration Runner and then verifies that the live
// foreign keys still match the model declarations.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}
