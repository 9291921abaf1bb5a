// Package seed populates baseline reference data. Every seeder is safe to
// re-run: Up computes what is missing before inserting, and Down removes
// only the rows Up would have created, so both compose with data added by
// hand.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Seeder is one idempotent reference-data loader.
type Seeder struct {
	Name string
	Up   func(ctx context.Context, db *gorm.DB) error
	Down func(ctx context.Context, db *gorm.DB) error
}

// All returns the seeders in dependency order: inventory rows need products,
// products and inventory transactions need the admin user.
func All() []Seeder {
	return []Seeder{adminSeeder(), productsSeeder(), inventorySeeder()}
}

// Run applies every seeder in order.
func Run(ctx context.Context, db *gorm.DB) error {
	for _, s := range All() {
		if err := s.Up(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name, err)
		}
		log.Info().Str("seeder", s.Name).Msg("seed applied")
	}
	return nil
}

// Revert unwinds every seeder in reverse order.
func Revert(ctx context.Context, db *gorm.DB) error {
	seeders := All()
	for i := len(seeders) - 1; i >= 0; i-- {
		s := seeders[i]
		if err := s.Down(ctx, db); err != nil {
			return fmt.Errorf("unseed %s: %w", s.Name, err)
		}
		log.Info().Str("seeder", s.Name).Msg("seed reverted")
	}
	return nil
}
