// Package migration owns the versioned schema history. Each migration is a
// two-sided (up/down) script registered at init time under a timestamp
// version; the Runner applies pending ones in order, recording each in the
// schema_migrations ledger inside the same transaction as the DDL.
//
// Every up is written to be idempotent with respect to repeated application
// attempts (CREATE TABLE IF NOT EXISTS, ADD COLUMN IF NOT EXISTS, and
// DO $$ blocks probing pg_indexes / pg_constraint before creating), so a run
// that failed mid-way can always be retried. Downs restore the prior schema
// shape; migrations marked Lossy cannot fully invert their up (column type
// changes, dropped NOT NULL) and say so instead of pretending otherwise.
package migration

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// Migration is one versioned schema change.
type Migration struct {
	Version int64
	Name    string
	// Lossy marks a down that is best-effort: reverting does not restore
	// the exact pre-up schema or data.
	Lossy bool
	Up    func(tx *gorm.DB) error
	Down  func(tx *gorm.DB) error
}

var registry = map[int64]Migration{}

// register adds a migration to the package registry. Duplicate versions are
// a programming error and panic at init.
func register(m Migration) {
	if _, dup := registry[m.Version]; dup {
		panic(fmt.Sprintf("migration: duplicate version %d (%s)", m.Version, m.Name))
	}
	if m.Up == nil || m.Down == nil {
		panic(fmt.Sprintf("migration: %d (%s) must declare both up and down", m.Version, m.Name))
	}
	registry[m.Version] = m
}

// All returns every registered migration in ascending version order.
func All() []Migration {
	out := make([]Migration, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

// execAll runs each statement in order inside the given transaction.
func execAll(tx *gorm.DB, stmts ...string) error {
	for _, s := range stmts {
		if err := tx.Exec(s).Error; err != nil {
			return fmt.Errorf("exec %.60q: %w", s, err)
		}
	}
	return nil
}
