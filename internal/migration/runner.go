package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ledgerTable tracks applied migrations. The primary key on version doubles
// as the lock against double-application: two concurrent runners racing on
// the same migration collide on the insert and one transaction rolls back,
// taking its DDL with it.
const ledgerTable = "schema_migrations"

// Runner applies and reverts migrations against one database.
type Runner struct {
	db *gorm.DB
}

func NewRunner(db *gorm.DB) *Runner { return &Runner{db: db} }

func (r *Runner) ensureLedger(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(`
		CREATE TABLE IF NOT EXISTS ` + ledgerTable + ` (
			version    bigint PRIMARY KEY,
			name       text NOT NULL,
			applied_at timestamptz NOT NULL DEFAULT now()
		)`).Error
}

// applied returns the set of versions recorded in the ledger.
func (r *Runner) applied(ctx context.Context) (map[int64]bool, error) {
	var versions []int64
	if err := r.db.WithContext(ctx).Table(ledgerTable).Pluck("version", &versions).Error; err != nil {
		return nil, err
	}
	set := make(map[int64]bool, len(versions))
	for _, v := range versions {
		set[v] = true
	}
	return set, nil
}

// Up applies every pending migration in ascending order. Each migration's
// DDL and its ledger insert commit in one transaction; a failure aborts the
// run with nothing half-applied, and the error is surfaced to the operator
// rather than retried.
func (r *Runner) Up(ctx context.Context) error {
	if err := r.ensureLedger(ctx); err != nil {
		return fmt.Errorf("migration ledger: %w", err)
	}
	done, err := r.applied(ctx)
	if err != nil {
		return err
	}

	for _, m := range All() {
		if done[m.Version] {
			continue
		}
		start := time.Now()
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Exec(
				"INSERT INTO "+ledgerTable+" (version, name) VALUES (?, ?)",
				m.Version, m.Name,
			).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s) up: %w", m.Version, m.Name, err)
		}
		log.Info().
			Int64("version", m.Version).
			Str("name", m.Name).
			Dur("took", time.Since(start)).
			Msg("migration applied")
	}
	return nil
}

// Down reverts the last n applied migrations, newest first. Lossy migrations
// are reverted best-effort and logged as such.
func (r *Runner) Down(ctx context.Context, n int) error {
	if err := r.ensureLedger(ctx); err != nil {
		return fmt.Errorf("migration ledger: %w", err)
	}
	done, err := r.applied(ctx)
	if err != nil {
		return err
	}

	all := All()
	reverted := 0
	for i := len(all) - 1; i >= 0 && reverted < n; i-- {
		m := all[i]
		if !done[m.Version] {
			continue
		}
		if m.Lossy {
			log.Warn().
				Int64("version", m.Version).
				Str("name", m.Name).
				Msg("reverting lossy migration: original schema/data is not fully restored")
		}
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Exec("DELETE FROM "+ledgerTable+" WHERE version = ?", m.Version).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s) down: %w", m.Version, m.Name, err)
		}
		log.Info().Int64("version", m.Version).Str("name", m.Name).Msg("migration reverted")
		reverted++
	}
	return nil
}

// Status describes one migration's ledger state.
type Status struct {
	Version int64
	Name    string
	Applied bool
	Lossy   bool
}

// StatusAll reports every registered migration with its applied flag.
func (r *Runner) StatusAll(ctx context.Context) ([]Status, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return nil, err
	}
	done, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}
	all := All()
	out := make([]Status, 0, len(all))
	for _, m := range all {
		out = append(out, Status{Version: m.Version, Name: m.Name, Applied: done[m.Version], Lossy: m.Lossy})
	}
	return out, nil
}
