package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Domain-level sentinels mapped from database failures. Services and
// handlers branch on these instead of inspecting SQLSTATEs themselves.
var (
	ErrNotFound = gorm.ErrRecordNotFound
	// ErrInventoryHasTransactions: the RESTRICT foreign key blocked deleting
	// an inventory row that still has audit-log entries.
	ErrInventoryHasTransactions = errors.New("inventory has transaction history and cannot be deleted")
	// ErrProductHasSales: the RESTRICT foreign key blocked deleting a
	// product referenced by sale items.
	ErrProductHasSales = errors.New("product appears on sale items and cannot be deleted")
	// ErrDuplicate: a unique constraint (barcode, username, receipt number) fired.
	ErrDuplicate = errors.New("duplicate value for unique column")
)

// Postgres SQLSTATE classes we translate.
const (
	pgFKViolation     = "23503"
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isFKViolation(err error) bool     { return pgCode(err) == pgFKViolation }
func isUniqueViolation(err error) bool { return pgCode(err) == pgUniqueViolation }

// IsCheckViolation reports whether err is a CHECK constraint failure, e.g.
// an out-of-set enum value or a negative quantity. Constraint violations are
// surfaced to the caller as validation failures, never swallowed.
func IsCheckViolation(err error) bool { return pgCode(err) == pgCheckViolation }
