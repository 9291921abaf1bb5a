package migration

import (
	"context"
	"fmt"

	"keymarket/internal/model"

	"gorm.io/gorm"
)

// pg_constraint stores referential actions as single characters.
var fkActionCodes = map[string]model.FKAction{
	"a": model.ActionNoAction,
	"r": model.ActionRestrict,
	"c": model.ActionCascade,
	"n": model.ActionSetNull,
	"d": "SET DEFAULT",
}

type liveConstraint struct {
	Conname    string
	Table      string
	Column     string
	RefTable   string
	DeleteCode string `gorm:"column:delete_code"`
	UpdateCode string `gorm:"column:update_code"`
}

// VerifyForeignKeys compares the actions declared in model.ForeignKeys()
// against the live catalog. A missing constraint or a mismatched action is a
// startup failure: the schema-level declaration and the model-level
// association must never drift apart.
func VerifyForeignKeys(ctx context.Context, db *gorm.DB) error {
	const q = `
		SELECT con.conname,
		       rel.relname  AS "table",
		       att.attname  AS "column",
		       fref.relname AS ref_table,
		       con.confdeltype::text AS delete_code,
		       con.confupdtype::text AS update_code
		FROM pg_constraint con
		JOIN pg_class rel  ON rel.oid = con.conrelid
		JOIN pg_class fref ON fref.oid = con.confrelid
		JOIN pg_attribute att ON att.attrelid = con.conrelid AND att.attnum = con.conkey[1]
		WHERE con.contype = 'f'
		  AND rel.relnamespace = 'public'::regnamespace`

	var live []liveConstraint
	if err := db.WithContext(ctx).Raw(q).Scan(&live).Error; err != nil {
		return fmt.Errorf("verify foreign keys: %w", err)
	}

	byKey := make(map[string]liveConstraint, len(live))
	for _, c := range live {
		byKey[c.Table+"."+c.Column] = c
	}

	for _, want := range model.ForeignKeys() {
		got, ok := byKey[want.Table+"."+want.Column]
		if !ok {
			return fmt.Errorf("foreign key %s.%s -> %s missing from database",
				want.Table, want.Column, want.RefTable)
		}
		if got.RefTable != want.RefTable {
			return fmt.Errorf("foreign key %s.%s references %s, declared %s",
				want.Table, want.Column, got.RefTable, want.RefTable)
		}
		if action := fkActionCodes[got.DeleteCode]; action != want.OnDelete {
			return fmt.Errorf("foreign key %s (%s.%s): ON DELETE is %s, declared %s",
				got.Conname, want.Table, want.Column, action, want.OnDelete)
		}
		if action := fkActionCodes[got.UpdateCode]; action != want.OnUpdate {
			return fmt.Errorf("foreign key %s (%s.%s): ON UPDATE is %s, declared %s",
				got.Conname, want.Table, want.Column, action, want.OnUpdate)
		}
	}
	return nil
}
