package model

// FKAction is a foreign-key referential action as Postgres spells it.
type FKAction string

const (
	ActionCascade  FKAction = "CASCADE"
	ActionRestrict FKAction = "RESTRICT"
	ActionSetNull  FKAction = "SET NULL"
	ActionNoAction FKAction = "NO ACTION"
)

// ForeignKey declares one schema-level foreign key together with its
// referential actions.
type ForeignKey struct {
	Table     string
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  FKAction
	OnUpdate  FKAction
}

// ForeignKeys is the single source of truth for every foreign key in the
// schema. Migrations create constraints with exactly these actions, the GORM
// association tags mirror them, and migration.VerifyForeignKeys compares this
// list against pg_constraint at startup so the two declarations cannot drift.
func ForeignKeys() []ForeignKey {
	return []ForeignKey{
		{Table: "inventory", Column: "product_id", RefTable: "products", RefColumn: "id",
			OnDelete: ActionCascade, OnUpdate: ActionCascade},
		{Table: "inventory_transactions", Column: "inventory_id", RefTable: "inventory", RefColumn: "id",
			OnDelete: ActionRestrict, OnUpdate: ActionCascade},
		{Table: "inventory_transactions", Column: "user_id", RefTable: "users", RefColumn: "id",
			OnDelete: ActionRestrict, OnUpdate: ActionCascade},
		{Table: "sales", Column: "user_id", RefTable: "users", RefColumn: "id",
			OnDelete: ActionSetNull, OnUpdate: ActionCascade},
		{Table: "sale_items", Column: "sale_id", RefTable: "sales", RefColumn: "id",
			OnDelete: ActionCascade, OnUpdate: ActionCascade},
		{Table: "sale_items", Column: "product_id", RefTable: "products", RefColumn: "id",
			OnDelete: ActionRestrict, OnUpdate: ActionCascade},
		{Table: "notifications", Column: "user_id", RefTable: "users", RefColumn: "id",
			OnDelete: ActionCascade, OnUpdate: ActionCascade},
		{Table: "login_history", Column: "user_id", RefTable: "users", RefColumn: "id",
			OnDelete: ActionCascade, OnUpdate: ActionCascade},
	}
}

// ConstraintName returns the conventional name migrations give this FK:
// fk_{table}_{column}.
func (fk ForeignKey) ConstraintName() string {
	return "fk_" + fk.Table + "_" + fk.Column
}

// DDL renders the ADD CONSTRAINT clause body for this foreign key.
func (fk ForeignKey) DDL() string {
	return "FOREIGN KEY (" + fk.Column + ") REFERENCES " + fk.RefTable + "(" + fk.RefColumn + ")" +
		" ON DELETE " + string(fk.OnDelete) + " ON UPDATE " + string(fk.OnUpdate)
}
