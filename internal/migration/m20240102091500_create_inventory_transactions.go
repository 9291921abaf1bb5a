package migration

import "gorm.io/gorm"

func init() {
	register(Migration{
		Version: 20240102091500,
		Name:    "create_inventory_transactions",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				// RESTRICT on both FKs: the audit log must survive attempts to
				// delete the inventory row or user it references.
				`CREATE TABLE IF NOT EXISTS inventory_transactions (
					id                uuid PRIMARY KEY,
					inventory_id      integer NOT NULL,
					user_id           integer NOT NULL,
					type              varchar(20) NOT NULL
					  CHECK (type IN ('purchase', 'sale', 'adjustment', 'return', 'transfer')),
					quantity          integer NOT NULL,
					reason            text,
					reference_id      text,
					reference_type    varchar(30),
					previous_quantity integer NOT NULL,
					new_quantity      integer NOT NULL,
					created_at        timestamptz NOT NULL DEFAULT now()
				)`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_inventory_transactions_inventory_id') THEN
				    ALTER TABLE inventory_transactions ADD CONSTRAINT fk_inventory_transactions_inventory_id
				      FOREIGN KEY (inventory_id) REFERENCES inventory(id)
				      ON DELETE RESTRICT ON UPDATE CASCADE;
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_inventory_transactions_user_id') THEN
				    ALTER TABLE inventory_transactions ADD CONSTRAINT fk_inventory_transactions_user_id
				      FOREIGN KEY (user_id) REFERENCES users(id)
				      ON DELETE RESTRICT ON UPDATE CASCADE;
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_inventory_transactions_inventory_id') THEN
				    CREATE INDEX idx_inventory_transactions_inventory_id ON inventory_transactions (inventory_id);
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_inventory_transactions_user_id') THEN
				    CREATE INDEX idx_inventory_transactions_user_id ON inventory_transactions (user_id);
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_inventory_transactions_reference_id') THEN
				    CREATE INDEX idx_inventory_transactions_reference_id ON inventory_transactions (reference_id);
				  END IF;
				END $$`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx, `DROP TABLE IF EXISTS inventory_transactions`)
		},
	})
}
