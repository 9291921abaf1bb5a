package migration

import "gorm.io/gorm"

func init() {
	register(Migration{
		Version: 20240102091000,
		Name:    "create_inventory",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS inventory (
					id           serial PRIMARY KEY,
					product_id   integer NOT NULL,
					quantity     integer NOT NULL DEFAULT 0 CHECK (quantity >= 0),
					location     text NOT NULL DEFAULT 'main',
					min_quantity integer NOT NULL DEFAULT 10 CHECK (min_quantity >= 0),
					expiry_date  timestamptz,
					created_at   timestamptz NOT NULL DEFAULT now(),
					updated_at   timestamptz NOT NULL DEFAULT now()
				)`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_inventory_product_id') THEN
				    ALTER TABLE inventory ADD CONSTRAINT fk_inventory_product_id
				      FOREIGN KEY (product_id) REFERENCES products(id)
				      ON DELETE CASCADE ON UPDATE CASCADE;
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_inventory_product_id') THEN
				    CREATE INDEX idx_inventory_product_id ON inventory (product_id);
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_inventory_expiry_date') THEN
				    CREATE INDEX idx_inventory_expiry_date ON inventory (expiry_date);
				  END IF;
				END $$`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx, `DROP TABLE IF EXISTS inventory`)
		},
	})
}
