package migration

import "gorm.io/gorm"

func init() {
	register(Migration{
		Version: 20240102090500,
		Name:    "create_products",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS products (
					id                   serial PRIMARY KEY,
					name                 text NOT NULL,
					description          text,
					price                decimal(10,2) NOT NULL CHECK (price >= 0),
					cost                 decimal(10,2) CHECK (cost >= 0),
					stock                integer NOT NULL DEFAULT 0,
					category             text NOT NULL DEFAULT 'general',
					barcode              text NOT NULL,
					is_generated_barcode boolean NOT NULL DEFAULT false,
					is_online            boolean NOT NULL DEFAULT true,
					created_at           timestamptz NOT NULL DEFAULT now(),
					updated_at           timestamptz NOT NULL DEFAULT now()
				)`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_products_barcode') THEN
				    CREATE UNIQUE INDEX uni_products_barcode ON products (barcode);
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_products_name') THEN
				    CREATE INDEX idx_products_name ON products (name);
				  END IF;
				END $$`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx, `DROP TABLE IF EXISTS products`)
		},
	})
}
