package migration

import "gorm.io/gorm"

func init() {
	register(Migration{
		Version: 20240115100000,
		Name:    "create_sales_and_sale_items",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS sales (
					id           uuid PRIMARY KEY,
					user_id      integer,
					subtotal     decimal(10,2) NOT NULL DEFAULT 0,
					tax          decimal(10,2) NOT NULL DEFAULT 0,
					discount     decimal(10,2) NOT NULL DEFAULT 0,
					total_amount decimal(10,2) NOT NULL DEFAULT 0,
					notes        text,
					created_at   timestamptz NOT NULL DEFAULT now(),
					updated_at   timestamptz NOT NULL DEFAULT now()
				)`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_sales_user_id') THEN
				    ALTER TABLE sales ADD CONSTRAINT fk_sales_user_id
				      FOREIGN KEY (user_id) REFERENCES users(id)
				      ON DELETE SET NULL ON UPDATE CASCADE;
				  END IF;
				END $$`,
				// product_id was declared uuid here by mistake; the
				// fix_sale_items_product_id_type migration corrects it.
				`CREATE TABLE IF NOT EXISTS sale_items (
					id         uuid PRIMARY KEY,
					sale_id    uuid NOT NULL,
					product_id uuid,
					quantity   integer NOT NULL CHECK (quantity >= 1),
					unit_price decimal(10,2) NOT NULL CHECK (unit_price >= 0),
					discount   decimal(10,2) NOT NULL DEFAULT 0 CHECK (discount >= 0),
					subtotal   decimal(10,2) NOT NULL CHECK (subtotal >= 0),
					notes      text,
					created_at timestamptz NOT NULL DEFAULT now(),
					updated_at timestamptz NOT NULL DEFAULT now()
				)`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_sale_items_sale_id') THEN
				    ALTER TABLE sale_items ADD CONSTRAINT fk_sale_items_sale_id
				      FOREIGN KEY (sale_id) REFERENCES sales(id)
				      ON DELETE CASCADE ON UPDATE CASCADE;
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sale_items_sale_id') THEN
				    CREATE INDEX idx_sale_items_sale_id ON sale_items (sale_id);
				  END IF;
				END $$`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx,
				`DROP TABLE IF EXISTS sale_items`,
				`DROP TABLE IF EXISTS sales`,
			)
		},
	})
}
