package migration

import "gorm.io/gorm"

func init() {
	register(Migration{
		Version: 20240305140000,
		Name:    "fix_sale_items_product_id_type",
		// Lossy: the original uuid values cannot be mapped onto integer
		// product ids, so rows written against the defective column are
		// dropped, and down restores the column type but not the data.
		Lossy: true,
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				// Drop whatever FK currently covers product_id. The name is
				// looked up in pg_constraint rather than assumed: earlier
				// environments carry auto-named constraints from drifted
				// schemas.
				`DO $$
				DECLARE c record;
				BEGIN
				  FOR c IN
				    SELECT con.conname
				    FROM pg_constraint con
				    WHERE con.conrelid = to_regclass('sale_items')
				      AND con.contype = 'f'
				      AND EXISTS (
				        SELECT 1 FROM unnest(con.conkey) k
				        JOIN pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = k
				        WHERE a.attname = 'product_id')
				  LOOP
				    EXECUTE format('ALTER TABLE sale_items DROP CONSTRAINT %I', c.conname);
				  END LOOP;
				END $$`,
				// Guarded on the live column type so a retry after partial
				// failure is a no-op.
				`DO $$ BEGIN
				  IF EXISTS (SELECT 1 FROM information_schema.columns
				             WHERE table_name = 'sale_items'
				               AND column_name = 'product_id'
				               AND data_type = 'uuid') THEN
				    DELETE FROM sale_items WHERE product_id IS NOT NULL;
				    ALTER TABLE sale_items ALTER COLUMN product_id TYPE integer USING NULL;
				    ALTER TABLE sale_items ALTER COLUMN product_id SET NOT NULL;
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_sale_items_product_id') THEN
				    ALTER TABLE sale_items ADD CONSTRAINT fk_sale_items_product_id
				      FOREIGN KEY (product_id) REFERENCES products(id)
				      ON DELETE RESTRICT ON UPDATE CASCADE;
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sale_items_product_id') THEN
				    CREATE INDEX idx_sale_items_product_id ON sale_items (product_id);
				  END IF;
				END $$`,
			)
		},
		Down: func(tx *gorm.DB) error {
			// Best-effort: restores the uuid column type, not the dropped
			// rows or the original auto-generated constraint name.
			return execAll(tx,
				`DROP INDEX IF EXISTS idx_sale_items_product_id`,
				`ALTER TABLE sale_items DROP CONSTRAINT IF EXISTS fk_sale_items_product_id`,
				`DO $$ BEGIN
				  IF EXISTS (SELECT 1 FROM information_schema.columns
				             WHERE table_name = 'sale_items'
				               AND column_name = 'product_id'
				               AND data_type = 'integer') THEN
				    ALTER TABLE sale_items ALTER COLUMN product_id DROP NOT NULL;
				    ALTER TABLE sale_items ALTER COLUMN product_id TYPE uuid USING NULL;
				  END IF;
				END $$`,
			)
		},
	})
}
