package migration

import "gorm.io/gorm"

func init() {
	register(Migration{
		Version: 20240220110000,
		Name:    "alter_products_add_catalog_columns",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`ALTER TABLE products ADD COLUMN IF NOT EXISTS name_ar text`,
				`ALTER TABLE products ADD COLUMN IF NOT EXISTS description_ar text`,
				`ALTER TABLE products ADD COLUMN IF NOT EXISTS serial_number text`,
				`ALTER TABLE products ADD COLUMN IF NOT EXISTS unit_id integer`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx,
				`ALTER TABLE products DROP COLUMN IF EXISTS unit_id`,
				`ALTER TABLE products DROP COLUMN IF EXISTS serial_number`,
				`ALTER TABLE products DROP COLUMN IF EXISTS description_ar`,
				`ALTER TABLE products DROP COLUMN IF EXISTS name_ar`,
			)
		},
	})
}
