package migration

import "gorm.io/gorm"

func init() {
	register(Migration{
		Version: 20240312120000,
		Name:    "create_settings",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				// CHECK (id = 1) makes the singleton a schema invariant
				// instead of an application convention.
				`CREATE TABLE IF NOT EXISTS settings (
					id              integer PRIMARY KEY CHECK (id = 1),
					store_name      text NOT NULL DEFAULT 'Key Market',
					currency_code   varchar(3) NOT NULL DEFAULT 'USD',
					currency_symbol varchar(5) NOT NULL DEFAULT '$',
					tax_rate        decimal(5,2) NOT NULL DEFAULT 0,
					address         text,
					phone           text,
					email           text,
					language        varchar(5) NOT NULL DEFAULT 'en',
					created_at      timestamptz NOT NULL DEFAULT now(),
					updated_at      timestamptz NOT NULL DEFAULT now()
				)`,
				`INSERT INTO settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx, `DROP TABLE IF EXISTS settings`)
		},
	})
}
