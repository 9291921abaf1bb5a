package migration

import "gorm.io/gorm"

func init() {
	register(Migration{
		Version: 20240102090000,
		Name:    "create_users",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS users (
					id            serial PRIMARY KEY,
					username      text NOT NULL,
					name          text NOT NULL,
					email         text,
					password_hash text NOT NULL,
					role          varchar(20) NOT NULL DEFAULT 'cashier',
					is_active     boolean NOT NULL DEFAULT true,
					created_at    timestamptz NOT NULL DEFAULT now(),
					updated_at    timestamptz NOT NULL DEFAULT now()
				)`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_users_username') THEN
				    CREATE UNIQUE INDEX uni_users_username ON users (username);
				  END IF;
				END $$`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx, `DROP TABLE IF EXISTS users`)
		},
	})
}
