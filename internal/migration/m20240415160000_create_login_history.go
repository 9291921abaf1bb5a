package migration

import "gorm.io/gorm"

func init() {
	register(Migration{
		Version: 20240415160000,
		Name:    "create_login_history",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS login_history (
					id         uuid PRIMARY KEY,
					user_id    integer NOT NULL,
					ip_address varchar(45) NOT NULL,
					user_agent text,
					device     varchar(30),
					status     varchar(10) NOT NULL CHECK (status IN ('success', 'failed')),
					login_time timestamptz NOT NULL DEFAULT now(),
					created_at timestamptz NOT NULL DEFAULT now(),
					updated_at timestamptz NOT NULL DEFAULT now()
				)`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_login_history_user_id') THEN
				    ALTER TABLE login_history ADD CONSTRAINT fk_login_history_user_id
				      FOREIGN KEY (user_id) REFERENCES users(id)
				      ON DELETE CASCADE ON UPDATE CASCADE;
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_login_history_user_id') THEN
				    CREATE INDEX idx_login_history_user_id ON login_history (user_id);
				  END IF;
				END $$`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx, `DROP TABLE IF EXISTS login_history`)
		},
	})
}
