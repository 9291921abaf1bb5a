package migration

import "gorm.io/gorm"

func init() {
	register(Migration{
		Version: 20240401093000,
		Name:    "create_notifications",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS notifications (
					id           serial PRIMARY KEY,
					user_id      integer NOT NULL,
					type         varchar(30) NOT NULL
					  CHECK (type IN ('low_stock', 'expiry_warning', 'sale_completed', 'system')),
					title        text NOT NULL,
					message      text NOT NULL,
					related_id   text,
					related_type varchar(30),
					is_read      boolean NOT NULL DEFAULT false,
					created_at   timestamptz NOT NULL DEFAULT now(),
					updated_at   timestamptz NOT NULL DEFAULT now()
				)`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_notifications_user_id') THEN
				    ALTER TABLE notifications ADD CONSTRAINT fk_notifications_user_id
				      FOREIGN KEY (user_id) REFERENCES users(id)
				      ON DELETE CASCADE ON UPDATE CASCADE;
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_notifications_user_id') THEN
				    CREATE INDEX idx_notifications_user_id ON notifications (user_id);
				  END IF;
				END $$`,
				// Partial index: the unread badge query runs on every page load.
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_notifications_unread') THEN
				    CREATE INDEX idx_notifications_unread ON notifications (user_id)
				      WHERE is_read = false;
				  END IF;
				END $$`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx, `DROP TABLE IF EXISTS notifications`)
		},
	})
}
