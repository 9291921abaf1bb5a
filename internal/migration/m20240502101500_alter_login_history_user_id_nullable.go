package migration

import "gorm.io/gorm"

func init() {
	register(Migration{
		Version: 20240502101500,
		Name:    "alter_login_history_user_id_nullable",
		// Lossy: down can only re-add NOT NULL when no NULL rows exist, so
		// reverting after failed-login rows were written is refused rather
		// than silently destructive.
		Lossy: true,
		Up: func(tx *gorm.DB) error {
			// Failed attempts against unknown usernames are still audited;
			// they carry no user id.
			return execAll(tx,
				`ALTER TABLE login_history ALTER COLUMN user_id DROP NOT NULL`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM login_history WHERE user_id IS NULL) THEN
				    ALTER TABLE login_history ALTER COLUMN user_id SET NOT NULL;
				  ELSE
				    RAISE EXCEPTION 'login_history has NULL user_id rows; cannot restore NOT NULL';
				  END IF;
				END $$`,
			)
		},
	})
}
