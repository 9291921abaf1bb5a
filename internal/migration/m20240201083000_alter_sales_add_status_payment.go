package migration

import "gorm.io/gorm"

func init() {
	register(Migration{
		Version: 20240201083000,
		Name:    "alter_sales_add_status_payment",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`ALTER TABLE sales ADD COLUMN IF NOT EXISTS status varchar(20) NOT NULL DEFAULT 'pending'`,
				`ALTER TABLE sales ADD COLUMN IF NOT EXISTS payment_method varchar(20) NOT NULL DEFAULT 'cash'`,
				`ALTER TABLE sales ADD COLUMN IF NOT EXISTS payment_status varchar(20) NOT NULL DEFAULT 'pending'`,
				`ALTER TABLE sales ADD COLUMN IF NOT EXISTS receipt_number text NOT NULL DEFAULT ''`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sales_status') THEN
				    ALTER TABLE sales ADD CONSTRAINT chk_sales_status
				      CHECK (status IN ('pending', 'completed', 'cancelled'));
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sales_payment_method') THEN
				    ALTER TABLE sales ADD CONSTRAINT chk_sales_payment_method
				      CHECK (payment_method IN ('cash', 'credit_card', 'debit_card', 'mobile_payment', 'other'));
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sales_payment_status') THEN
				    ALTER TABLE sales ADD CONSTRAINT chk_sales_payment_status
				      CHECK (payment_status IN ('pending', 'paid', 'partially_paid', 'refunded'));
				  END IF;
				END $$`,
				`DO $$ BEGIN
				  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_sales_receipt_number') THEN
				    CREATE UNIQUE INDEX uni_sales_receipt_number ON sales (receipt_number)
				      WHERE receipt_number <> '';
				  END IF;
				END $$`,
				`CREATE SEQUENCE IF NOT EXISTS sales_receipt_seq START 1`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx,
				`DROP SEQUENCE IF EXISTS sales_receipt_seq`,
				`DROP INDEX IF EXISTS uni_sales_receipt_number`,
				`ALTER TABLE sales DROP CONSTRAINT IF EXISTS chk_sales_payment_status`,
				`ALTER TABLE sales DROP CONSTRAINT IF EXISTS chk_sales_payment_method`,
				`ALTER TABLE sales DROP CONSTRAINT IF EXISTS chk_sales_status`,
				`ALTER TABLE sales DROP COLUMN IF EXISTS receipt_number`,
				`ALTER TABLE sales DROP COLUMN IF EXISTS payment_status`,
				`ALTER TABLE sales DROP COLUMN IF EXISTS payment_method`,
				`ALTER TABLE sales DROP COLUMN IF EXISTS status`,
			)
		},
	})
}
