package migrations

import (
	"github.com/autoshield/autoshield/pkg/infra/database"
	"gorm.io/gorm"
)

// Initial SQL schema for the reconciliation core
// Tables: ip_ranges, staged_ip_ranges, firewall_subscriptions, dispatch_records
func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250601_initial_schema",
		Name: "Create core tables: ip_ranges, staged_ip_ranges, firewall_subscriptions, dispatch_records",

		Up: func(db *gorm.DB) error {
			// 1. Ensure pgcrypto extension for gen_random_uuid
			if err := db.Exec(`
				CREATE EXTENSION IF NOT EXISTS pgcrypto;
			`).Error; err != nil {
				return err
			}

			// 2. Enum for the firewall offering families
			_ = db.Exec(`DROP TYPE IF EXISTS offering_type;`)
			if err := db.Exec(`
				CREATE TYPE offering_type AS ENUM ('sql', 'storage');
			`).Error; err != nil {
				return err
			}

			// 3. Range store. Rows are marked deleted, never dropped.
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS ip_ranges (
					component   TEXT NOT NULL,
					region      TEXT NOT NULL,
					address     TEXT NOT NULL,
					start_ip    TEXT NOT NULL,
					end_ip      TEXT NOT NULL,
					deleted     BOOLEAN NOT NULL DEFAULT FALSE,
					updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (component, region, address)
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_ip_ranges_scope
				ON ip_ranges (component, region) WHERE NOT deleted;
			`).Error; err != nil {
				return err
			}

			// 4. Staged snapshot, replaced wholesale before each run
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS staged_ip_ranges (
					component   TEXT NOT NULL,
					region      TEXT NOT NULL,
					address     TEXT NOT NULL,
					start_ip    TEXT NOT NULL,
					end_ip      TEXT NOT NULL,
					PRIMARY KEY (component, region, address)
				);
			`).Error; err != nil {
				return err
			}

			// 5. Subscription registry
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS firewall_subscriptions (
					id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					offering_type    offering_type NOT NULL,
					offering_name    TEXT NOT NULL,
					subscription_id  TEXT NOT NULL,
					resource_group   TEXT NOT NULL,
					component        TEXT NOT NULL,
					region           TEXT NOT NULL,
					created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			// One firewall may subscribe to several scopes; the same
			// firewall in the same scope is a duplicate.
			if err := db.Exec(`
				CREATE UNIQUE INDEX IF NOT EXISTS idx_subscription_identity
				ON firewall_subscriptions (offering_type, offering_name, subscription_id, resource_group, component, region);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_subscription_scope
				ON firewall_subscriptions (component, region);
			`).Error; err != nil {
				return err
			}

			// 6. Append-only audit trail of dispatch attempts
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS dispatch_records (
					id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					offering_type    TEXT NOT NULL,
					offering_name    TEXT NOT NULL,
					subscription_id  TEXT NOT NULL,
					resource_group   TEXT NOT NULL,
					action           TEXT NOT NULL,
					ip_rules         TEXT[],
					succeeded        BOOLEAN NOT NULL DEFAULT FALSE,
					response         TEXT,
					created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_dispatch_records_subscription
				ON dispatch_records (subscription_id, created_at DESC);
			`).Error; err != nil {
				return err
			}

			return nil
		},

		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP TABLE IF EXISTS dispatch_records;`).Error; err != nil {
				return err
			}
			if err := db.Exec(`DROP TABLE IF EXISTS firewall_subscriptions;`).Error; err != nil {
				return err
			}
			if err := db.Exec(`DROP TABLE IF EXISTS staged_ip_ranges;`).Error; err != nil {
				return err
			}
			if err := db.Exec(`DROP TABLE IF EXISTS ip_ranges;`).Error; err != nil {
				return err
			}
			if err := db.Exec(`
				DROP TYPE IF EXISTS offering_type;
			`).Error; err != nil {
				return err
			}

			return nil
		},
	})
}
