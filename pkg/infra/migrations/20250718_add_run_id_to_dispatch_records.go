package migrations

import (
	"github.com/autoshield/autoshield/pkg/infra/database"
	"gorm.io/gorm"
)

// Dispatches fired by the immediate whitelist trigger carry no run, so
// the column stays nullable.
func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250718_add_run_id_to_dispatch_records",
		Name: "Correlate dispatch records with reconciliation runs",
		Up: func(db *gorm.DB) error {
			if err := db.Exec(`ALTER TABLE public.dispatch_records ADD COLUMN IF NOT EXISTS run_id UUID;`).Error; err != nil {
				return err
			}

			if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_dispatch_records_run_id ON public.dispatch_records (run_id);`).Error; err != nil {
				return err
			}

			return nil
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP INDEX IF EXISTS public.idx_dispatch_records_run_id;`).Error; err != nil {
				return err
			}

			if err := db.Exec(`ALTER TABLE public.dispatch_records DROP COLUMN IF EXISTS run_id;`).Error; err != nil {
				return err
			}

			return nil
		},
	})
}
