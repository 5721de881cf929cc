package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"siteledger.app/api/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250110_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Job{}, &models.WorkerJobAssignment{},
					&models.Receipt{}, &models.Timesheet{}, &models.Document{})
			},
		},
		{
			ID: "20250124_add_alerts_and_notifications",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Alert{}, &models.Notification{})
			},
		},
		{
			ID: "20250207_add_payments",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.WorkerPayment{}, &models.ClientPayment{})
			},
		},
		{
			ID: "20250221_add_ai_insights",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.AIInsight{})
			},
		},
		{
			// One open clock-in per worker. The handler pre-checks, but the
			// partial unique index is what actually closes the race when two
			// clock-in requests land at once.
			ID: "20250305_unique_working_timesheet",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(
					`CREATE UNIQUE INDEX IF NOT EXISTS idx_timesheets_one_working
					 ON timesheets (worker_id) WHERE status = 'working'`,
				).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec(`DROP INDEX IF EXISTS idx_timesheets_one_working`).Error
			},
		},
	})

	return m.Migrate()
}
