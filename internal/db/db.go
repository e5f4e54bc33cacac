package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barberia-api/internal/config"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

// overlapConstraint keeps two live appointments of one barber from
// overlapping even if a writer skips the repository row lock.
const overlapConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap') THEN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (
				barber_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			)
			WHERE (status IN ('RESERVED', 'CONFIRMED'));
	END IF;
END $$;
`

func NewDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Branch{},
		&models.Barber{},
		&models.BranchSchedule{},
		&models.BarberSchedule{},
		&models.ScheduleException{},
		&models.BarberBreak{},
		&models.Service{},
		&models.Client{},
		&models.Appointment{},
		&models.Sale{},
		&models.SaleLine{},
		&models.PaymentTransaction{},
		&models.User{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Managed databases may refuse CREATE EXTENSION; the row lock in the
	// repository still serializes reservations without it.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		log.Warn("btree_gist unavailable, skipping overlap constraint", "error", err)
		return db, nil
	}
	if err := db.Exec(overlapConstraint).Error; err != nil {
		log.Warn("could not add overlap constraint", "error", err)
	}

	db.Exec(`
        UPDATE branches
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, cfg.BusinessTimezone)

	return db, nil
}
