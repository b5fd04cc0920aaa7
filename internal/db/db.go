package db

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/agenda-core/internal/config"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

// NewDB connects to Postgres, retrying with exponential backoff until
// cfg.DBConnectTimeout elapses.
func NewDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	connect := func() (*gorm.DB, error) {
		db, err := Open(postgres.Open(cfg.DBUrl), log)
		if err != nil {
			return nil, err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := backoff.Retry(ctx, connect,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(cfg.DBConnectTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn("database not ready, retrying", zap.Error(err), zap.Duration("next", next))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// Open applies the settings every environment shares: driver errors are
// translated to gorm errors, timestamps are written in UTC and SQL logging
// goes through zap.
func Open(dialector gorm.Dialector, log *zap.Logger) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: logger.New(
			zap.NewStdLog(log.Named("gorm")),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
}

// Migrate creates the schema. On Postgres it also adds the exclusion
// constraint that rejects overlapping committed reservations per resource.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap'
	) THEN
		ALTER TABLE reservations
			ADD CONSTRAINT reservations_no_overlap
			EXCLUDE USING gist (
				resource_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			) WHERE (status = 'committed');
	END IF;
END $$`,
		`UPDATE tenants SET timezone = 'America/Sao_Paulo' WHERE timezone IS NULL OR timezone = ''`,
		// Unset scheduling settings are NULL so the configured defaults apply.
		`ALTER TABLE tenants ALTER COLUMN slot_interval_min DROP DEFAULT`,
		`ALTER TABLE tenants ALTER COLUMN lead_time_min DROP DEFAULT`,
	}

	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}
