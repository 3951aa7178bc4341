package infrastructure

import (
	"fmt"

	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Ivanildsdev/myrecipebook/internal/adapter/db/postgres"
	"github.com/Ivanildsdev/myrecipebook/internal/config"
	"github.com/Ivanildsdev/myrecipebook/pkg/logger"
)

// NewDatabase creates a new database connection with GORM configuration
func NewDatabase(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	// Configure GORM logger
	gormLogger := logger.NewGormLoggerWithConfig(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	// Open database connection
	db, err := gorm.Open(pgdriver.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&postgres.UserSchema{}); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		l.Info("database schema migrated")
	}

	l.Info("database connected successfully",
		zap.String("host", cfg.DB.Host),
		zap.String("database", cfg.DB.Name),
	)

	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
