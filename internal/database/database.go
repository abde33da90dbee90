package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumeforge/internal/config"
)

// InitDatabase opens the configured store and returns a GORM handle.
// The default is a single sqlite file; postgres is available for
// deployments that outgrow it.
func InitDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}

	if cfg.Driver == "postgres" {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// sqlite serializes writes on a single file; keep one connection.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Migrate creates the account and resume tables if absent. Safe to call on
// every process start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Resume{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
