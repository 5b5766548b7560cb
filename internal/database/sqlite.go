package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/kit-tracker/internal/models"
)

var DB *gorm.DB

// Initialize opens the database at dbPath, migrates the schema and stores
// the handle for GetDB.
func Initialize(dbPath string, logLevel string) error {
	db, err := Open(dbPath, gormLogLevel(logLevel))
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects to a SQLite database and brings its schema up to date.
// Use ":memory:" for a throwaway database.
func Open(dbPath string, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared across queries
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info().Str("path", dbPath).Msg("Database connected successfully")

	if err := cleanupDuplicateCollectionItems(db); err != nil {
		return nil, fmt.Errorf("failed to clean up duplicate collection items: %w", err)
	}

	err = db.AutoMigrate(
		&models.MasterKit{},
		&models.Version{},
		&models.CollectionItem{},
		&models.WishlistItem{},
		&models.CollectionValueSnapshot{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run data migrations: %w", err)
	}

	log.Info().Msg("Database migration completed")
	return db, nil
}

func GetDB() *gorm.DB {
	return DB
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
