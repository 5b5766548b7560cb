package database

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// cleanupDuplicateCollectionItems removes duplicate (user_id, version_id) rows
// before the unique index is added. Runs BEFORE AutoMigrate.
func cleanupDuplicateCollectionItems(db *gorm.DB) error {
	if !db.Migrator().HasTable("collection_items") {
		return nil
	}

	// Keep the earliest added copy of each jersey
	result := db.Exec(`
		DELETE FROM collection_items
		WHERE collection_id NOT IN (
			SELECT collection_id FROM (
				SELECT collection_id,
					ROW_NUMBER() OVER (PARTITION BY user_id, version_id ORDER BY added_at ASC, collection_id ASC) AS rn
				FROM collection_items
			) WHERE rn = 1
		)
	`)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Warn().Int64("rows", result.RowsAffected).Msg("Cleaned up duplicate collection_items entries")
	}

	return nil
}

// RunMigrations runs any custom data migrations after schema changes.
// Safe to run multiple times.
func RunMigrations(db *gorm.DB) error {
	if err := migrateCategoryField(db); err != nil {
		return err
	}
	return migrateEstimateMirrors(db)
}

func migrateCategoryField(db *gorm.DB) error {
	result := db.Exec(`UPDATE collection_items SET category = 'General' WHERE category IS NULL OR category = ''`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Info().Int64("rows", result.RowsAffected).Msg("Defaulted empty collection categories")
	}
	return nil
}

// migrateEstimateMirrors backfills estimated_price from the legacy
// value_estimate/price_estimate columns, then makes all three equal.
func migrateEstimateMirrors(db *gorm.DB) error {
	result := db.Exec(`
		UPDATE collection_items
		SET estimated_price = COALESCE(estimated_price, value_estimate, price_estimate)
		WHERE estimated_price IS NULL
	`)
	if result.Error != nil {
		return result.Error
	}

	result = db.Exec(`
		UPDATE collection_items
		SET price_estimate = estimated_price, value_estimate = estimated_price
		WHERE price_estimate IS NOT estimated_price OR value_estimate IS NOT estimated_price
	`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Info().Int64("rows", result.RowsAffected).Msg("Synchronized legacy estimate columns")
	}
	return nil
}
