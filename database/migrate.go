package database

import (
	"fmt"

	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/utils"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("database: auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
