package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the users table and its unique email index.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}
