package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/itinerum-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.AllModels()...)
}

// EnsureIndexes adds the postgres-only indexes gorm tags cannot express.
func EnsureIndexes(db *gorm.DB) error {
	// Survey names are looked up case-insensitively.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_surveys_lower_name
		ON surveys (lower(name));
	`).Error; err != nil {
		return fmt.Errorf("create idx_surveys_lower_name: %w", err)
	}
	// Exports read a participant's prompts in display order.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_prompt_responses_mobile_displayed
		ON prompt_responses (mobile_id, displayed_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_prompt_responses_mobile_displayed: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_cancelled_prompt_responses_mobile_displayed
		ON cancelled_prompt_responses (mobile_id, displayed_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_cancelled_prompt_responses_mobile_displayed: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureIndexes(s.db); err != nil {
		s.log.Error("Index migration failed", "error", err)
		return err
	}
	return nil
}
