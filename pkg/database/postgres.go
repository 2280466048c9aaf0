package database

import (
	"github.com/thamiresml/thracker-sub002/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresConnection opens a gorm connection to the configured database.
func NewPostgresConnection(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureIndexes creates the constraints AutoMigrate cannot express.
//
// The partial unique index on sync_runs is the single-flight guard: two
// concurrent claims for the same connection race on the insert and exactly
// one of them wins; the loser gets a duplicate-key error.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sync_runs_single_flight
			ON sync_runs (connection_id) WHERE status = 'in_progress'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_interactions_dedup
			ON interactions (contact_id, message_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_dedup
			ON contacts (user_id, email)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
