package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sgtokt1221/tsukutan-app/internal/config"
	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// gen_random_uuid needs pgcrypto on Postgres < 13
	db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto")

	err := db.AutoMigrate(
		&model.Word{},
		&model.User{},
		&model.GoalMaster{},
		&model.RefreshToken{},
		&model.ReviewRecord{},
		&model.SessionCheckpoint{},
		&model.StudyLogDaily{},
		&model.WordReport{},
	)
	if err != nil {
		return err
	}

	// Composite index for the due-review query: per-user range scan on
	// next_review_date.
	db.Exec("CREATE INDEX IF NOT EXISTS idx_review_user_due ON review_records(user_id, next_review_date)")

	return nil
}
