package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fineart/internal/domain/articles"
	"fineart/internal/domain/artists"
	"fineart/internal/domain/artworks"
	"fineart/internal/domain/boards"
	"fineart/internal/domain/exhibitions"
	"fineart/internal/domain/media"
	"fineart/internal/domain/orders"
	"fineart/internal/domain/profiles"
)

// Open connects to PostgreSQL. SQL logging is only enabled in development.
func Open(dsn string, verbose bool, log *zap.Logger) (*gorm.DB, error) {
	level := logger.Silent
	if verbose {
		level = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqldb, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqldb.SetMaxOpenConns(20)
	sqldb.SetMaxIdleConns(5)
	sqldb.SetConnMaxLifetime(30 * time.Minute)

	log.Info("database connected")
	return db, nil
}

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&profiles.Profile{},
		&artists.Artist{},
		&artworks.Artwork{},
		&exhibitions.Exhibition{},
		&boards.Board{},
		&articles.Article{},
		&orders.Order{},
		&media.Image{},
	}
}

// Migrate enables pgcrypto (gen_random_uuid) and auto-migrates all models.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("enable pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
