package database

import (
	"socialnet/backend/internal/logger"
	"socialnet/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) error {
	lg := logger.For("database")

	db, err := Open(postgres.Open(dsn))
	if err != nil {
		return err
	}
	lg.Info().Msg("Database connection established.")

	if err := Migrate(db); err != nil {
		return err
	}
	lg.Info().Msg("Database migrated successfully.")

	DB = db
	return nil
}

// Open builds a *gorm.DB on the given dialector with the application's settings.
// TranslateError turns unique violations into gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(),
		TranslateError: true,
	})
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Post{}, &models.Follower{}, &models.Like{})
}
