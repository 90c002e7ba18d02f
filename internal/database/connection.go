package database

import (
	"errors"
	"os"

	"github.com/marina-keet/MiaTech-sub000/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect открывает Postgres по DATABASE_URL и проводит миграции
func Connect() (*Database, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.User{}, &models.Project{}); err != nil {
		return nil, err
	}

	return NewDatabase(db), nil
}
