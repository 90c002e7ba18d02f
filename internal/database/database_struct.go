package database

import "gorm.io/gorm"

// Database — слой доступа к Postgres: пользователи и проекты.
// Сообщения чата здесь не хранятся.
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}
