package models

import (
	"github.com/google/uuid"
	"time"
)

type Project struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string    `gorm:"not null"`
	ClientID uuid.UUID `gorm:"not null"`
	Status   string    `gorm:"default:'active'"`

	CreatedAt time.Time

	// Связи
	Client User   `gorm:"foreignKey:ClientID"`
	Team   []User `gorm:"many2many:project_members"`
}
