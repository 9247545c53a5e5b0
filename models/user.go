package models

import (
	"time"
)

// User model
type User struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Username     string `gorm:"size:100;not null;unique"`
	Email        string `gorm:"size:256;not null;unique"`
	PasswordHash []byte `gorm:"not null"`
	FirstName    string `gorm:"size:50"`
	LastName     string `gorm:"size:50"`
	// Deleting a user removes every owned category (and transitively its recipes).
	Categories []Category `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
