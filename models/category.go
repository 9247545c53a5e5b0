package models

import "time"

// Category represents a recipe category belonging to a user
type Category struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      uint   `gorm:"index;not null;uniqueIndex:idx_user_title"`
	Title       string `gorm:"size:100;not null;uniqueIndex:idx_user_title"`
	Description string `gorm:"size:255;not null"`
	// Recipes is a one-to-many relation from Category to Recipe
	Recipes []Recipe `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
