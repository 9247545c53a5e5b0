package models

import "time"

// Recipe belongs to a category; titles are unique within that category.
type Recipe struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CategoryID  uint   `gorm:"index;not null;uniqueIndex:idx_category_title"`
	Title       string `gorm:"size:100;not null;uniqueIndex:idx_category_title"`
	Description string `gorm:"size:255;not null"`
}
