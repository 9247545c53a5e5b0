package models

import "time"

// BannedToken records a revoked session token. Rows are append-only; the
// unique index on Token makes a duplicate ban a no-op at the database level.
type BannedToken struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	Token     string    `gorm:"size:500;not null;uniqueIndex"`
	BannedOn  time.Time `gorm:"not null"`
}
