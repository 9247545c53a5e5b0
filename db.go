package main

import (
	"log"
	"strings"

	"github.com/Sylvance/recipes-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB(cfg Config) {
	var err error
	if cfg.DSN == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	if cfg.AutoMigrate {
		// Migrate models individually so a failure on one doesn't block others.
		// Users go first so the category/recipe FK chain can be applied safely.
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.Category{}); err != nil {
			log.Printf("migration warning (categories): %v", err)
		}
		if err := db.AutoMigrate(&models.Recipe{}); err != nil {
			log.Printf("migration warning (recipes): %v", err)
		}
		if err := db.AutoMigrate(&models.BannedToken{}); err != nil {
			log.Printf("migration warning (banned_tokens): %v", err)
		}
	}
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
