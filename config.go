package main

import (
	"os"
	"strconv"
)

// Config carries everything the process reads from the environment. It is
// built once in main and passed into the components that need it; nothing
// reads env vars after startup.
type Config struct {
	Addr          string
	DSN           string
	AutoMigrate   bool
	JWTSecret     string
	ExpiryDays    int
	ExpirySeconds int
	PageLimit     int
	SMTPAddr      string
	SMTPFrom      string
}

func loadConfig() Config {
	return Config{
		Addr:          envStr("ADDR", ":8081"),
		DSN:           os.Getenv("DB_DSN"),
		AutoMigrate:   envBool("DB_AUTO_MIGRATE", true),
		JWTSecret:     envStr("JWT_SECRET", "dev-insecure-secret-change"), // development fallback
		ExpiryDays:    envInt("AUTH_TOKEN_EXPIRY_DAYS", 30),
		ExpirySeconds: envInt("AUTH_TOKEN_EXPIRY_SECONDS", 3000),
		PageLimit:     envInt("PAGINATION_LIMIT", 20),
		SMTPAddr:      os.Getenv("SMTP_ADDR"),
		SMTPFrom:      envStr("SMTP_FROM", "no-reply@recipes.local"),
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "false", "0", "no":
		return false
	case "true", "1", "yes":
		return true
	}
	return def
}
