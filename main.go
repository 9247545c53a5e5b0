package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sylvance/recipes-api/pkg/auth"

	"github.com/gin-gonic/gin"
)

func main() {
	// Auto-load ./.env if present (no external dependency) before reading vars
	loadDotEnv()
	cfg := loadConfig()

	// Support a lightweight migrate command: `./recipes-api migrate`
	// It runs AutoMigrate then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB(cfg)
		fmt.Println("migration completed")
		return
	}

	initDB(cfg)
	wireAuth(cfg)

	r := gin.Default()

	setupRoutes(r)

	r.Run(cfg.Addr)
}

// wireAuth builds the auth core from explicit config and the shared db
// handle. Handlers reach these through the package vars in handlers.go.
func wireAuth(cfg Config) {
	codec := auth.NewCodec([]byte(cfg.JWTSecret), cfg.ExpiryDays, cfg.ExpirySeconds)
	users = gormIdentityStore{db: db}
	ownership = gormOwnershipStore{db: db}
	authn = auth.NewAuthenticator(codec, gormLedger{db: db}, users)
	mailer = newMailer(cfg)
	maxPageLimit = cfg.PageLimit
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
