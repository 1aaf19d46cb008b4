package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDSN         string
	MediaDir      string
	LogFile       string
	AdminEmail    string
	AdminPassword string
	// Google Sheets import is off without an API key.
	SheetsAPIKey string
	SheetsRange  string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads the environment, after filling it from a .env file when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		DBDSN:         getenv("DB_DSN", "menuboard.db"), // sqlite file in project root
		MediaDir:      getenv("MEDIA_DIR", "./web/media"),
		LogFile:       getenv("LOG_FILE", "./menuboard.log"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SheetsAPIKey:  os.Getenv("GOOGLE_SHEETS_API_KEY"),
		SheetsRange:   getenv("SHEETS_RANGE", "Products!A1:Z"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s ADMIN_EMAIL=%s SHEETS=%t",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.AdminEmail, cfg.SheetsAPIKey != "")
	return cfg
}
