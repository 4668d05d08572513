package config

import (
	"log"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTPPort      string `env:"HTTP_PORT" env-default:"8080"`
	DatabaseDSN   string `env:"DATABASE_DSN" env-default:"host=localhost user=postgres password=postgres dbname=pharmacy port=5432 sslmode=disable"`
	JWTSecret     string `env:"JWT_SECRET"`
	CORSOrigins   string `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
	StoragePath   string `env:"STORAGE_PATH" env-default:"./uploads"` // root folder for uploaded medication images
	PublicBaseURL string `env:"PUBLIC_BASE_URL" env-default:"http://localhost:8080"`
}

func Load() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("[FATAL] config could not be read: %v", err)
	}

	// Production safety checks
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment variable is not set! Required in production.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters! Security risk.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=pharmacy port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is using the default value, set your own Postgres connection for production.")
	}
	if cfg.CORSOrigins == "http://localhost:3000" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value, set your own domain for production.")
	}

	return &cfg
}
