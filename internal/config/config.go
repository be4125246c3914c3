package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs, loaded once at startup and
// passed explicitly into constructors. Nothing reads the environment after
// Load returns.
type Config struct {
	MongoURI      string
	MongoDatabase string
	Port          string
	JWTSecret     string
	AdminKey      string
	CORSOrigins   []string
}

// Load reads a .env file if one exists, then the environment. The token
// signing secret and the admin registration key are mandatory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: os.Getenv("MONGO_DATABASE"),
		Port:          os.Getenv("API_PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminKey:      os.Getenv("ADMIN_KEY"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}
	if cfg.AdminKey == "" {
		return nil, errors.New("ADMIN_KEY is not configured")
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://localhost:27017"
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "medbay"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg, nil
}
