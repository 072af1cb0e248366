package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultPlaceholderURL = "https://img.storelab.dev/commerce/no-photo.png"

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	ImageStoreURL     string
	ImageUploadPreset string
	PlaceholderURL    string
	ImageTimeout      time.Duration
}

// Load reads configuration from the environment, loading a local .env file
// first when one exists.
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("could not load .env file:", err)
		}
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AccessTokenTTL:    getDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL:   getDuration("REFRESH_TOKEN_TTL", 24*time.Hour),
		ImageStoreURL:     getEnv("IMAGE_STORE_URL", ""),
		ImageUploadPreset: getEnv("IMAGE_UPLOAD_PRESET", ""),
		PlaceholderURL:    getEnv("IMAGE_PLACEHOLDER_URL", defaultPlaceholderURL),
		ImageTimeout:      getDuration("IMAGE_TIMEOUT", 15*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid duration for %s: %v, using %s", key, err, fallback)
		return fallback
	}
	return parsed
}
