package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	APIURL   string
	Storage  string
	CartDir  string
	RedisURL string
	CartKey  string
}

func LoadConfig() *Config {
	return &Config{
		APIURL:   getEnv("STOREFRONT_API_URL", "http://localhost:8080"),
		Storage:  getEnv("CART_STORAGE", "file"),
		CartDir:  getEnv("CART_DIR", defaultCartDir()),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CartKey:  getEnv("CART_KEY", "coffee-haven-cart"),
	}
}

func defaultCartDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "storefront")
	}
	return ".storefront"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
