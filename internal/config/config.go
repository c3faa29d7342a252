package config

import (
	"os"
	"strings"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Env            string
	Port           string
	PostgresDSN    string
	RedisAddr      string
	RedisPassword  string
	JWTSecret      string
	AllowedOrigins []string
}

// Load reads the environment with development defaults. Call after
// godotenv has populated the process environment.
func Load() *Config {
	return &Config{
		Env:            getEnv("ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		PostgresDSN:    getEnv("POSTGRES_DSN", "host=localhost user=user password=password dbname=linkupchat port=5432 sslmode=disable"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// OriginAllowed reports whether a handshake Origin header is acceptable.
// An empty allow-list accepts everything, which is the development default.
func (c *Config) OriginAllowed(origin string) bool {
	if len(c.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			origins = append(origins, part)
		}
	}
	return origins
}
