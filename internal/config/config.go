package config

import (
	"os"
	"strings"
)

// Config is read once at startup from the environment (and .env when present).
type Config struct {
	AppName      string
	Port         string
	Database     Database
	KafkaBrokers []string
	KafkaTopic   string
}

// Database holds either a full DSN or the discrete connection fields.
type Database struct {
	URL      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	TimeZone string
	LogLevel string
}

func Load() Config {
	return Config{
		AppName: getenv("APP_NAME", "Storefront Back Office v1.0"),
		Port:    getenv("PORT", "3000"),
		Database: Database{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getenv("DB_HOST", "localhost"),
			User:     getenv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getenv("DB_NAME", "storefront"),
			Port:     getenv("DB_PORT", "5432"),
			TimeZone: getenv("DB_TIMEZONE", "UTC"),
			LogLevel: getenv("DB_LOG_LEVEL", "warn"),
		},
		KafkaBrokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "storefront.events"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
