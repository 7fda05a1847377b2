package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SessionTTL  time.Duration
	ClientURL   string
	MailDriver  string
	MailFrom    string
	AWSRegion   string
	Timezone    string
	LogLevel    string
	LogFormat   string
	SwaggerHost string
	ResetDB     bool

	// Requests per second and burst allowed per client IP on auth routes.
	AuthRateLimit int
	AuthRateBurst int
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "5000"),
		MySQLDSN:      getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/healthtracker?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     getEnv("JWT_SECRET", "healthtrackersecret123"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 5*time.Hour),
		ClientURL:     getEnv("CLIENT_URL", "http://localhost:3000"),
		MailDriver:    getEnv("MAIL_DRIVER", "log"),
		MailFrom:      getEnv("MAIL_FROM", `"Health Tracker" <noreply@healthtracker.com>`),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		Timezone:      getEnv("APP_TIMEZONE", "Local"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		SwaggerHost:   os.Getenv("SWAGGER_HOST"),
		ResetDB:       getEnvBool("RESET_DB", false),
		AuthRateLimit: getEnvInt("AUTH_RATE_LIMIT", 5),
		AuthRateBurst: getEnvInt("AUTH_RATE_BURST", 10),
	}
}

// Location resolves the configured timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
