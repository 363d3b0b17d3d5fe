// Package config reads the process configuration from the environment once at
// startup so every other component can receive it by injection.
package config

import (
	"os"
	"strconv"
	"strings"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds every recognized environment option.
type Config struct {
	Port int
	Env  string

	// Database connection, either a full connection string or discrete parts.
	UseConnStr bool
	ConnStr    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	AllowOrigins []string

	// AdminToken is the static shared secret; SecretKey signs access tokens.
	AdminToken string
	SecretKey  string

	// Bootstrap credentials for the default admin account.
	AdminUsername string
	AdminPassword string

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	OwnerEmail string

	UploadDir       string
	RateLimitPerSec uint
}

// Load builds a Config from the environment, applying defaults where the
// variable is unset.
func Load() *Config {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		port = 8080
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || smtpPort <= 0 {
		smtpPort = 587
	}

	rateLimit, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS_PER_SECOND"))
	if err != nil || rateLimit <= 0 {
		rateLimit = 5
	}

	useConnStr, _ := strconv.ParseBool(os.Getenv("USE_CONNECTION_STR"))

	return &Config{
		Port: port,
		Env:  envOr("APP_ENV", "development"),

		UseConnStr: useConnStr,
		ConnStr:    os.Getenv("DB_CONNECTION_STR"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USERNAME"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_DATABASE"),

		AllowOrigins: splitOrigins(envOr("ALLOW_ORIGIN", "*")),

		AdminToken: os.Getenv("ADMIN_TOKEN"),
		SecretKey:  os.Getenv("SECRET_KEY"),

		AdminUsername: envOr("ADMIN_USERNAME", "admin"),
		AdminPassword: envOr("ADMIN_PASSWORD", "admin123"),

		SMTPHost:   os.Getenv("SMTP_HOST"),
		SMTPPort:   smtpPort,
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
		OwnerEmail: os.Getenv("OWNER_EMAIL"),

		UploadDir:       envOr("UPLOAD_DIR", "uploads"),
		RateLimitPerSec: uint(rateLimit),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
