package partnership

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// SendGridAPIKey is a SendGrid auth token (SENDGRID_API_KEY). Set by builder.
var SendGridAPIKey = ""

// EmailFromName is a sender name for emails. Set by builder.
var EmailFromName = ""

// EmailFromAddress is a sender address for emails. Set by builder.
var EmailFromAddress = ""

// Version is a product version. Set by builder.
var Version = ""

// Set by builder.
var logServiceDSN = ""

// IsDev returns true if build is not production.
func IsDev() bool { return Version == "dev" }

// Config describes runtime settings of a lambda container.
type Config struct {
	DatabaseURL      string
	DBMaxOpenConns   int
	SentryDSN        string
	SendGridAPIKey   string
	EmailFromName    string
	EmailFromAddress string
	Stage            string
}

// LoadConfig reads settings from the environment, builder-set values are
// used as defaults. A local .env file is loaded if it exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	result := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:   2,
		SentryDSN:        getEnvOrDefault("SENTRY_DSN", logServiceDSN),
		SendGridAPIKey:   getEnvOrDefault("SENDGRID_API_KEY", SendGridAPIKey),
		EmailFromName:    getEnvOrDefault("EMAIL_FROM_NAME", EmailFromName),
		EmailFromAddress: getEnvOrDefault("EMAIL_FROM_ADDRESS", EmailFromAddress),
		Stage:            getEnvOrDefault("STAGE", Version),
	}
	if result.DatabaseURL == "" {
		return nil, fmt.Errorf(`environment variable "DATABASE_URL" is not set`)
	}
	if value := os.Getenv("DB_MAX_OPEN_CONNS"); value != "" {
		conns, err := strconv.Atoi(value)
		if err != nil || conns <= 0 {
			return nil, fmt.Errorf(
				`environment variable "DB_MAX_OPEN_CONNS" has invalid value "%s"`,
				value)
		}
		result.DBMaxOpenConns = conns
	}
	return result, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
