package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Persistence
	DataBackend  string // "sqlite" or "csv"
	SQLiteDBPath string
	CSVDataDir   string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleOAuthClientFile string
	GoogleOAuthTokenFile  string
	GoogleOAuthClientJSON string
	GoogleOAuthTokenJSON  string

	// Worker
	ExportInterval time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/cashflow.db"),
		CSVDataDir:   getEnv("CSV_DATA_DIR", "./data"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cashflow"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_export"),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:       getEnv("GOOGLE_SHEET_NAME", "Transactions"),
		GoogleOAuthClientFile: getEnv("GOOGLE_OAUTH_CLIENT_FILE", ""),
		GoogleOAuthTokenFile:  getEnv("GOOGLE_OAUTH_TOKEN_FILE", ""),
		GoogleOAuthClientJSON: getEnv("GOOGLE_OAUTH_CLIENT_JSON", ""),
		GoogleOAuthTokenJSON:  getEnv("GOOGLE_OAUTH_TOKEN_JSON", ""),

		ExportInterval: getEnvDuration("EXPORT_INTERVAL", 30*time.Second),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case "csv":
		if c.CSVDataDir == "" {
			errors = append(errors, "CSV data directory cannot be empty when using csv backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [sqlite csv]", c.DataBackend))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate Google Sheets configuration if an export target is set
	if c.GoogleSpreadsheetID != "" {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when a spreadsheet ID is provided")
		}

		// Check if client file exists (if specified)
		if c.GoogleOAuthClientFile != "" {
			if _, err := os.Stat(c.GoogleOAuthClientFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google OAuth client file does not exist: %s", c.GoogleOAuthClientFile))
			}
		}

		// Check if token file exists (if specified)
		if c.GoogleOAuthTokenFile != "" {
			if _, err := os.Stat(c.GoogleOAuthTokenFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google OAuth token file does not exist: %s", c.GoogleOAuthTokenFile))
			}
		}
	}

	// Validate worker configuration
	if c.ExportInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at least 1 second", c.ExportInterval))
	} else if c.ExportInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at most 24 hours", c.ExportInterval))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
