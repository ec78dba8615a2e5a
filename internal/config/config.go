package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP (optional; empty URL disables activity events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Gemini vision extraction (optional; empty key disables the
	// AI import route)
	GeminiAPIKey string
	GeminiModel  string

	// Invoice defaults
	DefaultUnitPrice float64

	// Business identity printed on the invoice
	BusinessName    string
	BusinessTagline string
	BusinessAddress string
	BusinessPhone   string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/tiffinbill.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tiffinbill"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "activity_events"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		DefaultUnitPrice: getEnvFloat("DEFAULT_UNIT_PRICE", 80),

		BusinessName:    getEnv("BUSINESS_NAME", "Bhookhad Baba"),
		BusinessTagline: getEnv("BUSINESS_TAGLINE", "Tiffin Service"),
		BusinessAddress: getEnv("BUSINESS_ADDRESS", "Shop No. 8, Gaur City 2, Greater Noida"),
		BusinessPhone:   getEnv("BUSINESS_PHONE", "8826513777"),
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

	// Validate SQLite path
	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
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

	// Validate Gemini configuration if the key is provided
	if c.GeminiAPIKey != "" && c.GeminiModel == "" {
		errors = append(errors, "Gemini model name cannot be empty when GEMINI_API_KEY is provided")
	}

	// Validate invoice defaults
	if c.DefaultUnitPrice <= 0 {
		errors = append(errors, fmt.Sprintf("invalid default unit price %v: must be greater than 0", c.DefaultUnitPrice))
	}

	if c.BusinessName == "" {
		errors = append(errors, "business name cannot be empty")
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// VisionEnabled reports whether the AI import route can be served.
func (c *Config) VisionEnabled() bool {
	return c.GeminiAPIKey != ""
}

// EventsEnabled reports whether activity events should be published.
func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
