package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"invoicer/internal/logger"
)

// Config is the immutable application configuration. It is loaded once in
// main and passed into each component at construction.
type Config struct {
	// Google Sheets Configuration
	SpreadsheetID string // id or full sheet URL
	InvoicesSheet string
	ListsSheet    string

	// Google Drive Configuration
	OutputFolderID string // folder generated documents and PDFs go to

	// Invoice listing cache
	ListCacheTTL time.Duration

	// Delay between document rendering and PDF export, to let the
	// rendering settle upstream. Not a retry, just a fixed wait.
	ExportSettleDelay time.Duration

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	config := &Config{
		SpreadsheetID:     getEnv("INVOICE_SPREADSHEET_ID", ""),
		InvoicesSheet:     getEnv("INVOICE_SHEET_NAME", "Invoices"),
		ListsSheet:        getEnv("LISTS_SHEET_NAME", "Lists"),
		OutputFolderID:    getEnv("INVOICE_FOLDER_ID", ""),
		ListCacheTTL:      getEnvDuration("INVOICE_LIST_CACHE_TTL", 5*time.Minute),
		ExportSettleDelay: getEnvDuration("EXPORT_SETTLE_DELAY", time.Second),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:     getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:         getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("INVOICE_SPREADSHEET_ID is required")
	}
	if c.OutputFolderID == "" {
		return fmt.Errorf("INVOICE_FOLDER_ID is required")
	}
	if c.ListCacheTTL < 0 {
		return fmt.Errorf("INVOICE_LIST_CACHE_TTL must not be negative")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Plain numbers are taken as seconds.
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
