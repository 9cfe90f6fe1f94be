package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface shared by the
// catalog and inventory binaries.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Catalog   CatalogConfig
	Retry     RetryConfig
	Kafka     KafkaConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
	Reporting ReportingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	APIKey   string
	LogLevel string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// CatalogConfig points the inventory service at the product catalog.
type CatalogConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// RetryConfig bounds the directory retries of the read-only detail query.
type RetryConfig struct {
	Attempts int
	Backoff  time.Duration
}

// KafkaConfig enables publishing change events. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// SheetsConfig contains configuration required to export movements to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// WhatsAppConfig contains credentials for low stock alerts over the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken       string
	PhoneNumberID     string
	BaseURL           string
	APIVersion        string
	AlertRecipient    string
	LowStockThreshold int64
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	threshold, err := getenvInt("LOW_STOCK_THRESHOLD", 5)
	if err != nil {
		return nil, err
	}
	attempts, err := getenvInt("DETAIL_RETRY_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	backoffMs, err := getenvInt("DETAIL_RETRY_BACKOFF_MS", 300)
	if err != nil {
		return nil, err
	}
	timeoutMs, err := getenvInt("CATALOG_TIMEOUT_MS", 3000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			APIKey:   os.Getenv("API_KEY"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockledger"),
		},
		Catalog: CatalogConfig{
			BaseURL: os.Getenv("CATALOG_BASE_URL"),
			APIKey:  os.Getenv("CATALOG_API_KEY"),
			Timeout: time.Duration(timeoutMs) * time.Millisecond,
		},
		Retry: RetryConfig{
			Attempts: int(attempts),
			Backoff:  time.Duration(backoffMs) * time.Millisecond,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getenvWithDefault("KAFKA_TOPIC", "inventory.changed"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:       os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:     os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:           getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:        getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			AlertRecipient:    os.Getenv("WHATSAPP_ALERT_RECIPIENT"),
			LowStockThreshold: threshold,
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that the fields every binary needs are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	switch {
	case c.Server.Port == "":
		return errors.New("APP_PORT must be provided")
	case c.Server.APIKey == "":
		return errors.New("API_KEY must be provided")
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	return nil
}

// ValidateInventory checks the settings only the inventory service uses.
func (c *Config) ValidateInventory() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Catalog.BaseURL == "" {
		return errors.New("CATALOG_BASE_URL must be provided")
	}
	if c.Catalog.APIKey == "" {
		return errors.New("CATALOG_API_KEY must be provided")
	}
	if c.Catalog.Timeout <= 0 {
		return errors.New("CATALOG_TIMEOUT_MS must be positive")
	}
	if c.Retry.Attempts < 1 {
		return errors.New("DETAIL_RETRY_ATTEMPTS must be at least 1")
	}
	if c.Retry.Backoff < 0 {
		return errors.New("DETAIL_RETRY_BACKOFF_MS must not be negative")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("KAFKA_TOPIC must not be empty when KAFKA_BROKERS is set")
	}
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}
	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	return nil
}

// KafkaEnabled reports whether change events should be published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

// SheetsEnabled reports whether movements should be exported to Google Sheets.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

// WhatsAppEnabled reports whether alerts can be delivered over WhatsApp.
func (c *Config) WhatsAppEnabled() bool {
	return c.WhatsApp.AccessToken != "" && c.WhatsApp.PhoneNumberID != "" && c.WhatsApp.AlertRecipient != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
