package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	AI       AIConfig
	Storage  StorageConfig
}

// DatabaseConfig holds database-related configuration.
// When DSN is empty the service falls back to a local sqlite store at SQLitePath.
type DatabaseConfig struct {
	DSN              string
	SQLitePath       string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// OCRConfig holds configuration for the external OCR/layout-analysis engine.
type OCRConfig struct {
	Enabled  bool
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// AIConfig holds configuration for the sentiment/summary enrichment client.
type AIConfig struct {
	Enabled     bool
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// StorageConfig holds object-storage configuration.
type StorageConfig struct {
	Dir string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			SQLitePath:       getEnv("SQLITE_PATH", "./docanalyzer.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes:  getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OCR: OCRConfig{
			Enabled:  getEnvAsBool("OCR_ENABLED", true),
			Endpoint: getEnv("OCR_ENDPOINT", ""),
			APIKey:   getEnv("OCR_API_KEY", ""),
			Timeout:  getEnvAsDuration("OCR_TIMEOUT", 60*time.Second),
		},
		AI: AIConfig{
			Enabled:     getEnvAsBool("OPENAI_ENABLED", false),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Storage: StorageConfig{
			Dir: getEnv("STORAGE_DIR", "./data/documents"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration.
// OCR and AI are optional collaborators: when unconfigured the pipeline
// degrades instead of failing, so only the server surface is mandatory.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Database.DSN == "" && c.Database.SQLitePath == "" {
		return NewAppError("CONFIG_ERROR", "one of DB_URL or SQLITE_PATH is required", ErrInvalidInput)
	}
	if c.Storage.Dir == "" {
		return NewAppError("CONFIG_ERROR", "STORAGE_DIR is required", ErrInvalidInput)
	}
	if c.OCR.Enabled && c.OCR.Endpoint != "" && c.OCR.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OCR_API_KEY is required when OCR_ENDPOINT is set", ErrInvalidInput)
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required when OPENAI_ENABLED is true", ErrInvalidInput)
	}
	return nil
}
