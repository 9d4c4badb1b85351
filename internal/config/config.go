package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Storage backends
const (
	StorageLocal = "local"
	StorageB2    = "b2"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Video record store configuration
	Store StoreConfig

	// Database configuration (postgres store backend)
	Database DatabaseConfig

	// Object storage configuration
	Storage StorageConfig

	// Upload configuration
	Upload UploadConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StoreConfig selects the video record store backend
type StoreConfig struct {
	Backend string // "memory" or "postgres"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// StorageConfig holds object storage settings
type StorageConfig struct {
	Backend       string // "local" or "b2"
	PublicBaseURL string // base URL playback links are built from
	LocalDir      string
	B2            B2Config
}

// B2Config holds Backblaze B2 settings. The native API credentials
// drive the upload handshake; the S3-compatible endpoint serves
// presigned playback.
type B2Config struct {
	KeyID        string
	AppKey       string
	APIURL       string
	BucketID     string
	BucketName   string
	S3Endpoint   string
	Region       string
	SignedURLTTL time.Duration
}

// UploadConfig holds upload settings
type UploadConfig struct {
	MaxUploadSize int64 // in bytes
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "5000"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 300*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", StoreMemory),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "xenzys"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", StorageLocal),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:5000"),
			LocalDir:      getEnv("UPLOAD_DIR", "./data/uploads"),
			B2: B2Config{
				KeyID:        getEnv("B2_KEY_ID", ""),
				AppKey:       getEnv("B2_APP_KEY", ""),
				APIURL:       getEnv("B2_API_URL", "https://api.backblazeb2.com"),
				BucketID:     getEnv("B2_BUCKET_ID", ""),
				BucketName:   getEnv("B2_BUCKET_NAME", ""),
				S3Endpoint:   getEnv("B2_S3_ENDPOINT", ""),
				Region:       getEnv("B2_REGION", "us-east-005"),
				SignedURLTTL: getDurationEnv("B2_SIGNED_URL_TTL", time.Hour),
			},
		},
		Upload: UploadConfig{
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 100*1024*1024), // 100MB
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Store.Backend != StoreMemory && c.Store.Backend != StorePostgres {
		return fmt.Errorf("STORE_BACKEND must be %q or %q", StoreMemory, StorePostgres)
	}
	if c.Storage.Backend != StorageLocal && c.Storage.Backend != StorageB2 {
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q", StorageLocal, StorageB2)
	}
	if c.Store.Backend == StorePostgres {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	}
	if c.Storage.Backend == StorageB2 {
		if c.Storage.B2.KeyID == "" || c.Storage.B2.AppKey == "" {
			return fmt.Errorf("B2_KEY_ID and B2_APP_KEY are required")
		}
		if c.Storage.B2.BucketID == "" || c.Storage.B2.BucketName == "" {
			return fmt.Errorf("B2_BUCKET_ID and B2_BUCKET_NAME are required")
		}
		if c.Storage.B2.S3Endpoint == "" {
			return fmt.Errorf("B2_S3_ENDPOINT is required")
		}
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
