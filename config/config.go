package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers for the order collection
const (
	StorageFile     = "file"
	StorageDatabase = "database"
	StorageS3       = "s3"
	StoragePebble   = "pebble"
)

// DefaultSessionTTL is how long an admin token stays valid
const DefaultSessionTTL = time.Hour

// Config holds all application configuration
type Config struct {
	Port          string
	GoEnv         string
	AdminPassword string
	SessionTTL    time.Duration

	StorageDriver string
	OrdersFile    string
	DatabaseURL   string
	PebbleDir     string

	AWSRegion          string
	AWSS3Bucket        string
	AWSS3Endpoint      string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	OrdersObjectKey    string

	CORSAllowOrigins []string
	LogLevel         string
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	ttl, err := parseDuration(getEnv("ADMIN_SESSION_TTL", ""), DefaultSessionTTL)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_SESSION_TTL: %w", err)
	}

	config := &Config{
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		SessionTTL:         ttl,
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageFile)),
		OrdersFile:         getEnv("ORDERS_FILE", "./orders.json"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		PebbleDir:          getEnv("PEBBLE_DIR", "./data/orders"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSS3Endpoint:      getEnv("AWS_S3_ENDPOINT", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		OrdersObjectKey:    getEnv("ORDERS_OBJECT_KEY", "orders/orders.json"),
		CORSAllowOrigins:   splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("ADMIN_SESSION_TTL must be positive")
	}

	switch c.StorageDriver {
	case StorageFile:
		if c.OrdersFile == "" {
			return fmt.Errorf("ORDERS_FILE is required for the file storage driver")
		}
	case StorageDatabase:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the database storage driver")
		}
	case StorageS3:
		if c.AWSS3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required for the s3 storage driver")
		}
	case StoragePebble:
		if c.PebbleDir == "" {
			return fmt.Errorf("PEBBLE_DIR is required for the pebble storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// AllowsAllOrigins reports whether CORS is open to every origin
func (c *Config) AllowsAllOrigins() bool {
	for _, o := range c.CORSAllowOrigins {
		if o == "*" {
			return true
		}
	}
	return len(c.CORSAllowOrigins) == 0
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration accepts Go durations ("90m") or plain milliseconds ("3600000")
func parseDuration(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	var ms int64
	if _, err := fmt.Sscanf(v, "%d", &ms); err != nil || fmt.Sprint(ms) != v {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
