package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/placeshare/api/pkg/jwt"
)

// Environments accepted by SERVER_ENV
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Storage drivers accepted by STORAGE_DRIVER
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	JWT       JWTConfig       `koanf:"jwt"`
	Storage   StorageConfig   `koanf:"storage"`
	Geocoding GeocodingConfig `koanf:"geocoding"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `koanf:"port"`
	Env             string        `koanf:"env"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string `koanf:"host"`
	Port      string `koanf:"port"`
	Namespace string `koanf:"namespace"`
	Database  string `koanf:"database"`
	User      string `koanf:"user"`
	Password  string `koanf:"password"`
	// TxTimeout bounds each place/user transaction
	TxTimeout time.Duration `koanf:"tx_timeout"`
	// Startup connection attempts, with exponential backoff from ConnectBackoff
	ConnectAttempts uint64        `koanf:"connect_attempts"`
	ConnectBackoff  time.Duration `koanf:"connect_backoff"`
}

// JWTConfig holds session token settings
// Tokens always live one hour, so the lifetime is not configurable.
type JWTConfig struct {
	Key    string `koanf:"key"`
	Issuer string `koanf:"issuer"`
}

// TokenConfig returns the settings for the session token service
func (c JWTConfig) TokenConfig() jwt.Config {
	return jwt.Config{Key: c.Key, Issuer: c.Issuer}
}

// StorageConfig selects where uploaded images live
type StorageConfig struct {
	Driver         string   `koanf:"driver"`
	UploadDir      string   `koanf:"upload_dir"`
	MaxUploadBytes int64    `koanf:"max_upload_bytes"`
	S3             S3Config `koanf:"s3"`
}

// S3Config holds settings for an S3-compatible object store
type S3Config struct {
	Bucket          string `koanf:"bucket"`
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	UsePathStyle    bool   `koanf:"use_path_style"`
}

// GeocodingConfig holds the geocoding client settings
type GeocodingConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
	// Consecutive failures before the breaker opens, and how long it stays open
	BreakerFailures    uint32        `koanf:"breaker_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == EnvProduction
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	switch c.Server.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}
	if c.Database.TxTimeout <= 0 {
		errs = append(errs, errors.New("DB_TX_TIMEOUT must be positive"))
	}

	if c.JWT.Key == "" {
		errs = append(errs, errors.New("JWT_KEY is required"))
	} else if c.IsProduction() && len(c.JWT.Key) < 32 {
		errs = append(errs, errors.New("JWT_KEY must be at least 32 characters in production"))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Geocoding.BaseURL == "" {
		errs = append(errs, errors.New("GEOCODING_BASE_URL is required"))
	}
	if c.IsProduction() && c.Geocoding.APIKey == "" {
		errs = append(errs, errors.New("GOOGLE_API_KEY is required in production"))
	}
	if c.Geocoding.Timeout <= 0 {
		errs = append(errs, errors.New("GEOCODING_TIMEOUT must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the settings the selected driver needs
func (s StorageConfig) Validate() error {
	var errs []error
	if s.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	switch s.Driver {
	case StorageLocal:
		if s.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required for local storage"))
		}
	case StorageS3:
		if s.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for s3 storage"))
		}
		if s.S3.Region == "" {
			errs = append(errs, errors.New("S3_REGION is required for s3 storage"))
		}
		if (s.S3.AccessKeyID == "") != (s.S3.SecretAccessKey == "") {
			errs = append(errs, errors.New("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be 'local' or 's3', got '%s'", s.Driver))
	}
	return errors.Join(errs...)
}
