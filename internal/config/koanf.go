package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// Default returns the built-in configuration used as the lowest layer
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "5000",
			Env:             EnvDevelopment,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "8000",
			Namespace:       "placeshare",
			Database:        "main",
			User:            "root",
			Password:        "root",
			TxTimeout:       10 * time.Second,
			ConnectAttempts: 5,
			ConnectBackoff:  500 * time.Millisecond,
		},
		JWT: JWTConfig{
			Issuer: "placeshare",
		},
		Storage: StorageConfig{
			Driver:         StorageLocal,
			UploadDir:      "uploads/images",
			MaxUploadBytes: 500 * 1024,
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Geocoding: GeocodingConfig{
			BaseURL:            "https://maps.googleapis.com/maps/api/geocode/json",
			Timeout:            5 * time.Second,
			BreakerFailures:    5,
			BreakerOpenTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration in three layers, later layers winning:
//  1. built-in defaults
//  2. an optional YAML file (CONFIG_PATH, else config.yaml / config.yml)
//  3. environment variables
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are read from env as comma-separated lists
var sliceConfigPaths = []string{
	"server.allowed_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"server_port":             "server.port",
	"server_env":              "server.env",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",
	"cors_allowed_origins":    "server.allowed_origins",

	"db_host":             "database.host",
	"db_port":             "database.port",
	"db_namespace":        "database.namespace",
	"db_database":         "database.database",
	"db_user":             "database.user",
	"db_password":         "database.password",
	"db_tx_timeout":       "database.tx_timeout",
	"db_connect_attempts": "database.connect_attempts",
	"db_connect_backoff":  "database.connect_backoff",

	"jwt_key":    "jwt.key",
	"jwt_issuer": "jwt.issuer",

	"storage_driver":       "storage.driver",
	"upload_dir":           "storage.upload_dir",
	"upload_max_bytes":     "storage.max_upload_bytes",
	"s3_bucket":            "storage.s3.bucket",
	"s3_region":            "storage.s3.region",
	"s3_endpoint":          "storage.s3.endpoint",
	"s3_access_key_id":     "storage.s3.access_key_id",
	"s3_secret_access_key": "storage.s3.secret_access_key",
	"s3_use_path_style":    "storage.s3.use_path_style",

	"google_api_key":                 "geocoding.api_key",
	"geocoding_base_url":             "geocoding.base_url",
	"geocoding_timeout":              "geocoding.timeout",
	"geocoding_breaker_failures":     "geocoding.breaker_failures",
	"geocoding_breaker_open_timeout": "geocoding.breaker_open_timeout",

	"log_level": "logging.level",
}

// envTransformFunc maps an environment variable name to its koanf path.
// An empty result tells the env provider to skip the variable.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
