// Package config loads and validates the API configuration.
//
// Configuration is layered with koanf: built-in defaults, then an optional
// YAML file, then environment variables.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration Groups
//
//   - ServerConfig: HTTP port, environment, timeouts, CORS origins
//   - DatabaseConfig: SurrealDB connection and transaction timeout
//   - JWTConfig: session token signing key and issuer
//   - StorageConfig: local disk or S3 image storage
//   - GeocodingConfig: geocoding API key, endpoint and circuit breaker
//   - LoggingConfig: log level
//
// # Environment Variables
//
//	SERVER_PORT           - HTTP server port (default: 5000)
//	SERVER_ENV            - development, production or test
//	CORS_ALLOWED_ORIGINS  - comma-separated origins (default: *)
//	DB_HOST, DB_PORT      - SurrealDB address
//	DB_TX_TIMEOUT         - place transaction timeout (default: 10s)
//	JWT_KEY               - token signing key (required)
//	STORAGE_DRIVER        - local or s3
//	UPLOAD_DIR            - local image directory (default: uploads/images)
//	S3_BUCKET, S3_REGION  - object store location
//	GOOGLE_API_KEY        - geocoding API key
//	LOG_LEVEL             - debug, info, warn or error
//
// A YAML file uses the koanf paths instead:
//
//	server:
//	  port: "5000"
//	storage:
//	  driver: s3
//	  s3:
//	    bucket: place-images
package config
