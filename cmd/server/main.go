package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/placeshare/api/internal/config"
	"github.com/placeshare/api/internal/database"
	"github.com/placeshare/api/internal/geocode"
	"github.com/placeshare/api/internal/handler"
	"github.com/placeshare/api/internal/logging"
	"github.com/placeshare/api/internal/repository"
	"github.com/placeshare/api/internal/service"
	"github.com/placeshare/api/internal/storage"
	"github.com/placeshare/api/pkg/jwt"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.Setup(cfg.Server.Env, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := connectDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	images, localImages, err := openImageStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	placeRepo := repository.NewPlaceRepository(db)

	// Services
	credentials := service.NewCredentialService(service.CredentialServiceConfig{
		JWTService: jwt.NewService(cfg.JWT.TokenConfig()),
	})
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:    userRepo,
		Credentials: credentials,
		Logger:      logger,
	})
	placeService := service.NewPlaceService(service.PlaceServiceConfig{
		PlaceRepo: placeRepo,
		UserRepo:  userRepo,
		Geocoder:  newGeocoder(cfg, logger),
		Coordinator: service.NewCoordinator(service.CoordinatorConfig{
			UnitOfWork: repository.NewPlaceUnitOfWork(db),
			Timeout:    cfg.Database.TxTimeout,
			Logger:     logger,
		}),
		Images: images,
		Logger: logger,
	})
	defer placeService.Wait()

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           handler.NewAuthHandler(authService, logger),
		Users:          handler.NewUserHandler(service.NewUserService(userRepo), logger),
		Places:         handler.NewPlaceHandler(placeService, logger),
		Health:         handler.NewHealthHandler(db, logger),
		Credentials:    credentials,
		Images:         images,
		LocalImages:    localImages,
		MaxImageBytes:  cfg.Storage.MaxUploadBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.String("storage", cfg.Storage.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	logger.Info("server exited")
	return nil
}

// connectDatabase dials SurrealDB, retrying with exponential backoff while the
// database comes up.
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*database.SurrealDB, error) {
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Host,
		Port:      cfg.Port,
		User:      cfg.User,
		Password:  cfg.Password,
		Namespace: cfg.Namespace,
		Database:  cfg.Database,
	})

	backoff := retry.WithMaxRetries(cfg.ConnectAttempts, retry.NewExponential(cfg.ConnectBackoff))
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := db.Connect(ctx); err != nil {
			logger.Warn("database connection failed",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	logger.Info("connected to database",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database),
	)
	return db, nil
}

// openImageStore returns the configured image store. The local store is also
// returned on its own so the router can serve its files.
func openImageStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, *storage.Local, error) {
	switch cfg.Driver {
	case config.StorageS3:
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
			Prefix:          "uploads/images",
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open s3 storage: %w", err)
		}
		return s3, nil, nil
	default:
		local, err := storage.NewLocal(cfg.UploadDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open local storage: %w", err)
		}
		return local, local, nil
	}
}

// newGeocoder falls back to a fixed location outside production when no API
// key is configured.
func newGeocoder(cfg *config.Config, logger *slog.Logger) service.Geocoder {
	if cfg.Geocoding.APIKey == "" && !cfg.IsProduction() {
		logger.Warn("GOOGLE_API_KEY not set, every address resolves to a fixed location")
		return geocode.NewStatic()
	}
	return geocode.New(geocode.Config{
		APIKey:             cfg.Geocoding.APIKey,
		BaseURL:            cfg.Geocoding.BaseURL,
		Timeout:            cfg.Geocoding.Timeout,
		BreakerFailures:    cfg.Geocoding.BreakerFailures,
		BreakerOpenTimeout: cfg.Geocoding.BreakerOpenTimeout,
		Logger:             logger,
	})
}
