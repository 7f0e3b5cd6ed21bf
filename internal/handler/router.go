package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/placeshare/api/internal/middleware"
	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/storage"
)

// ImagesURLPrefix is where locally stored images are served
const ImagesURLPrefix = "/uploads/images/"

// RouterConfig holds everything the router wires together
type RouterConfig struct {
	Auth   *AuthHandler
	Users  *UserHandler
	Places *PlaceHandler
	Health *HealthHandler

	Credentials middleware.AuthService
	Images      storage.Store
	// LocalImages, when set, is mounted read-only at ImagesURLPrefix
	LocalImages *storage.Local

	MaxImageBytes  int64
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the HTTP routing tree
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.NotFound(routeNotFound)
	r.MethodNotAllowed(routeNotFound)

	upload := middleware.ImageUpload(middleware.ImageUploadConfig{
		Store:    cfg.Images,
		MaxBytes: cfg.MaxImageBytes,
		Logger:   logger,
	})
	authenticated := middleware.Auth(cfg.Credentials)

	r.Get("/health", cfg.Health.Health)
	r.Handle("/metrics", promhttp.Handler())
	if cfg.LocalImages != nil {
		r.Handle(ImagesURLPrefix+"*", cfg.LocalImages.Handler(ImagesURLPrefix))
	}

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", cfg.Users.List)
		r.With(upload).Post("/signup", cfg.Auth.Signup)
		r.Post("/login", cfg.Auth.Login)
		r.Get("/{uid}/places", cfg.Places.ListByUser)
	})

	r.Route("/api/places", func(r chi.Router) {
		r.Get("/user/{uid}", cfg.Places.ListByUser)
		r.Get("/{pid}", cfg.Places.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.With(upload).Post("/", cfg.Places.Create)
			r.Patch("/{pid}", cfg.Places.Update)
			r.Delete("/{pid}", cfg.Places.Delete)
		})
	})

	return r
}

func routeNotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, model.NewNotFoundError("Could not find this route."))
}
