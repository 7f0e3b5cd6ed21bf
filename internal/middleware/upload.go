package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/placeshare/api/internal/metrics"
	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/storage"
)

// ImagePathKey is the context key for the stored upload path
const ImagePathKey contextKey = "imagePath"

// DefaultMaxImageBytes caps an uploaded image
const DefaultMaxImageBytes = 500 * 1024

// formOverhead leaves room for the text fields sent next to the image
const formOverhead = 1 << 20

const discardTimeout = 30 * time.Second

// imageExtensions maps the accepted sniffed types to file extensions
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpeg",
}

// ImageUploadConfig configures ImageUpload
type ImageUploadConfig struct {
	Store    storage.Store
	Field    string // multipart field name, default "image"
	MaxBytes int64  // default DefaultMaxImageBytes
	Logger   *slog.Logger
}

// ImageUpload parses a multipart form, stores its image under a fresh uuid
// name and puts the stored path in the request context.
// Only png and jpeg content is accepted, whatever the declared type.
// If the wrapped handler answers with an error status, the stored file is
// removed again.
func ImageUpload(cfg ImageUploadConfig) Middleware {
	if cfg.Field == "" {
		cfg.Field = "image"
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxImageBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBytes+formOverhead)
			if err := r.ParseMultipartForm(cfg.MaxBytes + formOverhead); err != nil {
				metrics.RecordImageUpload("rejected")
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					imageTooLarge(cfg).WriteJSON(w)
					return
				}
				notMultipart(cfg).WriteJSON(w)
				return
			}
			defer func() { _ = r.MultipartForm.RemoveAll() }()

			path, problem := saveImage(r, cfg)
			if problem != nil {
				problem.WriteJSON(w)
				return
			}

			wrapped := wrapResponseWriter(w)
			defer func() {
				if p := recover(); p != nil {
					discardImage(r.Context(), cfg, path)
					panic(p)
				}
				if wrapped.statusCode >= http.StatusBadRequest {
					discardImage(r.Context(), cfg, path)
				}
			}()

			ctx := context.WithValue(r.Context(), ImagePathKey, path)
			next.ServeHTTP(wrapped, r.WithContext(ctx))
		})
	}
}

func saveImage(r *http.Request, cfg ImageUploadConfig) (string, *model.ProblemDetails) {
	file, header, err := r.FormFile(cfg.Field)
	if err != nil {
		metrics.RecordImageUpload("rejected")
		return "", model.NewValidationError([]model.FieldError{
			{Field: cfg.Field, Message: fmt.Sprintf("%s is required", cfg.Field)},
		})
	}
	defer file.Close()

	if header.Size > cfg.MaxBytes {
		metrics.RecordImageUpload("rejected")
		return "", imageTooLarge(cfg)
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		metrics.RecordImageUpload("rejected")
		return "", invalidImage(cfg)
	}
	var ext, contentType string
	for t, e := range imageExtensions {
		if mtype.Is(t) {
			ext, contentType = e, t
		}
	}
	if ext == "" {
		metrics.RecordImageUpload("rejected")
		return "", invalidImage(cfg)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		metrics.RecordImageUpload("failed")
		cfg.Logger.ErrorContext(r.Context(), "image rewind failed", "error", err)
		return "", model.NewInternalError("")
	}

	path, err := cfg.Store.Save(r.Context(), uuid.NewString()+ext, contentType, file)
	if err != nil {
		metrics.RecordImageUpload("failed")
		cfg.Logger.ErrorContext(r.Context(), "image store failed", "error", err)
		return "", model.NewInternalError("")
	}
	metrics.RecordImageUpload("stored")
	return path, nil
}

// discardImage removes an image whose request failed.
// It runs detached from the request context so a cancelled client does not stop it.
func discardImage(ctx context.Context, cfg ImageUploadConfig, path string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discardTimeout)
	defer cancel()

	if err := cfg.Store.Remove(ctx, path); err != nil {
		metrics.RecordImageCleanupFailure()
		cfg.Logger.WarnContext(ctx, "discarding uploaded image failed", "path", path, "error", err)
		return
	}
	metrics.RecordImageUpload("discarded")
}

func imageTooLarge(cfg ImageUploadConfig) *model.ProblemDetails {
	return model.NewValidationError([]model.FieldError{
		{Field: cfg.Field, Message: fmt.Sprintf("%s must be at most %d KB", cfg.Field, cfg.MaxBytes/1024)},
	})
}

func notMultipart(cfg ImageUploadConfig) *model.ProblemDetails {
	return model.NewValidationError([]model.FieldError{
		{Field: cfg.Field, Message: "request must be a multipart form with an " + cfg.Field + " file"},
	})
}

func invalidImage(cfg ImageUploadConfig) *model.ProblemDetails {
	return model.NewValidationError([]model.FieldError{
		{Field: cfg.Field, Message: fmt.Sprintf("%s must be a png or jpeg file", cfg.Field)},
	})
}

// GetImagePath returns the stored upload path, or "" when there is none
func GetImagePath(ctx context.Context) string {
	if p, ok := ctx.Value(ImagePathKey).(string); ok {
		return p
	}
	return ""
}
