package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/placeshare/api/internal/middleware"
	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// Anything unrecognised becomes a generic 500; internal detail never reaches
// the client.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Input Errors → 422 =====
	case errors.Is(err, service.ErrInvalidInput):
		return model.NewValidationError(nil)
	case errors.Is(err, service.ErrAddressNotFound):
		return model.NewUnprocessableError(model.ErrCodeAddressNotFound, "Could not find location for the specified address.")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewConflictError("User exists already, please login instead.")

	// ===== Authentication Errors =====
	case errors.Is(err, service.ErrUnknownEmail):
		return model.NewForbiddenError("Could not identify user, credentials seem to be wrong.")
	case errors.Is(err, service.ErrInvalidCredentials):
		p := model.NewUnauthorizedError("Invalid credentials, could not log you in.")
		p.Code = model.ErrCodeLoginFailed
		return p
	case errors.Is(err, service.ErrInvalidToken):
		return model.NewUnauthorizedError("Authentication failed!")

	// ===== Authorization Errors → 401 =====
	case errors.Is(err, service.ErrNotPlaceCreator):
		return model.NewNotCreatorError("You are not allowed to change this place.")

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrPlaceNotFound):
		return model.NewNotFoundError("Could not find a place for the provided id.")
	case errors.Is(err, service.ErrNoPlacesForUser):
		return model.NewNotFoundError("Could not find places for the provided user id.")
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("Could not find user for the provided id.")

	// ===== Internal Errors → 500 =====
	case errors.Is(err, service.ErrCreationFailed):
		return model.NewInternalError("Creating place failed, please try again.")
	case errors.Is(err, service.ErrDeletionFailed):
		return model.NewInternalError("Something went wrong, could not delete place.")
	case errors.Is(err, service.ErrUpdateFailed):
		return model.NewInternalError("Something went wrong, could not update place.")
	case errors.Is(err, service.ErrSignupFailed):
		return model.NewInternalError("Signing up failed, please try again later.")
	case errors.Is(err, service.ErrLoginFailed):
		return model.NewInternalError("Logging in failed, please try again later.")
	case errors.Is(err, service.ErrHashing),
		errors.Is(err, service.ErrToken):
		return model.NewInternalError("Authentication failed, please try again later.")

	default:
		return model.NewInternalError("")
	}
}

// writeServiceError maps err to a problem response and logs server-side
// failures with their oops code and attributes.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	problem := MapServiceError(err)
	if problem.Status >= http.StatusInternalServerError {
		attrs := []any{
			"error", err,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		}
		if oopsErr, ok := oops.AsOops(err); ok {
			attrs = append(attrs, "code", oopsErr.Code(), "context", oopsErr.Context())
		}
		logger.ErrorContext(r.Context(), "request failed", attrs...)
	}
	WriteError(w, problem)
}
