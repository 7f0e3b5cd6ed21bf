package handler

import (
	"log/slog"
	"net/http"

	"github.com/placeshare/api/internal/middleware"
	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/service"
	"github.com/placeshare/api/internal/validation"
)

// AuthHandler handles signup and login
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles POST /api/users/signup.
// The body is a multipart form; the image has already been stored by the
// upload middleware.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req := model.SignupRequest{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	req.Normalize()
	if errs := validation.Validate(&req); errs != nil {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	result, err := h.authService.Signup(r.Context(), service.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Image:    middleware.GetImagePath(r.Context()),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusCreated, model.AuthResponse{
		UserID: result.User.ID,
		Email:  result.User.Email,
		Token:  result.Token,
	})
}

// Login handles POST /api/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	req.Normalize()
	if errs := validation.Validate(&req); errs != nil {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, model.AuthResponse{
		UserID: result.User.ID,
		Email:  result.User.Email,
		Token:  result.Token,
	})
}
