package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/placeshare/api/internal/middleware"
	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/service"
	"github.com/placeshare/api/internal/validation"
)

// PlaceHandler serves the place registry
type PlaceHandler struct {
	placeService *service.PlaceService
	logger       *slog.Logger
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(placeService *service.PlaceService, logger *slog.Logger) *PlaceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaceHandler{placeService: placeService, logger: logger}
}

type placeResponse struct {
	Place *model.Place `json:"place"`
}

type placesResponse struct {
	Places []*model.Place `json:"places"`
}

// Get handles GET /api/places/{pid}
func (h *PlaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	place, err := h.placeService.GetPlace(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, placeResponse{Place: place})
}

// ListByUser handles GET /api/places/user/{uid}
func (h *PlaceHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	places, err := h.placeService.ListPlacesByUser(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, placesResponse{Places: places})
}

// Create handles POST /api/places. The creator is the authenticated user.
func (h *PlaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := model.CreatePlaceRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Address:     r.FormValue("address"),
	}
	req.Normalize()
	if errs := validation.Validate(&req); errs != nil {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	place, err := h.placeService.CreatePlace(r.Context(), service.CreatePlaceRequest{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Image:       middleware.GetImagePath(r.Context()),
		CreatorID:   middleware.GetUserID(r.Context()),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, placeResponse{Place: place})
}

// Update handles PATCH /api/places/{pid}
func (h *PlaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdatePlaceRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	req.Normalize()
	if errs := validation.Validate(&req); errs != nil {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	place, err := h.placeService.UpdatePlace(r.Context(), chi.URLParam(r, "pid"), middleware.GetUserID(r.Context()),
		service.UpdatePlaceRequest{Title: req.Title, Description: req.Description})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, placeResponse{Place: place})
}

// Delete handles DELETE /api/places/{pid}
func (h *PlaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.placeService.DeletePlace(r.Context(), chi.URLParam(r, "pid"), middleware.GetUserID(r.Context())); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
