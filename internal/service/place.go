package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/placeshare/api/internal/database"
	"github.com/placeshare/api/internal/metrics"
	"github.com/placeshare/api/internal/model"
)

// imageCleanupTimeout bounds the background removal of a deleted place's image
const imageCleanupTimeout = 30 * time.Second

// PlaceRepository defines the interface for place storage.
// Inserts and deletes go through the Coordinator instead.
type PlaceRepository interface {
	GetByID(ctx context.Context, id string) (*model.Place, error)
	// ListByCreator returns database.ErrNotFound when the user does not exist
	ListByCreator(ctx context.Context, userID string) ([]*model.Place, error)
	// UpdateDetails returns (nil, nil) when the place does not exist
	UpdateDetails(ctx context.Context, id, title, description string) (*model.Place, error)
}

// Geocoder resolves a free-form address to coordinates.
// It returns ErrAddressNotFound when the address has no match and
// ErrGeocoding when the lookup itself failed.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (model.Location, error)
}

// ImageRemover deletes a stored image
type ImageRemover interface {
	Remove(ctx context.Context, path string) error
}

// PlaceService implements the place registry
type PlaceService struct {
	placeRepo   PlaceRepository
	userRepo    UserRepository
	geocoder    Geocoder
	coordinator *Coordinator
	images      ImageRemover
	logger      *slog.Logger

	cleanupTimeout time.Duration
	cleanups       sync.WaitGroup
}

// PlaceServiceConfig holds configuration for the place service
type PlaceServiceConfig struct {
	PlaceRepo   PlaceRepository
	UserRepo    UserRepository
	Geocoder    Geocoder
	Coordinator *Coordinator
	Images      ImageRemover
	Logger      *slog.Logger
}

// NewPlaceService creates a new place service
func NewPlaceService(cfg PlaceServiceConfig) *PlaceService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaceService{
		placeRepo:      cfg.PlaceRepo,
		userRepo:       cfg.UserRepo,
		geocoder:       cfg.Geocoder,
		coordinator:    cfg.Coordinator,
		images:         cfg.Images,
		logger:         logger,
		cleanupTimeout: imageCleanupTimeout,
	}
}

// CreatePlaceRequest represents a validated place creation
type CreatePlaceRequest struct {
	Title       string
	Description string
	Address     string
	Image       string
	CreatorID   string
}

// UpdatePlaceRequest represents a validated place update
type UpdatePlaceRequest struct {
	Title       string
	Description string
}

// GetPlace returns the place with id
func (s *PlaceService) GetPlace(ctx context.Context, id string) (*model.Place, error) {
	place, err := s.placeRepo.GetByID(ctx, model.NormalizeID(model.TablePlace, id))
	if err != nil {
		return nil, internalError(ErrDatabase, "PLACE_LOOKUP_FAILED", err, "place_id", id)
	}
	if place == nil {
		return nil, ErrPlaceNotFound
	}
	return place, nil
}

// ListPlacesByUser returns the places the user created.
// A missing user and a user without places are both ErrNoPlacesForUser.
func (s *PlaceService) ListPlacesByUser(ctx context.Context, userID string) ([]*model.Place, error) {
	places, err := s.placeRepo.ListByCreator(ctx, model.NormalizeID(model.TableUser, userID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNoPlacesForUser
		}
		return nil, internalError(ErrDatabase, "PLACE_LIST_FAILED", err, "user_id", userID)
	}
	if len(places) == 0 {
		return nil, ErrNoPlacesForUser
	}
	return places, nil
}

// CreatePlace geocodes the address and stores the place under its creator
func (s *PlaceService) CreatePlace(ctx context.Context, req CreatePlaceRequest) (*model.Place, error) {
	if req.Title == "" || len(req.Description) < model.MinDescriptionLength || req.Address == "" {
		return nil, ErrInvalidInput
	}

	location, err := s.geocoder.Geocode(ctx, req.Address)
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) || errors.Is(err, ErrGeocoding) {
			return nil, err
		}
		return nil, internalError(ErrGeocoding, "GEOCODE_FAILED", err, "address", req.Address)
	}

	creatorID := model.NormalizeID(model.TableUser, req.CreatorID)
	creator, err := s.userRepo.GetByID(ctx, creatorID)
	if err != nil {
		return nil, internalError(ErrCreationFailed, "PLACE_CREATOR_LOOKUP_FAILED", err, "creator", creatorID)
	}
	if creator == nil {
		return nil, ErrUserNotFound
	}

	now := time.Now().UTC()
	place := &model.Place{
		ID:          model.NewPlaceID(),
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Location:    location,
		Image:       req.Image,
		Creator:     creator.ID,
		CreatedOn:   now,
		UpdatedOn:   now,
	}

	if err := s.coordinator.CreatePlace(ctx, place); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "place created", "place_id", place.ID, "creator", place.Creator)
	return place, nil
}

// UpdatePlace changes title and description. Only the creator may update.
// Address and location are never re-derived.
func (s *PlaceService) UpdatePlace(ctx context.Context, placeID, requesterID string, req UpdatePlaceRequest) (*model.Place, error) {
	if req.Title == "" || len(req.Description) < model.MinDescriptionLength {
		return nil, ErrInvalidInput
	}

	place, err := s.GetPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if !place.IsCreatedBy(requesterID) {
		return nil, ErrNotPlaceCreator
	}

	updated, err := s.placeRepo.UpdateDetails(ctx, place.ID, req.Title, req.Description)
	if err != nil {
		return nil, internalError(ErrUpdateFailed, "PLACE_UPDATE_FAILED", err, "place_id", place.ID)
	}
	if updated == nil {
		// Deleted between the read and the write
		return nil, ErrPlaceNotFound
	}
	return updated, nil
}

// DeletePlace removes the place and its reference atomically, then removes
// its image in the background. Only the creator may delete.
// The deleted place is returned.
func (s *PlaceService) DeletePlace(ctx context.Context, placeID, requesterID string) (*model.Place, error) {
	place, err := s.GetPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if !place.IsCreatedBy(requesterID) {
		return nil, ErrNotPlaceCreator
	}

	if err := s.coordinator.DeletePlace(ctx, place); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "place deleted", "place_id", place.ID, "creator", place.Creator)
	s.RemoveImageAsync(place.Image)
	return place, nil
}

// RemoveImageAsync deletes path from storage without blocking the caller.
// The removal is detached from any request context and bounded by its own
// timeout; a failure is logged and counted, never returned.
func (s *PlaceService) RemoveImageAsync(path string) {
	if path == "" || s.images == nil {
		return
	}

	s.cleanups.Add(1)
	go func() {
		defer s.cleanups.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cleanupTimeout)
		defer cancel()

		if err := s.images.Remove(ctx, path); err != nil {
			metrics.RecordImageCleanupFailure()
			err = internalError(ErrStorage, "IMAGE_CLEANUP_FAILED", err, "path", path)
			s.logger.Warn("image cleanup failed", "path", path, "error", err)
		}
	}()
}

// Wait blocks until background image removals have finished.
// Used on shutdown and in tests.
func (s *PlaceService) Wait() {
	s.cleanups.Wait()
}
