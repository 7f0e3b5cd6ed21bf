package repository

import (
	"context"
	"errors"

	"github.com/placeshare/api/internal/database"
	"github.com/placeshare/api/internal/model"
)

// PlaceRepository handles place data access.
// Inserts and deletes go through PlaceUnitOfWork so the creator's
// place list changes in the same transaction.
type PlaceRepository struct {
	db database.Database
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db database.Database) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// GetByID retrieves a place by ID
func (r *PlaceRepository) GetByID(ctx context.Context, id string) (*model.Place, error) {
	key, ok := recordKey(model.TablePlace, id)
	if !ok {
		return nil, nil
	}

	query := `SELECT * FROM type::thing('place', $key)`
	vars := map[string]interface{}{"key": key}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parsePlaceResult(result)
}

// ListByCreator resolves the user's place references into places.
// Returns database.ErrNotFound when the user does not exist.
func (r *PlaceRepository) ListByCreator(ctx context.Context, userID string) ([]*model.Place, error) {
	key, ok := recordKey(model.TableUser, userID)
	if !ok {
		return nil, database.ErrNotFound
	}

	query := `SELECT places FROM type::thing('user', $key) FETCH places`
	vars := map[string]interface{}{"key": key}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	items, _ := data["places"].([]interface{})
	places := make([]*model.Place, 0, len(items))
	for _, item := range items {
		// Dangling links fetch as NONE
		if item == nil {
			continue
		}
		if _, ok := item.(map[string]interface{}); !ok {
			continue
		}
		place, err := parsePlaceResult(item)
		if err != nil {
			return nil, err
		}
		places = append(places, place)
	}
	return places, nil
}

// UpdateDetails sets title and description. Returns nil when the place does not exist.
func (r *PlaceRepository) UpdateDetails(ctx context.Context, id, title, description string) (*model.Place, error) {
	key, ok := recordKey(model.TablePlace, id)
	if !ok {
		return nil, nil
	}

	query := `
		UPDATE place SET
			title = $title,
			description = $description,
			updated_on = time::now()
		WHERE id = type::thing('place', $key)
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"key":         key,
		"title":       title,
		"description": description,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parsePlaceResult(result)
}

func parsePlaceResult(result interface{}) (*model.Place, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	loc := getMap(data, "location")
	return &model.Place{
		ID:          recordID(model.TablePlace, data["id"]),
		Title:       getString(data, "title"),
		Description: getString(data, "description"),
		Address:     getString(data, "address"),
		Location: model.Location{
			Lat: getFloat(loc, "lat"),
			Lng: getFloat(loc, "lng"),
		},
		Image:     getString(data, "image"),
		Creator:   recordID(model.TableUser, data["creator"]),
		CreatedOn: parseTime(data["created_on"]),
		UpdatedOn: parseTime(data["updated_on"]),
	}, nil
}
