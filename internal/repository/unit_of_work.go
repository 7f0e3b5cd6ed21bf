package repository

import (
	"context"
	"fmt"

	"github.com/placeshare/api/internal/database"
	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/service"
)

// PlaceUnitOfWork opens batch transactions that change a place and its
// creator's place list together.
type PlaceUnitOfWork struct {
	db database.Database
}

// NewPlaceUnitOfWork creates a unit of work backed by db
func NewPlaceUnitOfWork(db database.Database) *PlaceUnitOfWork {
	return &PlaceUnitOfWork{db: db}
}

// Begin starts a new transaction
func (u *PlaceUnitOfWork) Begin(ctx context.Context) (service.PlaceTx, error) {
	tx, err := u.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &placeTx{tx: tx}, nil
}

// placeTx stages SurrealQL statements on a database.Transaction
type placeTx struct {
	tx database.Transaction
}

func (t *placeTx) InsertPlace(ctx context.Context, place *model.Place) error {
	key, ok := recordKey(model.TablePlace, place.ID)
	if !ok {
		return fmt.Errorf("%w: invalid place id %q", database.ErrQuery, place.ID)
	}
	creatorKey, ok := recordKey(model.TableUser, place.Creator)
	if !ok {
		return fmt.Errorf("%w: invalid creator id %q", database.ErrQuery, place.Creator)
	}

	query := `
		CREATE type::thing('place', $key) CONTENT {
			title: $title,
			description: $description,
			address: $address,
			location: { lat: $lat, lng: $lng },
			image: $image,
			creator: type::thing('user', $creator_key),
			created_on: $created_on,
			updated_on: $created_on
		}
	`
	vars := map[string]interface{}{
		"key":         key,
		"created_on":  place.CreatedOn,
		"title":       place.Title,
		"description": place.Description,
		"address":     place.Address,
		"lat":         place.Location.Lat,
		"lng":         place.Location.Lng,
		"image":       place.Image,
		"creator_key": creatorKey,
	}
	return t.tx.Execute(ctx, query, vars)
}

func (t *placeTx) AddUserPlace(ctx context.Context, userID, placeID string) error {
	return t.changeUserPlaces(ctx, "+=", userID, placeID)
}

func (t *placeTx) DeletePlace(ctx context.Context, placeID string) error {
	key, ok := recordKey(model.TablePlace, placeID)
	if !ok {
		return fmt.Errorf("%w: invalid place id %q", database.ErrQuery, placeID)
	}
	query := `DELETE type::thing('place', $key)`
	return t.tx.Execute(ctx, query, map[string]interface{}{"key": key})
}

func (t *placeTx) RemoveUserPlace(ctx context.Context, userID, placeID string) error {
	return t.changeUserPlaces(ctx, "-=", userID, placeID)
}

func (t *placeTx) changeUserPlaces(ctx context.Context, op, userID, placeID string) error {
	userKey, ok := recordKey(model.TableUser, userID)
	if !ok {
		return fmt.Errorf("%w: invalid user id %q", database.ErrQuery, userID)
	}
	placeKey, ok := recordKey(model.TablePlace, placeID)
	if !ok {
		return fmt.Errorf("%w: invalid place id %q", database.ErrQuery, placeID)
	}

	query := `
		UPDATE type::thing('user', $key) SET
			places ` + op + ` type::thing('place', $place_key),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"key":       userKey,
		"place_key": placeKey,
	}
	return t.tx.Execute(ctx, query, vars)
}

func (t *placeTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *placeTx) Rollback() error {
	return t.tx.Rollback()
}
