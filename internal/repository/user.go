package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/placeshare/api/internal/database"
	"github.com/placeshare/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with an empty place list.
// A fresh id is assigned when user.ID is empty.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = model.NewUserID()
	}
	key, ok := recordKey(model.TableUser, user.ID)
	if !ok {
		return fmt.Errorf("%w: invalid user id %q", database.ErrQuery, user.ID)
	}

	query := `
		CREATE type::thing('user', $key) CONTENT {
			name: $name,
			email: $email,
			hash: $hash,
			image: $image,
			places: [],
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"key":   key,
		"name":  user.Name,
		"email": user.Email,
		"hash":  user.Hash,
		"image": user.Image,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
		return err
	}

	records := extractQueryResults(result)
	if len(records) == 0 {
		return errors.New("no result returned")
	}
	created, err := parseUserResult(records[0])
	if err != nil {
		return err
	}

	user.ID = created.ID
	user.Places = created.Places
	user.CreatedOn = created.CreatedOn
	user.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	key, ok := recordKey(model.TableUser, id)
	if !ok {
		return nil, nil
	}

	query := `SELECT * FROM type::thing('user', $key)`
	vars := map[string]interface{}{"key": key}

	return r.getOne(ctx, query, vars)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": model.NormalizeEmail(email)}

	return r.getOne(ctx, query, vars)
}

// List returns every user, oldest first
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `SELECT * FROM user ORDER BY created_on ASC`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	records := extractQueryResults(result)
	users := make([]*model.User, 0, len(records))
	for _, rec := range records {
		user, err := parseUserResult(rec)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := parseUserResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func parseUserResult(result interface{}) (*model.User, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	return &model.User{
		ID:        recordID(model.TableUser, data["id"]),
		Name:      getString(data, "name"),
		Email:     getString(data, "email"),
		Hash:      getString(data, "hash"),
		Image:     getString(data, "image"),
		Places:    recordIDs(model.TablePlace, data["places"]),
		CreatedOn: parseTime(data["created_on"]),
		UpdatedOn: parseTime(data["updated_on"]),
	}, nil
}
