// Package fixtures provides test data factories for database tests.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories write through the real
// repositories and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	place := f.CreatePlace(t, user)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/placeshare/api/internal/database"
	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/repository"
	"github.com/placeshare/api/internal/service"
)

// DefaultPassword is the plaintext password of every fixture user
const DefaultPassword = "testpass123"

// Factory creates test entities in the database
type Factory struct {
	users       *repository.UserRepository
	coordinator *service.Coordinator
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		users: repository.NewUserRepository(db),
		coordinator: service.NewCoordinator(service.CoordinatorConfig{
			UnitOfWork: repository.NewPlaceUnitOfWork(db),
		}),
	}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func withTimeout(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Name     string
	Email    string
	Password string
	Image    string
}

// WithEmail sets the user's email
func WithEmail(email string) func(*UserOpts) {
	return func(o *UserOpts) { o.Email = email }
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	id := randomID()
	o := &UserOpts{
		Name:     "user " + id,
		Email:    fmt.Sprintf("user_%s@test.local", id),
		Password: DefaultPassword,
		Image:    "uploads/images/" + id + ".png",
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	user := &model.User{
		Name:  o.Name,
		Email: model.NormalizeEmail(o.Email),
		Hash:  string(hash),
		Image: o.Image,
	}
	if err := f.users.Create(withTimeout(t), user); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	return user
}

// ============================================================================
// Place Fixtures
// ============================================================================

// PlaceOpts customizes place creation
type PlaceOpts struct {
	Title       string
	Description string
	Address     string
	Location    model.Location
	Image       string
}

// WithTitle sets the place title
func WithTitle(title string) func(*PlaceOpts) {
	return func(o *PlaceOpts) { o.Title = title }
}

// CreatePlace creates a place owned by creator, linked in the same
// transaction the API uses.
func (f *Factory) CreatePlace(t *testing.T, creator *model.User, opts ...func(*PlaceOpts)) *model.Place {
	t.Helper()

	id := randomID()
	o := &PlaceOpts{
		Title:       "place " + id,
		Description: "A place worth visiting",
		Address:     "20 W 34th St, New York, NY 10001",
		Location:    model.Location{Lat: 40.7484474, Lng: -73.9871516},
		Image:       "uploads/images/" + id + ".jpeg",
	}
	for _, fn := range opts {
		fn(o)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	place := &model.Place{
		ID:          model.NewPlaceID(),
		Title:       o.Title,
		Description: o.Description,
		Address:     o.Address,
		Location:    o.Location,
		Image:       o.Image,
		Creator:     creator.ID,
		CreatedOn:   now,
		UpdatedOn:   now,
	}
	if err := f.coordinator.CreatePlace(withTimeout(t), place); err != nil {
		t.Fatalf("fixtures: failed to create place: %v", err)
	}
	creator.Places = append(creator.Places, place.ID)
	return place
}
