package service_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/service"
	"github.com/placeshare/api/internal/testing/memstore"
	"github.com/placeshare/api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// stubGeocoder resolves every address to the same point unless err is set
type stubGeocoder struct {
	loc   model.Location
	err   error
	calls int
}

func (g *stubGeocoder) Geocode(ctx context.Context, address string) (model.Location, error) {
	g.calls++
	if g.err != nil {
		return model.Location{}, g.err
	}
	return g.loc, nil
}

// recordingImages records removed paths
type recordingImages struct {
	mu      sync.Mutex
	removed []string
	err     error
}

func (r *recordingImages) Remove(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, path)
	return r.err
}

func (r *recordingImages) Removed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.removed...)
}

// testEnv wires the services to one in-memory store
type testEnv struct {
	store       *memstore.Store
	geocoder    *stubGeocoder
	images      *recordingImages
	credentials *service.CredentialService
	auth        *service.AuthService
	users       *service.UserService
	places      *service.PlaceService
	logs        *bytes.Buffer // read only after places.Wait
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	store := memstore.New()
	geocoder := &stubGeocoder{loc: model.Location{Lat: 40.7484, Lng: -73.9857}}
	images := &recordingImages{}
	credentials := service.NewCredentialService(service.CredentialServiceConfig{
		JWTService: jwt.NewService(jwt.Config{Key: "test-key"}),
		BcryptCost: bcrypt.MinCost,
	})

	places := service.NewPlaceService(service.PlaceServiceConfig{
		PlaceRepo: store.Places(),
		UserRepo:  store.Users(),
		Geocoder:  geocoder,
		Coordinator: service.NewCoordinator(service.CoordinatorConfig{
			UnitOfWork: store.UnitOfWork(),
			Logger:     logger,
		}),
		Images: images,
		Logger: logger,
	})
	t.Cleanup(places.Wait)

	return &testEnv{
		store:       store,
		geocoder:    geocoder,
		images:      images,
		credentials: credentials,
		auth: service.NewAuthService(service.AuthServiceConfig{
			UserRepo:    store.Users(),
			Credentials: credentials,
			Logger:      logger,
		}),
		users:  service.NewUserService(store.Users()),
		places: places,
		logs:   logs,
	}
}

func (e *testEnv) signup(t *testing.T, name, email string) *model.User {
	t.Helper()
	res, err := e.auth.Signup(context.Background(), service.SignupRequest{
		Name:     name,
		Email:    email,
		Password: "secret1",
		Image:    "uploads/images/" + name + ".png",
	})
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return res.User
}

func (e *testEnv) createPlace(t *testing.T, creator *model.User, title string) *model.Place {
	t.Helper()
	place, err := e.places.CreatePlace(context.Background(), service.CreatePlaceRequest{
		Title:       title,
		Description: "A nice spot",
		Address:     "1 Main St",
		Image:       "uploads/images/" + title + ".jpg",
		CreatorID:   creator.ID,
	})
	if err != nil {
		t.Fatalf("create place %s: %v", title, err)
	}
	return place
}
