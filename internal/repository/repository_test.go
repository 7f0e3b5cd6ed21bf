package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placeshare/api/internal/database"
	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/repository"
	"github.com/placeshare/api/internal/service"
	"github.com/placeshare/api/internal/testing/fixtures"
	"github.com/placeshare/api/internal/testing/helpers"
	"github.com/placeshare/api/internal/testing/testdb"
)

func newUser(t *testing.T, repo *repository.UserRepository, ctx context.Context, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, Hash: "hash", Image: "uploads/images/" + name + ".png"}
	require.NoError(t, repo.Create(ctx, user))
	return user
}

func newPlace(creator *model.User, title string) *model.Place {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.Place{
		ID:          model.NewPlaceID(),
		Title:       title,
		Description: "Famous skyscraper",
		Address:     "20 W 34th St",
		Location:    model.Location{Lat: 40.7484474, Lng: -73.9871516},
		Image:       "uploads/images/" + title + ".png",
		Creator:     creator.ID,
		CreatedOn:   now,
		UpdatedOn:   now,
	}
}

func TestUserRepository(t *testing.T) {
	tdb := testdb.New(t, repository.EnsureSchema)
	defer tdb.Close()
	ctx := tdb.Ctx()
	users := repository.NewUserRepository(tdb.DB)

	ann := newUser(t, users, ctx, "Ann", "ann@example.com")
	assert.Regexp(t, `^user:`, ann.ID)
	assert.Empty(t, ann.Places)

	got, err := users.GetByID(ctx, ann.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "hash", got.Hash)

	got, err = users.GetByEmail(ctx, " ANN@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ann.ID, got.ID)

	missing, err := users.GetByID(ctx, "user:nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = users.Create(ctx, &model.User{Name: "Other", Email: "ann@example.com", Hash: "x"})
	assert.ErrorIs(t, err, database.ErrDuplicate)

	newUser(t, users, ctx, "Bob", "bob@example.com")
	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPlaceUnitOfWork_CreateAndDelete(t *testing.T) {
	tdb := testdb.New(t, repository.EnsureSchema)
	defer tdb.Close()
	ctx := tdb.Ctx()
	users := repository.NewUserRepository(tdb.DB)
	places := repository.NewPlaceRepository(tdb.DB)
	coordinator := service.NewCoordinator(service.CoordinatorConfig{
		UnitOfWork: repository.NewPlaceUnitOfWork(tdb.DB),
	})

	ann := fixtures.New(tdb.DB).CreateUser(t)
	place := newPlace(ann, "Empire State Building")
	require.NoError(t, coordinator.CreatePlace(ctx, place))
	helpers.AssertRecordExists(t, tdb.DB, place.ID)

	stored, err := places.GetByID(ctx, place.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, ann.ID, stored.Creator)
	assert.InDelta(t, 40.7484474, stored.Location.Lat, 1e-9)

	owner, err := users.GetByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{place.ID}, owner.Places)
	assert.True(t, owner.OwnsPlace(place.ID))

	list, err := places.ListByCreator(ctx, ann.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	updated, err := places.UpdateDetails(ctx, place.ID, "ESB", "Still famous")
	require.NoError(t, err)
	assert.Equal(t, "ESB", updated.Title)
	assert.Equal(t, "20 W 34th St", updated.Address)

	require.NoError(t, coordinator.DeletePlace(ctx, stored))

	gone, err := places.GetByID(ctx, place.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	helpers.AssertRecordNotExists(t, tdb.DB, place.ID)

	owner, err = users.GetByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Empty(t, owner.Places)
	assert.False(t, owner.OwnsPlace(place.ID))
}

func TestPlaceUnitOfWork_RollbackLeavesNothing(t *testing.T) {
	tdb := testdb.New(t, repository.EnsureSchema)
	defer tdb.Close()
	ctx := tdb.Ctx()
	users := repository.NewUserRepository(tdb.DB)
	places := repository.NewPlaceRepository(tdb.DB)
	uow := repository.NewPlaceUnitOfWork(tdb.DB)

	ann := newUser(t, users, ctx, "Ann", "ann@example.com")
	place := newPlace(ann, "Somewhere")

	tx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertPlace(ctx, place))
	require.NoError(t, tx.AddUserPlace(ctx, ann.ID, place.ID))
	require.NoError(t, tx.Rollback())

	got, err := places.GetByID(ctx, place.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	owner, err := users.GetByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Empty(t, owner.Places)
}

func TestPlaceUnitOfWork_FailedStatementAbortsBatch(t *testing.T) {
	tdb := testdb.New(t, repository.EnsureSchema)
	defer tdb.Close()
	ctx := tdb.Ctx()
	users := repository.NewUserRepository(tdb.DB)
	places := repository.NewPlaceRepository(tdb.DB)
	uow := repository.NewPlaceUnitOfWork(tdb.DB)

	ann := newUser(t, users, ctx, "Ann", "ann@example.com")
	first := newPlace(ann, "First")

	tx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertPlace(ctx, first))
	require.NoError(t, tx.AddUserPlace(ctx, ann.ID, first.ID))
	require.NoError(t, tx.Commit(ctx))

	// Same record key again: the CREATE fails and the user update must not apply
	dup := newPlace(ann, "Duplicate")
	dup.ID = first.ID
	tx, err = uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertPlace(ctx, dup))
	require.NoError(t, tx.AddUserPlace(ctx, ann.ID, dup.ID))
	err = tx.Commit(ctx)
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.DeadlineExceeded))

	stored, err := places.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", stored.Title)
	owner, err := users.GetByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, owner.Places)
}

func TestPlaceRepository_ListByCreator(t *testing.T) {
	tdb := testdb.New(t, repository.EnsureSchema)
	defer tdb.Close()
	ctx := tdb.Ctx()
	f := fixtures.New(tdb.DB)
	places := repository.NewPlaceRepository(tdb.DB)

	ann := f.CreateUser(t, fixtures.WithEmail("ann@example.com"))
	bob := f.CreateUser(t)
	f.CreatePlace(t, ann, fixtures.WithTitle("First"))
	f.CreatePlace(t, ann, fixtures.WithTitle("Second"))
	f.CreatePlace(t, bob)

	list, err := places.ListByCreator(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, p := range list {
		assert.Equal(t, ann.ID, p.Creator)
	}

	// Bare keys resolve to the same user
	_, key := model.SplitID(model.TableUser, ann.ID)
	list, err = places.ListByCreator(ctx, key)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = places.ListByCreator(ctx, "user:nobody")
	assert.ErrorIs(t, err, database.ErrNotFound)
}
