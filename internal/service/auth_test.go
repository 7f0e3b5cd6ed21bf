package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placeshare/api/internal/database"
	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/service"
	"github.com/placeshare/api/internal/testing/memstore"
)

func TestSignup_StoresHashAndIssuesToken(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.auth.Signup(context.Background(), service.SignupRequest{
		Name:     "Ann",
		Email:    "A@X.com",
		Password: "secret1",
		Image:    "uploads/images/ann.png",
	})
	require.NoError(t, err)

	stored := env.store.User(res.User.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "a@x.com", stored.Email)
	assert.NotEqual(t, "secret1", stored.Hash)
	assert.NotEmpty(t, stored.Hash)
	assert.Empty(t, stored.Places)

	claims, err := env.credentials.ValidateAccessToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestSignup_DuplicateEmail_ReturnsConflict(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Ann", "a@x.com")

	_, err := env.auth.Signup(context.Background(), service.SignupRequest{
		Name:     "Another Ann",
		Email:    "a@x.com",
		Password: "secret2",
	})
	assert.ErrorIs(t, err, service.ErrEmailAlreadyExists)

	users, _ := env.users.ListUsers(context.Background())
	assert.Len(t, users, 1)
}

func TestSignup_StorageLevelDuplicate_ReturnsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Simulates a concurrent signup that passed the pre-check
	env.store.FailNext(memstore.OpCreateUser, errDuplicate())

	_, err := env.auth.Signup(ctx, service.SignupRequest{Name: "Ann", Email: "a@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, service.ErrEmailAlreadyExists)
}

func TestSignup_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []service.SignupRequest{
		{Name: "", Email: "a@x.com", Password: "secret1"},
		{Name: "Ann", Email: "", Password: "secret1"},
		{Name: "Ann", Email: "a@x.com", Password: "short"},
	}
	for _, req := range tests {
		_, err := env.auth.Signup(context.Background(), req)
		assert.ErrorIs(t, err, service.ErrInvalidInput, "request %+v", req)
	}
}

func TestSignup_MultibytePasswordOverLimit(t *testing.T) {
	env := newTestEnv(t)

	// 40 runes but 80 bytes
	_, err := env.auth.Signup(context.Background(), service.SignupRequest{
		Name:     "Ann",
		Email:    "a@x.com",
		Password: strings.Repeat("é", 40),
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.NotErrorIs(t, err, service.ErrHashing)

	users, _ := env.users.ListUsers(context.Background())
	assert.Empty(t, users)

	res, err := env.auth.Signup(context.Background(), service.SignupRequest{
		Name:     "Ann",
		Email:    "a@x.com",
		Password: strings.Repeat("é", 36),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.User.Hash)
}

func TestSignup_CreateFailure_IsInternal(t *testing.T) {
	env := newTestEnv(t)
	env.store.FailNext(memstore.OpCreateUser, nil)

	_, err := env.auth.Signup(context.Background(), service.SignupRequest{Name: "Ann", Email: "a@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, service.ErrDatabase)
	assert.ErrorIs(t, err, memstore.ErrInjected)
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	ann := env.signup(t, "Ann", "a@x.com")

	res, err := env.auth.Login(context.Background(), "A@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)
}

func TestLogin_UnknownEmail_ReturnsErrUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Login(context.Background(), "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, service.ErrUnknownEmail)
}

func TestLogin_WrongPassword_DoesNotMutate(t *testing.T) {
	env := newTestEnv(t)
	ann := env.signup(t, "Ann", "a@x.com")
	before := env.store.User(ann.ID)

	_, err := env.auth.Login(context.Background(), "a@x.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	assert.Equal(t, before, env.store.User(ann.ID))
}

func TestLogin_CorruptHash_IsLoginFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.PutUser(&model.User{ID: "user:ann", Name: "Ann", Email: "a@x.com", Hash: "not-a-bcrypt-hash"})

	_, err := env.auth.Login(context.Background(), "a@x.com", "secret1")
	assert.ErrorIs(t, err, service.ErrLoginFailed)
	assert.ErrorIs(t, err, service.ErrHashing)
	assert.NotErrorIs(t, err, service.ErrSignupFailed)
}

func TestListUsers_Ordered(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Ann", "a@x.com")
	env.signup(t, "Bob", "b@x.com")

	users, err := env.users.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ann", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
}

func errDuplicate() error {
	return fmt.Errorf("%w: index user_email_unique already contains 'a@x.com'", database.ErrDuplicate)
}
