package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"

	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/service"
)

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   model.ErrorCode
	}{
		{"invalid input", service.ErrInvalidInput, http.StatusUnprocessableEntity, model.ErrCodeValidation},
		{"address not found", service.ErrAddressNotFound, http.StatusUnprocessableEntity, model.ErrCodeAddressNotFound},
		{"email exists", service.ErrEmailAlreadyExists, http.StatusUnprocessableEntity, model.ErrCodeAlreadyExists},
		{"unknown email", service.ErrUnknownEmail, http.StatusForbidden, model.ErrCodeUnknownEmail},
		{"wrong password", service.ErrInvalidCredentials, http.StatusUnauthorized, model.ErrCodeLoginFailed},
		{"not creator", service.ErrNotPlaceCreator, http.StatusUnauthorized, model.ErrCodeNotCreator},
		{"place missing", service.ErrPlaceNotFound, http.StatusNotFound, model.ErrCodeNotFound},
		{"user missing", service.ErrUserNotFound, http.StatusNotFound, model.ErrCodeNotFound},
		{"no places", service.ErrNoPlacesForUser, http.StatusNotFound, model.ErrCodeNotFound},
		{"creation failed", service.ErrCreationFailed, http.StatusInternalServerError, model.ErrCodeInternal},
		{"geocoding", service.ErrGeocoding, http.StatusInternalServerError, model.ErrCodeInternal},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, model.ErrCodeInternal},
		{"wrapped", fmt.Errorf("ctx: %w", service.ErrPlaceNotFound), http.StatusNotFound, model.ErrCodeNotFound},
		{"oops wrapped", oops.Code("tx").Wrap(fmt.Errorf("%w: %w", service.ErrDeletionFailed, errors.New("db down"))), http.StatusInternalServerError, model.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MapServiceError(tt.err)
			assert.Equal(t, tt.status, p.Status)
			assert.Equal(t, tt.code, p.Code)
		})
	}
}

func TestMapServiceError_HidesInternalDetail(t *testing.T) {
	p := MapServiceError(fmt.Errorf("%w: %w", service.ErrDeletionFailed, errors.New("surreal: connection refused at 10.0.0.7")))

	assert.NotContains(t, p.Detail, "10.0.0.7")
	assert.Equal(t, "Something went wrong, could not delete place.", p.Detail)
}

func TestMapServiceError_CredentialFailuresNameTheOperation(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		detail string
	}{
		{"signup hashing", fmt.Errorf("%w: %w", service.ErrSignupFailed, service.ErrHashing), "Signing up failed, please try again later."},
		{"signup token", fmt.Errorf("%w: %w", service.ErrSignupFailed, service.ErrToken), "Signing up failed, please try again later."},
		{"login hashing", fmt.Errorf("%w: %w", service.ErrLoginFailed, service.ErrHashing), "Logging in failed, please try again later."},
		{"login token", fmt.Errorf("%w: %w", service.ErrLoginFailed, service.ErrToken), "Logging in failed, please try again later."},
		{"bare token", service.ErrToken, "Authentication failed, please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MapServiceError(tt.err)
			assert.Equal(t, http.StatusInternalServerError, p.Status)
			assert.Equal(t, tt.detail, p.Detail)
		})
	}
}

func TestMapServiceError_Nil(t *testing.T) {
	assert.Nil(t, MapServiceError(nil))
}
