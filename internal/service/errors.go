package service

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Centralized service layer errors.
// All errors returned by service methods wrap one of these, so handlers can
// classify them with errors.Is.

// ===== Input Errors =====
var (
	ErrInvalidInput    = errors.New("invalid inputs passed, please check your data")
	ErrAddressNotFound = errors.New("could not find location for the specified address")
)

// ===== Authentication Errors =====
var (
	ErrEmailAlreadyExists = errors.New("user exists already, please login instead")
	ErrUnknownEmail       = errors.New("could not identify user, credentials seem to be wrong")
	ErrInvalidCredentials = errors.New("invalid credentials, could not log you in")
	ErrInvalidToken       = errors.New("authentication failed")
)

// ===== Lookup Errors =====
var (
	ErrUserNotFound    = errors.New("could not find user for the provided id")
	ErrPlaceNotFound   = errors.New("could not find a place for the provided id")
	ErrNoPlacesForUser = errors.New("could not find places for the provided user id")
)

// ===== Authorization Errors =====
var (
	ErrNotPlaceCreator = errors.New("you are not allowed to change this place")
)

// ===== Internal Errors =====
var (
	ErrHashing        = errors.New("password hashing failed")
	ErrToken          = errors.New("token signing failed")
	ErrSignupFailed   = errors.New("signing up failed")
	ErrLoginFailed    = errors.New("logging in failed")
	ErrGeocoding      = errors.New("geocoding failed")
	ErrCreationFailed = errors.New("creating place failed, please try again")
	ErrDeletionFailed = errors.New("something went wrong, could not delete place")
	ErrUpdateFailed   = errors.New("something went wrong, could not update place")
	ErrStorage        = errors.New("image storage failed")
	ErrDatabase       = errors.New("database operation failed")
)

// internalError wraps cause under sentinel and attaches an oops code and
// attributes for server-side logging. errors.Is matches both sentinel and cause.
func internalError(sentinel error, code string, cause error, attrs ...any) error {
	if cause == nil {
		return oops.Code(code).With(attrs...).Wrap(sentinel)
	}
	return oops.Code(code).With(attrs...).Wrap(fmt.Errorf("%w: %w", sentinel, cause))
}
