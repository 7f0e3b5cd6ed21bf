package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placeshare/api/internal/model"
)

func TestValidate_Signup(t *testing.T) {
	tests := []struct {
		name  string
		req   model.SignupRequest
		field string
		msg   string
	}{
		{"missing name", model.SignupRequest{Email: "a@x.com", Password: "secret1"}, "name", "name is required"},
		{"bad email", model.SignupRequest{Name: "Ann", Email: "not-an-email", Password: "secret1"}, "email", "email must be a valid email address"},
		{"short password", model.SignupRequest{Name: "Ann", Email: "a@x.com", Password: "12345"}, "password", "password must be at least 6 characters"},
		{"password over 72 bytes", model.SignupRequest{Name: "Ann", Email: "a@x.com", Password: strings.Repeat("é", 40)}, "password", "password must be at most 72 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.req)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.msg, errs[0].Message)
		})
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.Nil(t, Validate(&model.SignupRequest{Name: "Ann", Email: "a@x.com", Password: "secret1"}))
	assert.Nil(t, Validate(&model.CreatePlaceRequest{Title: "Cafe", Description: "Corner cafe", Address: "1 Main St"}))
	assert.Nil(t, Validate(&model.UpdatePlaceRequest{Title: "Cafe", Description: "12345"}))
}

func TestValidate_PlaceCollectsEveryFailure(t *testing.T) {
	errs := Validate(&model.CreatePlaceRequest{Description: "abc"})

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"title", "description", "address"}, fields)
}

func TestValidate_UpdateDescriptionMinimum(t *testing.T) {
	errs := Validate(&model.UpdatePlaceRequest{Title: "Cafe", Description: "1234"})
	require.Len(t, errs, 1)
	assert.Equal(t, "description must be at least 5 characters", errs[0].Message)
}

func TestValidate_PasswordLimitCountsBytes(t *testing.T) {
	// 36 two-byte runes fill the limit exactly
	assert.Nil(t, Validate(&model.SignupRequest{Name: "Ann", Email: "a@x.com", Password: strings.Repeat("é", 36)}))
	assert.Nil(t, Validate(&model.SignupRequest{Name: "Ann", Email: "a@x.com", Password: strings.Repeat("a", 72)}))

	errs := Validate(&model.SignupRequest{Name: "Ann", Email: "a@x.com", Password: strings.Repeat("a", 73)})
	require.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].Field)
}
