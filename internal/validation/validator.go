// Package validation checks request structs with go-playground/validator and
// turns failures into field errors for problem responses.
//
//	req.Normalize()
//	if errs := validation.Validate(&req); errs != nil {
//	    writeProblem(w, model.NewValidationError(errs))
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/placeshare/api/internal/model"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance.
// Field names in errors are taken from json tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("bcryptmax", bcryptMax)
	})
	return validate
}

// bcryptMax limits a string to bcrypt's input size, counted in bytes
func bcryptMax(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= model.MaxPasswordLength
}

// Validate returns one FieldError per failed rule, or nil when s is valid
func Validate(s any) []model.FieldError {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []model.FieldError{{Field: "unknown", Message: err.Error()}}
	}

	out := make([]model.FieldError, len(verrs))
	for i, fe := range verrs {
		out[i] = model.FieldError{Field: fe.Field(), Message: message(fe)}
	}
	return out
}

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "bcryptmax":
		return fmt.Sprintf("%s must be at most %d bytes", field, model.MaxPasswordLength)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
