package model

import "strings"

// SignupRequest carries the multipart signup form fields
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,bcryptmax"`
}

// Normalize trims whitespace and lowercases the email
func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
}

// LoginRequest is the JSON body of a login call
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Normalize lowercases the email
func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

// CreatePlaceRequest carries the multipart place form fields
type CreatePlaceRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,min=5,max=2000"`
	Address     string `json:"address" validate:"required,max=500"`
}

// Normalize trims surrounding whitespace
func (r *CreatePlaceRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Address = strings.TrimSpace(r.Address)
}

// UpdatePlaceRequest is the JSON body of a place update.
// Only title and description may change.
type UpdatePlaceRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,min=5,max=2000"`
}

// Normalize trims surrounding whitespace
func (r *UpdatePlaceRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// NormalizeEmail returns the canonical (trimmed, lowercase) form of an email
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
