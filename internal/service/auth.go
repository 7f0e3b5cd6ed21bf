package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/placeshare/api/internal/database"
	"github.com/placeshare/api/internal/model"
)

// UserRepository defines the interface for user storage.
// Lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
}

// AuthService handles signup and login
type AuthService struct {
	userRepo    UserRepository
	credentials *CredentialService
	logger      *slog.Logger
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo    UserRepository
	Credentials *CredentialService
	Logger      *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		userRepo:    cfg.UserRepo,
		credentials: cfg.Credentials,
		logger:      logger,
	}
}

// SignupRequest represents a validated signup
type SignupRequest struct {
	Name     string
	Email    string
	Password string
	Image    string
}

// AuthResult is returned by a successful signup or login
type AuthResult struct {
	User  *model.User
	Token string
}

// Signup creates a new account and returns a session token
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	email := model.NormalizeEmail(req.Email)
	if req.Name == "" || email == "" || len(req.Password) < model.MinPasswordLength {
		return nil, ErrInvalidInput
	}
	// bcrypt rejects more than 72 bytes, whatever the rune count
	if len(req.Password) > model.MaxPasswordLength {
		return nil, ErrInvalidInput
	}

	// Pre-check for a friendly error; the unique index is what actually guards it
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, internalError(ErrDatabase, "SIGNUP_LOOKUP_FAILED", err, "email", email)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := s.credentials.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignupFailed, err)
	}

	user := &model.User{
		Name:   req.Name,
		Email:  email,
		Hash:   hash,
		Image:  req.Image,
		Places: []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, internalError(ErrDatabase, "SIGNUP_CREATE_FAILED", err, "email", email)
	}

	token, err := s.credentials.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignupFailed, err)
	}

	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Login checks credentials and returns a session token.
// An unknown email is ErrUnknownEmail; a wrong password is ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = model.NormalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, internalError(ErrDatabase, "LOGIN_LOOKUP_FAILED", err, "email", email)
	}
	if user == nil {
		return nil, ErrUnknownEmail
	}

	ok, err := s.credentials.VerifyPassword(password, user.Hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.credentials.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}
