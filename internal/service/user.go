package service

import (
	"context"

	"github.com/placeshare/api/internal/model"
)

// UserService exposes the user directory
type UserService struct {
	userRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns every user. Password hashes never leave the model.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, internalError(ErrDatabase, "USER_LIST_FAILED", err)
	}
	return users, nil
}
