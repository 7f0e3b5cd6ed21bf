package service

import (
	"errors"

	"github.com/placeshare/api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost factor
const bcryptCost = 12

// CredentialService hashes passwords and issues session tokens
type CredentialService struct {
	tokens *jwt.Service
	cost   int
}

// CredentialServiceConfig holds configuration for the credential service
type CredentialServiceConfig struct {
	JWTService *jwt.Service
	// BcryptCost overrides the default cost. Tests lower it to bcrypt.MinCost.
	BcryptCost int
}

// NewCredentialService creates a new credential service
func NewCredentialService(cfg CredentialServiceConfig) *CredentialService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcryptCost
	}
	return &CredentialService{
		tokens: cfg.JWTService,
		cost:   cost,
	}
}

// HashPassword returns a bcrypt hash of plaintext
func (s *CredentialService) HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", internalError(ErrHashing, "PASSWORD_HASH_FAILED", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches hash.
// A mismatch is (false, nil); a malformed hash is ErrHashing.
func (s *CredentialService) VerifyPassword(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, internalError(ErrHashing, "PASSWORD_VERIFY_FAILED", err)
	}
}

// IssueToken signs a one hour session token for the user
func (s *CredentialService) IssueToken(userID, email string) (string, error) {
	if s.tokens == nil {
		return "", internalError(ErrToken, "TOKEN_SIGN_FAILED", jwt.ErrInvalidKey)
	}
	token, err := s.tokens.Issue(userID, email)
	if err != nil {
		return "", internalError(ErrToken, "TOKEN_SIGN_FAILED", err, "user_id", userID)
	}
	return token, nil
}

// ValidateAccessToken verifies a session token and returns its claims.
// Errors wrap both ErrInvalidToken and the jwt package error.
func (s *CredentialService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	if s.tokens == nil {
		return nil, errors.Join(ErrInvalidToken, jwt.ErrInvalidKey)
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return claims, nil
}
