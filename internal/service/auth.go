package service

import (
	"context"
	"errors"
	"time"

	"github.com/blinkclip/blinkclip-go/internal/crypto"
	"github.com/blinkclip/blinkclip-go/internal/model"
	"github.com/blinkclip/blinkclip-go/internal/repository"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUserExists       = errors.New("user already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid password")
)

// AuthService handles signup, login, and identity lookups. Token lifetime is
// supplied by the caller because each entry point mints with its own policy.
type AuthService struct {
	users  *repository.UserRepository
	tokens *crypto.TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *repository.UserRepository, tokens *crypto.TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup creates a new account and mints a token valid for ttl.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest, ttl time.Duration) (string, error) {
	if req.Email == "" {
		return "", ErrEmailRequired
	}
	if req.Password == "" {
		return "", ErrPasswordRequired
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return "", err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", ErrUserExists
		}
		return "", err
	}

	return s.tokens.Issue(user.ID, ttl)
}

// Login verifies credentials and mints a token valid for ttl. A missing
// account and a wrong password fail differently; the original surface
// reported them as distinct errors and that is preserved.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, ttl time.Duration) (string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !match {
		return "", ErrInvalidPassword
	}

	return s.tokens.Issue(user.ID, ttl)
}

// GetUser returns the client-safe view of an account.
func (s *AuthService) GetUser(ctx context.Context, userID string) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return model.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}
