package service

import (
	"context"
	"regexp"

	"campgrounds/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// AuthService manages accounts and credential checks. Session lifecycle
// lives in SessionService; login here only proves the identity.
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register validates and creates a new account.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if len(username) < 3 || len(username) > 50 {
		return nil, domain.Invalid("username", "must be between 3 and 50 characters")
	}
	if !usernameRegex.MatchString(username) {
		return nil, domain.Invalid("username", "may only contain letters, digits and underscores")
	}
	if !emailRegex.MatchString(email) || len(email) > 255 {
		return nil, domain.Invalid("email", "must be a valid email address")
	}
	if len(password) < 8 || len(password) > 100 {
		return nil, domain.Invalid("password", "must be between 8 and 100 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash), []byte(password),
	); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID loads an account by id.
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
