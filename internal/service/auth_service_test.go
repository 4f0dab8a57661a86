package service

import (
	"context"
	"errors"
	"testing"

	"campgrounds/internal/domain"
	"campgrounds/internal/testutil"
)

func TestAuthService_Register_Success(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	authService := NewAuthService(userRepo)

	ctx := context.Background()
	user, err := authService.Register(ctx, "alice", "alice@example.com", "password123")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if user == nil {
		t.Fatal("Expected non-nil user")
	}

	if user.Username != "alice" {
		t.Errorf("Expected username 'alice', got %s", user.Username)
	}

	if user.Email != "alice@example.com" {
		t.Errorf("Expected email 'alice@example.com', got %s", user.Email)
	}

	if user.ID == "" {
		t.Error("Expected user ID to be set")
	}

	if user.PasswordHash == "" {
		t.Error("Expected password hash to be set")
	}

	if user.PasswordHash == "password123" {
		t.Error("Password should be hashed, not stored in plain text")
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userRepo.Users["user1"] = &domain.User{
		ID:       "user1",
		Username: "alice",
		Email:    "alice@example.com",
	}
	authService := NewAuthService(userRepo)

	ctx := context.Background()
	user, err := authService.Register(ctx, "alice", "newalice@example.com", "password123")

	if user != nil {
		t.Errorf("Expected nil user, got: %+v", user)
	}

	if !errors.Is(err, domain.ErrUsernameExists) {
		t.Errorf("Expected ErrUsernameExists, got: %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userRepo.Users["user1"] = &domain.User{
		ID:       "user1",
		Username: "alice",
		Email:    "alice@example.com",
	}
	authService := NewAuthService(userRepo)

	ctx := context.Background()
	user, err := authService.Register(ctx, "bob", "alice@example.com", "password123")

	if user != nil {
		t.Errorf("Expected nil user, got: %+v", user)
	}

	if !errors.Is(err, domain.ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got: %v", err)
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{
			name:     "empty username",
			username: "",
			email:    "alice@example.com",
			password: "password123",
		},
		{
			name:     "empty email",
			username: "alice",
			email:    "",
			password: "password123",
		},
		{
			name:     "empty password",
			username: "alice",
			email:    "alice@example.com",
			password: "",
		},
		{
			name:     "short username",
			username: "ab",
			email:    "alice@example.com",
			password: "password123",
		},
		{
			name:     "short password",
			username: "alice",
			email:    "alice@example.com",
			password: "1234567",
		},
		{
			name:     "invalid email format",
			username: "alice",
			email:    "not-an-email",
			password: "password123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := NewAuthService(testutil.NewMockUserRepository())

			ctx := context.Background()
			user, err := authService.Register(ctx, tt.username, tt.email, tt.password)

			if user != nil {
				t.Errorf("Expected nil user, got: %+v", user)
			}

			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got: %v", err)
			}
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	authService := NewAuthService(userRepo)

	ctx := context.Background()
	registered, err := authService.Register(ctx, "alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Failed to register user: %v", err)
	}

	user, err := authService.Login(ctx, "alice", "password123")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if user == nil {
		t.Fatal("Expected non-nil user")
	}

	if user.ID != registered.ID {
		t.Errorf("Expected user %s, got %s", registered.ID, user.ID)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	authService := NewAuthService(userRepo)

	ctx := context.Background()
	_, err := authService.Register(ctx, "alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Failed to register user: %v", err)
	}

	user, err := authService.Login(ctx, "alice", "wrongpassword")

	if user != nil {
		t.Errorf("Expected nil user, got: %+v", user)
	}

	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	authService := NewAuthService(testutil.NewMockUserRepository())

	ctx := context.Background()
	user, err := authService.Login(ctx, "nonexistent", "password123")

	if user != nil {
		t.Errorf("Expected nil user, got: %+v", user)
	}

	// Unknown username is indistinguishable from a wrong password
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestAuthService_GetUserByID(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userRepo.Users["user1"] = &domain.User{
		ID:       "user1",
		Username: "alice",
		Email:    "alice@example.com",
	}
	authService := NewAuthService(userRepo)

	ctx := context.Background()
	user, err := authService.GetUserByID(ctx, "user1")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("Expected username 'alice', got %s", user.Username)
	}

	if _, err := authService.GetUserByID(ctx, "nonexistent"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

func TestAuthService_PasswordHashing(t *testing.T) {
	authService := NewAuthService(testutil.NewMockUserRepository())

	ctx := context.Background()

	// Register two users with the same password
	user1, _ := authService.Register(ctx, "alice", "alice@example.com", "samepassword")
	user2, _ := authService.Register(ctx, "bob", "bob@example.com", "samepassword")

	// Password hashes should be different (due to salt)
	if user1.PasswordHash == user2.PasswordHash {
		t.Error("Expected different password hashes for same password (salt should differ)")
	}

	// Both should be able to login with the same password
	_, err1 := authService.Login(ctx, "alice", "samepassword")
	_, err2 := authService.Login(ctx, "bob", "samepassword")

	if err1 != nil || err2 != nil {
		t.Error("Expected both users to login successfully with the same password")
	}
}

func TestAuthService_EmailValidation(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"valid email", "alice@example.com", true},
		{"valid with subdomain", "alice@mail.example.com", true},
		{"valid with plus", "alice+tag@example.com", true},
		{"no at sign", "aliceexample.com", false},
		{"no domain", "alice@", false},
		{"no local part", "@example.com", false},
		{"multiple at signs", "alice@@example.com", false},
		{"no TLD", "alice@example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := NewAuthService(testutil.NewMockUserRepository())

			ctx := context.Background()
			_, err := authService.Register(ctx, "alice", tt.email, "password123")

			if tt.valid && err != nil {
				t.Errorf("Expected valid email %s to be accepted, got error: %v", tt.email, err)
			}

			if !tt.valid && err == nil {
				t.Errorf("Expected invalid email %s to be rejected", tt.email)
			}
		})
	}
}

func TestAuthService_UsernameValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{"valid username", "alice", true},
		{"valid with numbers", "alice123", true},
		{"valid with underscore", "alice_bob", true},
		{"minimum length (3 chars)", "abc", true},
		{"too short (2 chars)", "ab", false},
		{"empty", "", false},
		{"with spaces", "alice bob", false},
		{"with special chars", "alice@bob", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := NewAuthService(testutil.NewMockUserRepository())

			ctx := context.Background()
			_, err := authService.Register(ctx, tt.username, "test@example.com", "password123")

			if tt.valid && err != nil {
				t.Errorf("Expected valid username %q to be accepted, got error: %v", tt.username, err)
			}

			if !tt.valid && err == nil {
				t.Errorf("Expected invalid username %q to be rejected", tt.username)
			}
		})
	}
}

// Benchmark tests
func BenchmarkRegister(b *testing.B) {
	authService := NewAuthService(testutil.NewMockUserRepository())
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		username := "user" + string(rune('a'+i%26))
		authService.Register(ctx, username, username+"@example.com", "password123")
	}
}

func BenchmarkLogin(b *testing.B) {
	authService := NewAuthService(testutil.NewMockUserRepository())
	ctx := context.Background()

	authService.Register(ctx, "alice", "alice@example.com", "password123")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		authService.Login(ctx, "alice", "password123")
	}
}
