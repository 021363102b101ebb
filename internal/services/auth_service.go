package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"spendlog/internal/auth"
	"spendlog/internal/core"
	"spendlog/internal/storage"
)

// AuthService handles account registration and login.
type AuthService struct {
	users      UserStore
	tokens     *auth.TokenManager
	bcryptCost int
}

func NewAuthService(users UserStore, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates an account. It does not log the user in; the caller
// authenticates separately via Login.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (core.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateRegistration(username, email, password); err != nil {
		return core.User{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, email, hash)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return core.User{}, ErrDuplicateUser
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID, "username", user.Username)

	return user, nil
}

func validateRegistration(username, email, password string) error {
	var problems []string

	if username == "" {
		problems = append(problems, "username is required")
	}
	if email == "" {
		problems = append(problems, "email is required")
	} else if !strings.Contains(email, "@") {
		problems = append(problems, "email is not valid")
	}
	if password == "" {
		problems = append(problems, "password is required")
	} else if len(password) < 8 {
		problems = append(problems, "password must be at least 8 characters")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// Login verifies the credentials and issues a signed token. Unknown email
// and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, core.User, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", time.Time{}, core.User{}, ErrInvalidCredentials
		}
		return "", time.Time{}, core.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, core.User{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return "", time.Time{}, core.User{}, fmt.Errorf("generate token: %w", err)
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID)

	return token, expiresAt, user, nil
}

// ValidateToken checks the token signature and expiry and returns its claims.
func (s *AuthService) ValidateToken(tokenStr string) (*auth.Claims, error) {
	return s.tokens.Validate(tokenStr)
}
