package account

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resumeforge/internal/auth"
	"resumeforge/internal/database"
)

var (
	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials is returned when the username is unknown or the
	// password does not verify. Callers must not distinguish the two cases.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Service handles registration and credential verification.
type Service struct {
	db *gorm.DB
}

// NewService constructs an account service over the given store.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Register hashes the password and persists a new account. The plaintext
// password is never stored or logged.
func (s *Service) Register(ctx context.Context, username, password string) error {
	var existing database.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		return ErrDuplicateUsername
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("lookup username: %w", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := database.User{
		Username:     username,
		PasswordHash: hashed,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Concurrent registrations race past the pre-check; the unique
		// index is the backstop.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// Authenticate verifies the credentials and returns the matching account.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// FindByUsername resolves a username to its account.
func (s *Service) FindByUsername(ctx context.Context, username string) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
