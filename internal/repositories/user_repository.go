package repositories

import (
	"context"
	"time"

	"vetopay/internal/models"
)

// ProfileUpdate lists the profile fields to change. Nil leaves a field as is.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByEmail retrieves a user by email, case-insensitively
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error

	// IncrementTokenVersion invalidates every token issued so far
	IncrementTokenVersion(ctx context.Context, id uint) error

	UpdateStatus(ctx context.Context, id uint, status models.UserStatus) error

	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) error

	// UpdatePassword stores a new hash and bumps the token version
	UpdatePassword(ctx context.Context, id uint, hash string) error

	// List retrieves users with pagination
	List(ctx context.Context, filter UserFilter, page Page) ([]models.User, int64, error)
}
