package storage

import (
	"context"
	"time"

	"github.com/iudanet/eventz/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if email or username is taken
	CreateUser(ctx context.Context, user *models.User) error

	// UserExists reports whether a user with this email OR username exists
	UserExists(ctx context.Context, email, username string) (bool, error)

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// ConsumeVerificationToken marks the owner of a live token as verified and
	// clears the token in a single statement.
	// Returns ErrTokenNotFound if the token is unknown, expired or already used
	ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error)

	// SetVerificationToken replaces the token of an unverified user
	// Returns ErrUserNotFound if there is no unverified user with this ID
	SetVerificationToken(ctx context.Context, userID, token string, expiresAt time.Time) error
}
