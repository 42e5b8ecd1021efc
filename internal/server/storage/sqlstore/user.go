package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/eventz/internal/models"
	"github.com/iudanet/eventz/internal/server/storage"
)

const userColumns = `id, username, email, password_hash, email_verified,
	verification_token, verification_token_expires, created_at, updated_at`

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := s.rebind(`
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	ts := now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = ts
	}
	user.CreatedAt = user.CreatedAt.UTC().Truncate(time.Microsecond)
	user.UpdatedAt = user.CreatedAt

	var expires sql.NullTime
	if user.VerificationTokenExpires != nil {
		expires = sql.NullTime{Time: user.VerificationTokenExpires.UTC().Truncate(time.Microsecond), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.EmailVerified,
		nullString(user.VerificationToken),
		expires,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// UserExists reports whether email or username is taken
func (s *Storage) UserExists(ctx context.Context, email, username string) (bool, error) {
	query := s.rebind(`SELECT COUNT(*) FROM users WHERE email = ? OR username = ?`)

	var count int
	if err := s.db.QueryRowContext(ctx, query, email, username).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return count > 0, nil
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := s.rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)
	return s.getUser(ctx, query, email)
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := s.rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	return s.getUser(ctx, query, userID)
}

// ConsumeVerificationToken verifies the owner of a live token.
// Проверка срока, установка флага и очистка токена выполняются одним UPDATE,
// поэтому повторное использование токена невозможно.
func (s *Storage) ConsumeVerificationToken(ctx context.Context, token string, at time.Time) (*models.User, error) {
	query := s.rebind(`
		UPDATE users
		SET email_verified = TRUE,
			verification_token = NULL,
			verification_token_expires = NULL,
			updated_at = ?
		WHERE verification_token = ?
			AND verification_token_expires > ?
			AND email_verified = FALSE
		RETURNING id
	`)

	var userID string
	err := s.db.QueryRowContext(ctx, query, now(), token, at.UTC()).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to consume verification token: %w", err)
	}

	return s.GetUserByID(ctx, userID)
}

// SetVerificationToken replaces the verification token of an unverified user
func (s *Storage) SetVerificationToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	query := s.rebind(`
		UPDATE users
		SET verification_token = ?, verification_token_expires = ?, updated_at = ?
		WHERE id = ? AND email_verified = FALSE
	`)

	result, err := s.db.ExecContext(ctx, query, token, expiresAt.UTC(), now(), userID)
	if err != nil {
		return fmt.Errorf("failed to set verification token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func (s *Storage) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var (
		token   sql.NullString
		expires sql.NullTime
	)

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.EmailVerified,
		&token,
		&expires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.VerificationToken = token.String
	if expires.Valid {
		t := expires.Time.UTC()
		user.VerificationTokenExpires = &t
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()

	return user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
