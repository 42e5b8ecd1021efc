package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/eventz/internal/models"
	"github.com/iudanet/eventz/internal/server/storage"
)

const guestColumns = `id, event_id, name, email, rsvp_status, created_at`

// CreateGuest inserts a new guest
func (s *Storage) CreateGuest(ctx context.Context, guest *models.Guest) error {
	query := s.rebind(`
		INSERT INTO guests (` + guestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`)

	if guest.ID == "" {
		guest.ID = uuid.New().String()
	}
	if guest.RSVPStatus == "" {
		guest.RSVPStatus = models.RSVPPending
	}
	guest.CreatedAt = now()

	_, err := s.db.ExecContext(ctx, query,
		guest.ID,
		guest.EventID,
		guest.Name,
		nullString(guest.Email),
		string(guest.RSVPStatus),
		guest.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrEventNotFound
		}
		return fmt.Errorf("failed to insert guest: %w", err)
	}

	return nil
}

// GetGuest retrieves guest by ID
func (s *Storage) GetGuest(ctx context.Context, guestID string) (*models.Guest, error) {
	query := s.rebind(`SELECT ` + guestColumns + ` FROM guests WHERE id = ?`)

	guest, err := scanGuest(s.db.QueryRowContext(ctx, query, guestID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}

	return guest, nil
}

// ListGuestsByEvent returns guests of the event, newest first
func (s *Storage) ListGuestsByEvent(ctx context.Context, eventID string) ([]*models.Guest, error) {
	query := s.rebind(`SELECT ` + guestColumns + ` FROM guests WHERE event_id = ? ORDER BY created_at DESC, id DESC`)

	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	defer rows.Close()

	guests := make([]*models.Guest, 0)
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, guest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guests: %w", err)
	}

	return guests, nil
}

// UpdateGuest updates name, email and RSVP status
func (s *Storage) UpdateGuest(ctx context.Context, guest *models.Guest) (*models.Guest, error) {
	query := s.rebind(`UPDATE guests SET name = ?, email = ?, rsvp_status = ? WHERE id = ?`)

	result, err := s.db.ExecContext(ctx, query,
		guest.Name,
		nullString(guest.Email),
		string(guest.RSVPStatus),
		guest.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update guest: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return nil, storage.ErrGuestNotFound
	}

	return s.GetGuest(ctx, guest.ID)
}

// DeleteGuest deletes guest by ID
func (s *Storage) DeleteGuest(ctx context.Context, guestID string) (*models.Guest, error) {
	guest, err := s.GetGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}

	query := s.rebind(`DELETE FROM guests WHERE id = ?`)

	result, err := s.db.ExecContext(ctx, query, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete guest: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return nil, storage.ErrGuestNotFound
	}

	return guest, nil
}

func scanGuest(row rowScanner) (*models.Guest, error) {
	guest := &models.Guest{}
	var (
		email  sql.NullString
		status string
	)

	err := row.Scan(
		&guest.ID,
		&guest.EventID,
		&guest.Name,
		&email,
		&status,
		&guest.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	guest.Email = email.String
	guest.RSVPStatus = models.RSVPStatus(status)
	guest.CreatedAt = guest.CreatedAt.UTC()

	return guest, nil
}
