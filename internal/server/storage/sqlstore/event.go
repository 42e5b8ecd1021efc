package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/eventz/internal/models"
	"github.com/iudanet/eventz/internal/server/storage"
)

const eventColumns = `id, user_id, title, description, location, start_date, end_date, status, created_at, updated_at`

// CreateEvent inserts a new event
func (s *Storage) CreateEvent(ctx context.Context, event *models.Event) error {
	query := s.rebind(`
		INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Status == "" {
		event.Status = models.EventStatusUpcoming
	}
	event.CreatedAt = now()
	event.UpdatedAt = event.CreatedAt
	event.StartDate = event.StartDate.UTC().Truncate(time.Microsecond)
	event.EndDate = event.EndDate.UTC().Truncate(time.Microsecond)

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.Title,
		event.Description,
		event.Location,
		event.StartDate,
		event.EndDate,
		string(event.Status),
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// GetEvent retrieves event by ID
func (s *Storage) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	query := s.rebind(`SELECT ` + eventColumns + ` FROM events WHERE id = ?`)

	event, err := scanEvent(s.db.QueryRowContext(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// ListEventsByUser returns events of the user ordered by start date
func (s *Storage) ListEventsByUser(ctx context.Context, userID string) ([]*models.Event, error) {
	query := s.rebind(`SELECT ` + eventColumns + ` FROM events WHERE user_id = ? ORDER BY start_date ASC`)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// UpdateEvent updates event fields except the owner
func (s *Storage) UpdateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	query := s.rebind(`
		UPDATE events
		SET title = ?, description = ?, location = ?, start_date = ?, end_date = ?, status = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := s.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.Location,
		event.StartDate.UTC(),
		event.EndDate.UTC(),
		string(event.Status),
		now(),
		event.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return nil, storage.ErrEventNotFound
	}

	return s.GetEvent(ctx, event.ID)
}

// DeleteEvent deletes event by ID, guests are removed by ON DELETE CASCADE
func (s *Storage) DeleteEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	query := s.rebind(`DELETE FROM events WHERE id = ?`)

	result, err := s.db.ExecContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return nil, storage.ErrEventNotFound
	}

	return event, nil
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	var status string

	err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartDate,
		&event.EndDate,
		&status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.Status = models.EventStatus(status)
	event.StartDate = event.StartDate.UTC()
	event.EndDate = event.EndDate.UTC()
	event.CreatedAt = event.CreatedAt.UTC()
	event.UpdatedAt = event.UpdatedAt.UTC()

	return event, nil
}
