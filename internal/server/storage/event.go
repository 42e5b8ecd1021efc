package storage

import (
	"context"

	"github.com/iudanet/eventz/internal/models"
)

// EventStorage defines interface for event persistence
type EventStorage interface {
	// CreateEvent inserts the event and fills server-side fields
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves event by ID
	// Returns ErrEventNotFound if event doesn't exist
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// ListEventsByUser returns events of the user ordered by start date
	ListEventsByUser(ctx context.Context, userID string) ([]*models.Event, error)

	// UpdateEvent updates mutable fields, owner is never changed
	// Returns ErrEventNotFound if event doesn't exist
	UpdateEvent(ctx context.Context, event *models.Event) (*models.Event, error)

	// DeleteEvent deletes event with its guests and returns the deleted row
	// Returns ErrEventNotFound if event doesn't exist
	DeleteEvent(ctx context.Context, eventID string) (*models.Event, error)
}
