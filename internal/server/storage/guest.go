package storage

import (
	"context"

	"github.com/iudanet/eventz/internal/models"
)

// GuestStorage defines interface for guest persistence
type GuestStorage interface {
	// CreateGuest inserts the guest
	// Returns ErrEventNotFound if parent event doesn't exist
	CreateGuest(ctx context.Context, guest *models.Guest) error

	// GetGuest retrieves guest by ID
	// Returns ErrGuestNotFound if guest doesn't exist
	GetGuest(ctx context.Context, guestID string) (*models.Guest, error)

	// ListGuestsByEvent returns guests of the event, newest first
	ListGuestsByEvent(ctx context.Context, eventID string) ([]*models.Guest, error)

	// UpdateGuest updates name, email and RSVP status
	// Returns ErrGuestNotFound if guest doesn't exist
	UpdateGuest(ctx context.Context, guest *models.Guest) (*models.Guest, error)

	// DeleteGuest deletes guest and returns the deleted row
	// Returns ErrGuestNotFound if guest doesn't exist
	DeleteGuest(ctx context.Context, guestID string) (*models.Guest, error)
}

// Pinger checks database availability
type Pinger interface {
	Ping(ctx context.Context) error
}
