package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/eventz/internal/models"
	"github.com/iudanet/eventz/internal/server/mail"
	"github.com/iudanet/eventz/internal/server/storage"
)

// mockEventStorage is an in-memory implementation of storage.EventStorage for testing
type mockEventStorage struct {
	events map[string]*models.Event
	getErr error
	seq    int
	mu     sync.Mutex
}

func newMockEventStorage() *mockEventStorage {
	return &mockEventStorage{events: make(map[string]*models.Event)}
}

func (m *mockEventStorage) CreateEvent(_ context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	event.ID = fmt.Sprintf("event-%d", m.seq)
	if event.Status == "" {
		event.Status = models.EventStatusUpcoming
	}
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	cp := *event
	m.events[event.ID] = &cp
	return nil
}

func (m *mockEventStorage) GetEvent(_ context.Context, eventID string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	e, ok := m.events[eventID]
	if !ok {
		return nil, storage.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockEventStorage) ListEventsByUser(_ context.Context, userID string) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Event
	for _, e := range m.events {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *mockEventStorage) UpdateEvent(_ context.Context, event *models.Event) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.events[event.ID]
	if !ok {
		return nil, storage.ErrEventNotFound
	}
	cp := *event
	cp.UserID = cur.UserID
	cp.UpdatedAt = time.Now().UTC()
	m.events[event.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockEventStorage) DeleteEvent(_ context.Context, eventID string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[eventID]
	if !ok {
		return nil, storage.ErrEventNotFound
	}
	delete(m.events, eventID)
	return e, nil
}

// mockGuestStorage is an in-memory implementation of storage.GuestStorage for testing
type mockGuestStorage struct {
	guests map[string]*models.Guest
	seq    int
	mu     sync.Mutex
}

func newMockGuestStorage() *mockGuestStorage {
	return &mockGuestStorage{guests: make(map[string]*models.Guest)}
}

func (m *mockGuestStorage) CreateGuest(_ context.Context, guest *models.Guest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	guest.ID = fmt.Sprintf("guest-%d", m.seq)
	if guest.RSVPStatus == "" {
		guest.RSVPStatus = models.RSVPPending
	}
	guest.CreatedAt = time.Now().UTC()
	cp := *guest
	m.guests[guest.ID] = &cp
	return nil
}

func (m *mockGuestStorage) GetGuest(_ context.Context, guestID string) (*models.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.guests[guestID]
	if !ok {
		return nil, storage.ErrGuestNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *mockGuestStorage) ListGuestsByEvent(_ context.Context, eventID string) ([]*models.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Guest
	for _, g := range m.guests {
		if g.EventID == eventID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockGuestStorage) UpdateGuest(_ context.Context, guest *models.Guest) (*models.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.guests[guest.ID]; !ok {
		return nil, storage.ErrGuestNotFound
	}
	cp := *guest
	m.guests[guest.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockGuestStorage) DeleteGuest(_ context.Context, guestID string) (*models.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.guests[guestID]
	if !ok {
		return nil, storage.ErrGuestNotFound
	}
	delete(m.guests, guestID)
	return g, nil
}

// mockMailer records sent invitations
type mockMailer struct {
	err         error
	invitations []string
	mu          sync.Mutex
}

func (m *mockMailer) SendVerification(context.Context, string, string, string) error {
	return m.err
}

func (m *mockMailer) SendGuestInvitation(_ context.Context, to string, _ mail.Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitations = append(m.invitations, to)
	return m.err
}

type mockDomains struct {
	bad string
}

func (m mockDomains) Check(_ context.Context, email string) error {
	if m.bad != "" && strings.HasSuffix(email, m.bad) {
		return fmt.Errorf("domain %s: no mx records", m.bad)
	}
	return nil
}

// asUser возвращает запрос от имени пользователя
func asUser(ctx context.Context, userID string) context.Context {
	return WithIdentity(ctx, Identity{UserID: userID, Email: userID + "@example.com"})
}
