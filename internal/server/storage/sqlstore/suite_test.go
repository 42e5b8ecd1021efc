package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/eventz/internal/models"
	"github.com/iudanet/eventz/internal/server/storage"
)

// runStorageSuite проверяет поведение хранилища независимо от драйвера
func runStorageSuite(t *testing.T, s *Storage) {
	t.Run("users", func(t *testing.T) { testUsers(t, s) })
	t.Run("verification", func(t *testing.T) { testVerification(t, s) })
	t.Run("events", func(t *testing.T) { testEvents(t, s) })
	t.Run("guests", func(t *testing.T) { testGuests(t, s) })
	t.Run("cascade", func(t *testing.T) { testCascade(t, s) })
}

func testUsers(t *testing.T, s *Storage) {
	ctx := context.Background()

	user := createTestUser(t, ctx, s)

	t.Run("get by id and email", func(t *testing.T) {
		got, err := s.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
		assert.Equal(t, user.Username, got.Username)
		assert.False(t, got.EmailVerified)
		assert.Empty(t, got.VerificationToken)
		assert.Nil(t, got.VerificationTokenExpires)
		assert.WithinDuration(t, user.CreatedAt, got.CreatedAt, time.Millisecond)

		got, err = s.GetUserByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.GetUserByID(ctx, uuid.New().String())
		assert.ErrorIs(t, err, storage.ErrUserNotFound)

		_, err = s.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})

	t.Run("exists by email or username", func(t *testing.T) {
		exists, err := s.UserExists(ctx, user.Email, "someone_else")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.UserExists(ctx, "other@example.com", user.Username)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.UserExists(ctx, "other@example.com", "someone_else")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicates rejected", func(t *testing.T) {
		dupEmail := &models.User{
			ID:           uuid.New().String(),
			Username:     "fresh_name",
			Email:        user.Email,
			PasswordHash: "hash",
		}
		assert.ErrorIs(t, s.CreateUser(ctx, dupEmail), storage.ErrUserAlreadyExists)

		dupName := &models.User{
			ID:           uuid.New().String(),
			Username:     user.Username,
			Email:        "fresh@example.com",
			PasswordHash: "hash",
		}
		assert.ErrorIs(t, s.CreateUser(ctx, dupName), storage.ErrUserAlreadyExists)
	})
}

func testVerification(t *testing.T, s *Storage) {
	ctx := context.Background()
	now := time.Now().UTC()

	newUnverified := func(token string, expires time.Time) *models.User {
		id := uuid.New().String()
		u := &models.User{
			ID:                       id,
			Username:                 "v_" + id[:8],
			Email:                    "v_" + id[:8] + "@example.com",
			PasswordHash:             "hash",
			VerificationToken:        token,
			VerificationTokenExpires: &expires,
		}
		require.NoError(t, s.CreateUser(ctx, u))
		return u
	}

	t.Run("consume live token once", func(t *testing.T) {
		token := "live-" + uuid.New().String()
		u := newUnverified(token, now.Add(24*time.Hour))

		got, err := s.ConsumeVerificationToken(ctx, token, now)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.True(t, got.EmailVerified)
		assert.Empty(t, got.VerificationToken)
		assert.Nil(t, got.VerificationTokenExpires)

		_, err = s.ConsumeVerificationToken(ctx, token, now)
		assert.ErrorIs(t, err, storage.ErrTokenNotFound, "replay must fail")
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token := "expired-" + uuid.New().String()
		u := newUnverified(token, now.Add(-time.Minute))

		_, err := s.ConsumeVerificationToken(ctx, token, now)
		assert.ErrorIs(t, err, storage.ErrTokenNotFound)

		got, err := s.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.False(t, got.EmailVerified)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		_, err := s.ConsumeVerificationToken(ctx, "no-such-token", now)
		assert.ErrorIs(t, err, storage.ErrTokenNotFound)
	})

	t.Run("replace token", func(t *testing.T) {
		oldToken := "old-" + uuid.New().String()
		u := newUnverified(oldToken, now.Add(-time.Hour))

		newToken := "new-" + uuid.New().String()
		require.NoError(t, s.SetVerificationToken(ctx, u.ID, newToken, now.Add(time.Hour)))

		_, err := s.ConsumeVerificationToken(ctx, oldToken, now)
		assert.ErrorIs(t, err, storage.ErrTokenNotFound)

		_, err = s.ConsumeVerificationToken(ctx, newToken, now)
		require.NoError(t, err)

		err = s.SetVerificationToken(ctx, u.ID, "again", now.Add(time.Hour))
		assert.ErrorIs(t, err, storage.ErrUserNotFound, "verified users keep no token")
	})
}

func testEvents(t *testing.T, s *Storage) {
	ctx := context.Background()
	owner := createTestUser(t, ctx, s)

	later := createTestEvent(t, ctx, s, owner.ID)
	sooner := &models.Event{
		UserID:      owner.ID,
		Title:       "Breakfast",
		Description: "Morning meeting",
		Location:    "Cafe",
		StartDate:   later.StartDate.Add(-2 * time.Hour),
		EndDate:     later.StartDate.Add(-time.Hour),
		Status:      models.EventStatusOngoing,
	}
	require.NoError(t, s.CreateEvent(ctx, sooner))

	t.Run("defaults", func(t *testing.T) {
		got, err := s.GetEvent(ctx, later.ID)
		require.NoError(t, err)
		assert.Equal(t, models.EventStatusUpcoming, got.Status)
		assert.Equal(t, owner.ID, got.UserID)
		assert.True(t, later.StartDate.Equal(got.StartDate))
	})

	t.Run("list ordered by start", func(t *testing.T) {
		events, err := s.ListEventsByUser(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, sooner.ID, events[0].ID)
		assert.Equal(t, later.ID, events[1].ID)

		events, err = s.ListEventsByUser(ctx, uuid.New().String())
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("update keeps owner", func(t *testing.T) {
		upd := *later
		upd.Title = "Big party"
		upd.Status = models.EventStatusCancelled
		upd.UserID = uuid.New().String()

		got, err := s.UpdateEvent(ctx, &upd)
		require.NoError(t, err)
		assert.Equal(t, "Big party", got.Title)
		assert.Equal(t, models.EventStatusCancelled, got.Status)
		assert.Equal(t, owner.ID, got.UserID)
	})

	t.Run("update and delete missing", func(t *testing.T) {
		missing := &models.Event{ID: uuid.New().String(), Status: models.EventStatusUpcoming}
		_, err := s.UpdateEvent(ctx, missing)
		assert.ErrorIs(t, err, storage.ErrEventNotFound)

		_, err = s.DeleteEvent(ctx, missing.ID)
		assert.ErrorIs(t, err, storage.ErrEventNotFound)

		_, err = s.GetEvent(ctx, missing.ID)
		assert.ErrorIs(t, err, storage.ErrEventNotFound)
	})

	t.Run("delete returns row", func(t *testing.T) {
		deleted, err := s.DeleteEvent(ctx, sooner.ID)
		require.NoError(t, err)
		assert.Equal(t, "Breakfast", deleted.Title)

		_, err = s.GetEvent(ctx, sooner.ID)
		assert.ErrorIs(t, err, storage.ErrEventNotFound)
	})

	t.Run("unknown owner", func(t *testing.T) {
		ev := &models.Event{
			UserID:      uuid.New().String(),
			Title:       "Ghost",
			Description: "No owner",
			Location:    "Nowhere",
			StartDate:   later.StartDate,
			EndDate:     later.EndDate,
		}
		assert.ErrorIs(t, s.CreateEvent(ctx, ev), storage.ErrUserNotFound)
	})
}

func testGuests(t *testing.T, s *Storage) {
	ctx := context.Background()
	owner := createTestUser(t, ctx, s)
	event := createTestEvent(t, ctx, s, owner.ID)

	first := &models.Guest{EventID: event.ID, Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, s.CreateGuest(ctx, first))
	second := &models.Guest{EventID: event.ID, Name: "Carol"}
	require.NoError(t, s.CreateGuest(ctx, second))

	t.Run("defaults", func(t *testing.T) {
		got, err := s.GetGuest(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RSVPPending, got.RSVPStatus)
		assert.Equal(t, "bob@example.com", got.Email)

		got, err = s.GetGuest(ctx, second.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Email)
	})

	t.Run("list", func(t *testing.T) {
		guests, err := s.ListGuestsByEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Len(t, guests, 2)
	})

	t.Run("update", func(t *testing.T) {
		upd := *first
		upd.RSVPStatus = models.RSVPConfirmed
		upd.Email = ""

		got, err := s.UpdateGuest(ctx, &upd)
		require.NoError(t, err)
		assert.Equal(t, models.RSVPConfirmed, got.RSVPStatus)
		assert.Empty(t, got.Email)
		assert.Equal(t, event.ID, got.EventID)
	})

	t.Run("missing", func(t *testing.T) {
		id := uuid.New().String()
		_, err := s.GetGuest(ctx, id)
		assert.ErrorIs(t, err, storage.ErrGuestNotFound)

		_, err = s.UpdateGuest(ctx, &models.Guest{ID: id, Name: "x", RSVPStatus: models.RSVPPending})
		assert.ErrorIs(t, err, storage.ErrGuestNotFound)

		_, err = s.DeleteGuest(ctx, id)
		assert.ErrorIs(t, err, storage.ErrGuestNotFound)

		err = s.CreateGuest(ctx, &models.Guest{EventID: uuid.New().String(), Name: "Nobody"})
		assert.ErrorIs(t, err, storage.ErrEventNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := s.DeleteGuest(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "Carol", deleted.Name)

		guests, err := s.ListGuestsByEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Len(t, guests, 1)
	})
}

func testCascade(t *testing.T, s *Storage) {
	ctx := context.Background()
	owner := createTestUser(t, ctx, s)
	event := createTestEvent(t, ctx, s, owner.ID)

	guest := &models.Guest{EventID: event.ID, Name: "Dave"}
	require.NoError(t, s.CreateGuest(ctx, guest))

	_, err := s.DeleteEvent(ctx, event.ID)
	require.NoError(t, err)

	_, err = s.GetGuest(ctx, guest.ID)
	assert.ErrorIs(t, err, storage.ErrGuestNotFound, "guests are removed with their event")
}
