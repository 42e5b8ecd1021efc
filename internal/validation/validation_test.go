package validation

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/eventz/internal/models"
)

func TestValidateRegister(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		err := ValidateRegister(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "Secret123"})
		assert.NoError(t, err)
	})

	t.Run("all errors collected", func(t *testing.T) {
		err := ValidateRegister(RegisterInput{Username: "a", Email: "not-an-email", Password: "short"})
		require.Error(t, err)

		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "username")
		assert.Contains(t, fe, "email")
		assert.Contains(t, fe, "password")
	})

	t.Run("missing fields", func(t *testing.T) {
		err := ValidateRegister(RegisterInput{})
		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Equal(t, "username is required", fe["username"])
		assert.Equal(t, "email is required", fe["email"])
		assert.Equal(t, "password is required", fe["password"])
	})
}

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, ValidateLogin(LoginInput{Email: "a@example.com", Password: "x"}))

	fe, ok := AsFieldErrors(ValidateLogin(LoginInput{}))
	require.True(t, ok)
	assert.Len(t, fe, 2)
}

func TestValidateEvent(t *testing.T) {
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	valid := EventInput{
		Title:       "Birthday",
		Description: "Cake and friends",
		Location:    "Home",
		StartDate:   now.Add(24 * time.Hour).Format(time.RFC3339),
		EndDate:     now.Add(26 * time.Hour).Format(time.RFC3339),
	}

	t.Run("valid create", func(t *testing.T) {
		data, err := ValidateEvent(valid, now, true)
		require.NoError(t, err)
		assert.Equal(t, "Birthday", data.Title)
		assert.Equal(t, now.Add(24*time.Hour), data.StartDate)
		assert.Equal(t, models.EventStatus(""), data.Status)
	})

	t.Run("end before start", func(t *testing.T) {
		in := valid
		in.EndDate = now.Add(23 * time.Hour).Format(time.RFC3339)
		_, err := ValidateEvent(in, now, true)

		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Equal(t, "end date must be after start date", fe["end_date"])
	})

	t.Run("end equal to start", func(t *testing.T) {
		in := valid
		in.EndDate = in.StartDate
		_, err := ValidateEvent(in, now, true)

		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "end_date")
	})

	t.Run("start in past rejected on create", func(t *testing.T) {
		in := valid
		in.StartDate = now.Add(-time.Hour).Format(time.RFC3339)
		_, err := ValidateEvent(in, now, true)

		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Equal(t, "start date cannot be in the past", fe["start_date"])
	})

	t.Run("start in past allowed on update", func(t *testing.T) {
		in := valid
		in.StartDate = now.Add(-time.Hour).Format(time.RFC3339)
		_, err := ValidateEvent(in, now, false)
		assert.NoError(t, err)
	})

	t.Run("field limits and status", func(t *testing.T) {
		in := valid
		in.Title = strings.Repeat("t", 256)
		in.Description = strings.Repeat("d", 5001)
		in.Location = "   "
		in.Status = "postponed"
		_, err := ValidateEvent(in, now, true)

		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "title")
		assert.Contains(t, fe, "description")
		assert.Equal(t, "location is required", fe["location"])
		assert.Equal(t, "invalid status", fe["status"])
	})

	t.Run("bad date format", func(t *testing.T) {
		in := valid
		in.StartDate = "tomorrow"
		_, err := ValidateEvent(in, now, true)

		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "start_date")
		assert.NotContains(t, fe, "end_date")
	})
}

func TestValidateGuest(t *testing.T) {
	assert.NoError(t, ValidateGuest(GuestInput{EventID: "e1", Name: "Bob"}, true))
	assert.NoError(t, ValidateGuest(GuestInput{Name: "Bob", RSVPStatus: "confirmed"}, false))

	fe, ok := AsFieldErrors(ValidateGuest(GuestInput{Email: "bad", RSVPStatus: "maybe"}, true))
	require.True(t, ok)
	assert.Equal(t, "event id is required", fe["event_id"])
	assert.Equal(t, "guest name is required", fe["name"])
	assert.Equal(t, "invalid email format", fe["email"])
	assert.Equal(t, "invalid RSVP status", fe["rsvp_status"])
}

func TestFieldErrors_Error(t *testing.T) {
	fe := FieldErrors{"b": "second", "a": "first"}
	assert.Equal(t, "a: first; b: second", fe.Error())
	assert.Nil(t, FieldErrors{}.Err())
}

type fakeResolver struct {
	mx   map[string][]*net.MX
	ipv4 map[string][]net.IP
	ipv6 map[string][]net.IP
}

func (f *fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if mx, ok := f.mx[name]; ok {
		return mx, nil
	}
	return nil, errors.New("no such host")
}

func (f *fakeResolver) LookupIP(_ context.Context, network, host string) ([]net.IP, error) {
	src := f.ipv4
	if network == "ip6" {
		src = f.ipv6
	}
	if ips, ok := src[host]; ok {
		return ips, nil
	}
	return nil, errors.New("no such host")
}

func TestDomainChecker_Check(t *testing.T) {
	r := &fakeResolver{
		mx: map[string][]*net.MX{
			"example.com": {{Host: "mx.example.com.", Pref: 10}},
			"v6only.org":  {{Host: "mx.v6only.org.", Pref: 10}},
			"noaddr.net":  {{Host: "mx.noaddr.net.", Pref: 10}},
		},
		ipv4: map[string][]net.IP{"example.com": {net.ParseIP("93.184.216.34")}},
		ipv6: map[string][]net.IP{"v6only.org": {net.ParseIP("2001:db8::1")}},
	}
	checker := NewDomainChecker(r)
	ctx := context.Background()

	assert.NoError(t, checker.Check(ctx, "alice@example.com"))
	assert.NoError(t, checker.Check(ctx, "alice@EXAMPLE.com"))
	assert.NoError(t, checker.Check(ctx, "bob@v6only.org"))
	assert.ErrorIs(t, checker.Check(ctx, "carol@noaddr.net"), ErrDomainNotFound)
	assert.ErrorIs(t, checker.Check(ctx, "dave@missing.invalid"), ErrDomainNotFound)
	assert.ErrorIs(t, checker.Check(ctx, "no-at-sign"), ErrDomainNotFound)
}
