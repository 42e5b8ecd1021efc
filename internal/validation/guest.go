package validation

import (
	"errors"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/iudanet/eventz/internal/models"
)

const maxGuestNameLen = 255

// GuestInput данные гостя из запроса
type GuestInput struct {
	EventID    string `json:"event_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	RSVPStatus string `json:"rsvp_status"`
}

// ValidateGuest проверяет данные гостя.
// requireEvent включает проверку event_id (при добавлении гостя).
func ValidateGuest(in GuestInput, requireEvent bool) error {
	in.Email = strings.TrimSpace(in.Email)

	eventRules := []ozzo.Rule{}
	if requireEvent {
		eventRules = append(eventRules, ozzo.Required.Error("event id is required"))
	}

	err := ozzo.ValidateStruct(&in,
		ozzo.Field(&in.EventID, eventRules...),
		ozzo.Field(&in.Name,
			ozzo.By(requiredText("guest name is required")),
			ozzo.RuneLength(0, maxGuestNameLen).Error("name must be less than 255 characters")),
		ozzo.Field(&in.Email, is.Email.Error("invalid email format")),
		ozzo.Field(&in.RSVPStatus, ozzo.By(rsvpRule)),
	)

	fe, ierr := fromOzzo(err)
	if ierr != nil {
		return ierr
	}
	return fe.Err()
}

func rsvpRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !models.RSVPStatus(s).Valid() {
		return errors.New("invalid RSVP status")
	}
	return nil
}
