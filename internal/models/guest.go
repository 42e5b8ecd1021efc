package models

import "time"

// RSVPStatus ответ гостя на приглашение
type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPDeclined  RSVPStatus = "declined"
)

// RSVPStatuses список допустимых ответов
var RSVPStatuses = []RSVPStatus{RSVPPending, RSVPConfirmed, RSVPDeclined}

// Valid проверяет, что ответ входит в допустимый набор
func (s RSVPStatus) Valid() bool {
	for _, st := range RSVPStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Guest представляет гостя мероприятия.
// Владелец определяется через мероприятие.
type Guest struct {
	CreatedAt  time.Time  `json:"created_at"`
	ID         string     `json:"id"`
	EventID    string     `json:"event_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	RSVPStatus RSVPStatus `json:"rsvp_status"`
}
