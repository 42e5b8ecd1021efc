package models

import "time"

// EventStatus статус мероприятия. Выставляется явно, по времени не вычисляется.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// EventStatuses список допустимых статусов
var EventStatuses = []EventStatus{
	EventStatusUpcoming,
	EventStatusOngoing,
	EventStatusCompleted,
	EventStatusCancelled,
}

// Valid проверяет, что статус входит в допустимый набор
func (s EventStatus) Valid() bool {
	for _, st := range EventStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Event представляет мероприятие пользователя
type Event struct {
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"` // владелец, не меняется после создания
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Status      EventStatus `json:"status"`
}
