package api

import "time"

// EventRequest тело запроса создания и изменения мероприятия.
// Даты в формате RFC 3339.
type EventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status,omitempty"`
}

// Event мероприятие в ответах API
type Event struct {
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
}

// EventResponse ответ с одним мероприятием
type EventResponse struct {
	Message string `json:"message,omitempty"`
	Event   Event  `json:"event"`
}

// EventsResponse ответ со списком мероприятий
type EventsResponse struct {
	Events []Event `json:"events"`
}

// GuestRequest тело запроса добавления и изменения гостя
type GuestRequest struct {
	EventID    string `json:"event_id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	RSVPStatus string `json:"rsvp_status,omitempty"`
}

// Guest гость в ответах API
type Guest struct {
	CreatedAt  time.Time `json:"created_at"`
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	RSVPStatus string    `json:"rsvp_status"`
}

// GuestResponse ответ с одним гостем
type GuestResponse struct {
	Message string `json:"message,omitempty"`
	Guest   Guest  `json:"guest"`
}

// GuestsResponse ответ со списком гостей
type GuestsResponse struct {
	Guests []Guest `json:"guests"`
}

// HealthResponse ответ health check
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version,omitempty"`
}
