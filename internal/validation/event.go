package validation

import (
	"errors"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation"

	"github.com/iudanet/eventz/internal/models"
)

const (
	maxTitleLen       = 255
	maxDescriptionLen = 5000
	maxLocationLen    = 255
)

// EventInput сырые данные мероприятия из запроса.
// Даты в формате RFC 3339.
type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
}

// EventData проверенные данные мероприятия
type EventData struct {
	StartDate   time.Time
	EndDate     time.Time
	Title       string
	Description string
	Location    string
	Status      models.EventStatus // пусто, если статус не передан
}

// ValidateEvent проверяет данные мероприятия.
// При создании (creating=true) дополнительно проверяется, что начало не в прошлом.
// При обновлении эта проверка не выполняется.
func ValidateEvent(in EventInput, now time.Time, creating bool) (*EventData, error) {
	err := ozzo.ValidateStruct(&in,
		ozzo.Field(&in.Title,
			ozzo.By(requiredText("title is required")),
			ozzo.RuneLength(0, maxTitleLen).Error("title must be less than 255 characters")),
		ozzo.Field(&in.Description,
			ozzo.By(requiredText("description is required")),
			ozzo.RuneLength(0, maxDescriptionLen).Error("description must be less than 5000 characters")),
		ozzo.Field(&in.Location,
			ozzo.By(requiredText("location is required")),
			ozzo.RuneLength(0, maxLocationLen).Error("location must be less than 255 characters")),
		ozzo.Field(&in.StartDate, ozzo.Required.Error("start date is required"), ozzo.By(dateRule)),
		ozzo.Field(&in.EndDate, ozzo.Required.Error("end date is required"), ozzo.By(dateRule)),
		ozzo.Field(&in.Status, ozzo.By(eventStatusRule)),
	)

	fe, ierr := fromOzzo(err)
	if ierr != nil {
		return nil, ierr
	}

	data := &EventData{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Status:      models.EventStatus(in.Status),
	}

	start, startErr := time.Parse(time.RFC3339, in.StartDate)
	end, endErr := time.Parse(time.RFC3339, in.EndDate)

	if startErr == nil {
		data.StartDate = start.UTC()
		if creating && start.Before(now) {
			fe.Add("start_date", "start date cannot be in the past")
		}
	}
	if startErr == nil && endErr == nil {
		data.EndDate = end.UTC()
		if !end.After(start) {
			fe.Add("end_date", "end date must be after start date")
		}
	}

	if err := fe.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

func requiredText(msg string) ozzo.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

func dateRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return errors.New("must be an RFC 3339 timestamp")
	}
	return nil
}

func eventStatusRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !models.EventStatus(s).Valid() {
		return errors.New("invalid status")
	}
	return nil
}
