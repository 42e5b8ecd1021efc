package mail

import (
	"context"
	"time"
)

// Invitation данные приглашения гостя
type Invitation struct {
	StartDate   time.Time
	EndDate     time.Time
	GuestName   string
	EventTitle  string
	Description string
	Location    string
}

// Sender отправляет письма пользователям и гостям.
// Ошибка отправки не должна прерывать регистрацию или добавление гостя:
// вызывающий код только логирует ее.
type Sender interface {
	SendVerification(ctx context.Context, to, username, verifyURL string) error
	SendGuestInvitation(ctx context.Context, to string, inv Invitation) error
}
