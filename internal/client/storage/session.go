package storage

import (
	"context"

	"github.com/iudanet/eventz/pkg/api"
)

// SessionStorage хранит сессию клиента между запусками.
// Хранилище не интерпретирует токены, это делает session.Manager.
type SessionStorage interface {
	// SaveSession stores the session, replacing the previous one
	SaveSession(ctx context.Context, s *SessionData) error

	// LoadSession returns the stored session
	// Returns ErrSessionNotFound if nothing is stored
	LoadSession(ctx context.Context) (*SessionData, error)

	// DeleteSession removes the stored session
	// Returns ErrSessionNotFound if nothing is stored
	DeleteSession(ctx context.Context) error
}

// SessionData пользователь и пара токенов.
// Сессия действительна, только если заданы и пользователь, и токены.
type SessionData struct {
	User         api.User `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
}

// Complete сообщает, что обе половины сессии на месте
func (s *SessionData) Complete() bool {
	return s != nil && s.User.ID != "" && s.AccessToken != "" && s.RefreshToken != ""
}
