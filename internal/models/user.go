package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt                time.Time  `json:"created_at"`                           // время создания
	UpdatedAt                time.Time  `json:"updated_at"`                           // время последнего обновления
	VerificationTokenExpires *time.Time `json:"verification_token_expires,omitempty"` // срок действия токена верификации
	ID                       string     `json:"id"`                                   // UUID пользователя
	Username                 string     `json:"username"`                             // уникальный username
	Email                    string     `json:"email"`                                // уникальный email
	PasswordHash             string     `json:"-"`                                    // bcrypt хеш пароля
	VerificationToken        string     `json:"-"`                                    // пусто после подтверждения email
	EmailVerified            bool       `json:"email_verified"`
}

// PublicUser часть пользователя, которую можно отдавать клиенту
type PublicUser struct {
	CreatedAt     time.Time `json:"created_at"`
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
}

// Public возвращает публичное представление пользователя
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
