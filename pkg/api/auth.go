package api

import "time"

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User публичные данные пользователя
type User struct {
	CreatedAt     time.Time `json:"created_at"`
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
}

// RegisterResponse представляет ответ на успешную регистрацию
type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// MessageResponse ответ, содержащий только сообщение
type MessageResponse struct {
	Message string `json:"message"`
}

// ResendVerificationRequest запрос на повторную отправку письма подтверждения
type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse ответ на успешный вход
type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// RefreshRequest запрос на обновление токенов
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse новая пара токенов
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
