package api

import (
	"errors"
	"fmt"
)

// Kind тип ошибки в едином формате ответа
type Kind string

const (
	KindValidation         Kind = "validation"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindEmailNotVerified   Kind = "email_not_verified"
	KindUnauthenticated    Kind = "unauthenticated"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindRateLimited        Kind = "rate_limited"
	KindServerError        Kind = "server_error"
)

// Коды для KindUnauthenticated
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeInvalidToken = "INVALID_TOKEN"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Fields  map[string]string `json:"fields,omitempty"` // ошибки по полям для KindValidation
	Kind    Kind              `json:"kind"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
}

// ErrSessionExpired сессия клиента завершена: refresh не удался или сервер ответил 403
var ErrSessionExpired = errors.New("session expired, please login again")

// Error ошибка API на стороне клиента
type Error struct {
	Fields  map[string]string
	Kind    Kind
	Code    string
	Message string
	Status  int
}

// Error реализует интерфейс error
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Kind)
	}
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// IsKind проверяет тип ошибки API в цепочке ошибок
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}
