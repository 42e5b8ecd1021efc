package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// IdentityKey ключ для данных аутентифицированного пользователя в контексте
const IdentityKey contextKey = "identity"

// Identity аутентифицированный субъект запроса
type Identity struct {
	UserID string
	Email  string
}

// WithIdentity добавляет identity в контекст
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFromContext извлекает identity из контекста
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(Identity)
	return id, ok && id.UserID != ""
}

// GetUserID извлекает user_id из контекста
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.UserID, ok
}
