package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/eventz/internal/server/handlers"
	"github.com/iudanet/eventz/internal/server/jwt"
	"github.com/iudanet/eventz/pkg/api"
)

// TokenVerifier проверяет access токен
type TokenVerifier interface {
	Verify(tokenString string, kind jwt.Kind) (*jwt.Claims, error)
}

// AuthMiddleware создает middleware для проверки JWT токена.
// Истекший токен помечается кодом TOKEN_EXPIRED, чтобы клиент мог обновить пару.
func AuthMiddleware(logger *slog.Logger, tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "missing Authorization header")
				unauthorized(w, "", "authorization header missing")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				logger.WarnContext(ctx, "invalid Authorization header format")
				unauthorized(w, api.CodeInvalidToken, "invalid token format")
				return
			}

			claims, err := tokens.Verify(parts[1], jwt.AccessToken)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					logger.DebugContext(ctx, "access token expired")
					unauthorized(w, api.CodeTokenExpired, "token expired")
					return
				}
				logger.WarnContext(ctx, "invalid access token", slog.Any("error", err))
				unauthorized(w, api.CodeInvalidToken, "invalid token")
				return
			}

			ctx = handlers.WithIdentity(ctx, handlers.Identity{UserID: claims.UserID, Email: claims.Email})

			logger.DebugContext(ctx, "user authenticated", slog.String("user_id", claims.UserID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, code, message string) {
	handlers.WriteError(w, http.StatusUnauthorized, api.ErrorResponse{
		Kind:    api.KindUnauthenticated,
		Code:    code,
		Message: message,
	})
}
