package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/iudanet/eventz/internal/server/handlers"
	"github.com/iudanet/eventz/pkg/api"
)

// RecoveryMiddleware создает middleware для восстановления после паники.
// Логирует стек и отвечает 500 в едином формате ошибок без деталей.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					"error", rec,
					"method", r.Method,
					"path", sanitizePath(r.URL.Path),
					"stack", string(debug.Stack()),
				)

				handlers.WriteError(w, http.StatusInternalServerError, api.ErrorResponse{
					Kind:    api.KindServerError,
					Message: "internal server error",
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
