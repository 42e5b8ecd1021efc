package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/iudanet/eventz/internal/server/handlers"
	"github.com/iudanet/eventz/pkg/api"
)

// RateLimiter ограничивает частоту запросов по ключу (IP адресу).
// Для каждого ключа держится свой token bucket из x/time/rate:
// емкость requests, полное пополнение за window.
type RateLimiter struct {
	visitors map[string]*visitor
	logger   *slog.Logger
	now      func() time.Time
	stopC    chan struct{}
	limit    rate.Limit
	burst    int
	window   time.Duration
	stopOnce sync.Once
	mu       sync.Mutex
}

// visitor состояние лимита для одного ключа
type visitor struct {
	lastSeen time.Time
	limiter  *rate.Limiter
}

// NewRateLimiter создает новый rate limiter.
// requests - максимальное количество запросов за window.
func NewRateLimiter(requests int, window time.Duration, logger *slog.Logger) *RateLimiter {
	if requests < 1 {
		requests = 1
	}
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		logger:   logger,
		now:      time.Now,
		stopC:    make(chan struct{}),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		window:   window,
	}

	go rl.cleanup()

	return rl
}

// cleanup периодически удаляет неактивные ключи
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStale()
		case <-rl.stopC:
			return
		}
	}
}

// cleanupStale удаляет ключи, не использовавшиеся дольше window.
// Такой bucket уже полон, поэтому удаление не меняет поведение.
func (rl *RateLimiter) cleanupStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.window {
			delete(rl.visitors, key)
		}
	}
}

// Stop останавливает cleanup goroutine. Повторный вызов безопасен.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopC) })
}

// Allow проверяет, разрешен ли запрос для данного ключа
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// retryAfter время до появления следующего токена, в секундах
func (rl *RateLimiter) retryAfter() int {
	return int(math.Ceil(float64(rl.window) / float64(rl.burst) / float64(time.Second)))
}

// Middleware ограничивает запросы по IP адресу клиента
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := getClientIP(r)

		if !rl.Allow(key) {
			rl.logger.WarnContext(r.Context(), "rate limit exceeded",
				"ip", key,
				"method", r.Method,
				"path", sanitizePath(r.URL.Path),
			)

			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
			handlers.WriteError(w, http.StatusTooManyRequests, api.ErrorResponse{
				Kind:    api.KindRateLimited,
				Message: "Too many requests, please try again later",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP возвращает IP клиента из RemoteAddr.
// Заголовки X-Forwarded-For и X-Real-IP не читаются: за доверенным прокси
// RemoteAddr заранее переписывает chi middleware.RealIP.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
