package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type lookupFunc func(key string) (string, bool)

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// loadDotEnv подгружает .env файл в окружение. Уже заданные переменные не перезаписываются.
// Отсутствие файла не ошибка.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// applyEnv переносит переменные окружения в конфигурацию
func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	str("ADDR", &cfg.Addr)
	if v, ok := lookup("PORT"); ok {
		if _, isSet := lookup("ADDR"); !isSet {
			cfg.Addr = ":" + v
		}
	}
	str("APP_URL", &cfg.AppURL)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("JWT_REFRESH_SECRET", &cfg.JWTRefreshSecret)
	str("LOG_LEVEL", &cfg.LogLevel)

	str("DB_DRIVER", &cfg.DB.Driver)
	str("DB_DSN", &cfg.DB.DSN)
	str("DB_HOST", &cfg.DB.Host)
	str("DB_PORT", &cfg.DB.Port)
	str("DB_USER", &cfg.DB.User)
	str("DB_PASSWORD", &cfg.DB.Password)
	str("DB_NAME", &cfg.DB.Name)
	str("DB_SSLMODE", &cfg.DB.SSLMode)

	str("SMTP_HOST", &cfg.SMTP.Host)
	str("SMTP_USERNAME", &cfg.SMTP.Username)
	str("SMTP_PASSWORD", &cfg.SMTP.Password)
	str("EMAIL_FROM", &cfg.SMTP.From)

	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = splitList(v)
	}

	var errs []error
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := parsePositiveInt(key, v)
			if err != nil {
				errs = append(errs, err)
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	integer("SMTP_PORT", &cfg.SMTP.Port)
	integer("BCRYPT_COST", &cfg.BcryptCost)
	integer("RATE_LIMIT", &cfg.RateLimit.Requests)
	integer("AUTH_RATE_LIMIT", &cfg.AuthRateLimit.Requests)
	duration("ACCESS_TOKEN_TTL", &cfg.AccessTokenTTL)
	duration("REFRESH_TOKEN_TTL", &cfg.RefreshTokenTTL)
	duration("RATE_WINDOW", &cfg.RateLimit.Window)
	duration("AUTH_RATE_WINDOW", &cfg.AuthRateLimit.Window)

	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	boolean("CHECK_EMAIL_DOMAIN", &cfg.CheckEmailDomain)
	boolean("TRUST_PROXY", &cfg.TrustProxy)

	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
