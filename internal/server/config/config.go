// Package config загружает настройки сервера: значения по умолчанию,
// затем необязательный .env файл, переменные окружения и флаги командной строки.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultSQLitePath = "eventz.db"
)

// DBConfig настройки подключения к базе данных.
// Для postgres без явного DSN строка собирается из Host, Port, User, Password, Name.
type DBConfig struct {
	Driver   string
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// SMTPConfig настройки исходящей почты. Пустой Host включает логирующий отправитель.
type SMTPConfig struct {
	Host     string
	Username string
	Password string
	From     string
	Port     int
}

// RateLimit лимит запросов с одного IP за окно
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Config настройки сервера
type Config struct {
	DB               DBConfig
	SMTP             SMTPConfig
	Addr             string
	AppURL           string
	JWTSecret        string
	JWTRefreshSecret string
	LogLevel         string
	EnvFile          string
	AllowedOrigins   []string
	RateLimit        RateLimit
	AuthRateLimit    RateLimit
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	BcryptCost       int
	CheckEmailDomain bool
	// TrustProxy разрешает брать IP клиента из X-Forwarded-For / X-Real-IP.
	// Включать только за reverse proxy, который перезаписывает эти заголовки.
	TrustProxy bool
}

// Default возвращает настройки для локальной разработки.
// Секреты JWT пустые: их необходимо задать явно.
func Default() *Config {
	return &Config{
		Addr:             ":5000",
		AppURL:           "http://localhost:5000",
		LogLevel:         "info",
		EnvFile:          ".env",
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
		BcryptCost:       10,
		CheckEmailDomain: true,
		DB: DBConfig{
			Driver:  DriverSQLite,
			Host:    "localhost",
			Port:    "5432",
			SSLMode: "disable",
		},
		SMTP: SMTPConfig{
			Port: 587,
			From: "Eventz <no-reply@eventz.local>",
		},
		RateLimit:     RateLimit{Requests: 100, Window: 15 * time.Minute},
		AuthRateLimit: RateLimit{Requests: 5, Window: 15 * time.Minute},
	}
}

// Load собирает конфигурацию: defaults -> .env -> окружение -> флаги
func Load(args []string) (*Config, error) {
	cfg := Default()

	fs := newFlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	flags := explicitFlags(fs)

	envFile := cfg.EnvFile
	if v, ok := flags["env-file"]; ok {
		envFile = v
	}
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	if err := applyEnv(cfg, lookupEnv); err != nil {
		return nil, err
	}
	applyFlags(cfg, flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTRefreshSecret == "" {
		errs = append(errs, errors.New("JWT_REFRESH_SECRET is required"))
	}
	if c.JWTSecret != "" && c.JWTSecret == c.JWTRefreshSecret {
		errs = append(errs, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ"))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver))
	}
	if c.AppURL == "" {
		errs = append(errs, errors.New("APP_URL is required"))
	} else if u, err := url.Parse(c.AppURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("APP_URL %q is not an absolute URL", c.AppURL))
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 ||
		c.AuthRateLimit.Requests <= 0 || c.AuthRateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}

	return errors.Join(errs...)
}

// DatabaseDSN возвращает DSN для выбранного драйвера
func (c *Config) DatabaseDSN() string {
	if c.DB.DSN != "" {
		return c.DB.DSN
	}
	if c.DB.Driver == DriverSQLite {
		return defaultSQLitePath
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.DB.Host, c.DB.Port),
		Path:   "/" + c.DB.Name,
	}
	if c.DB.User != "" {
		u.User = url.UserPassword(c.DB.User, c.DB.Password)
	}
	q := url.Values{}
	q.Set("sslmode", c.DB.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// SMTPEnabled сообщает, настроена ли реальная отправка почты
func (c *Config) SMTPEnabled() bool {
	return c.SMTP.Host != ""
}

func parsePositiveInt(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: expected positive integer, got %q", name, v)
	}
	return n, nil
}
