package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/eventz/internal/crypto"
	"github.com/iudanet/eventz/internal/server/auth"
	"github.com/iudanet/eventz/internal/server/config"
	"github.com/iudanet/eventz/internal/server/handlers"
	"github.com/iudanet/eventz/internal/server/jwt"
	"github.com/iudanet/eventz/internal/server/mail"
	"github.com/iudanet/eventz/internal/server/storage/sqlstore"
	"github.com/iudanet/eventz/internal/validation"
)

// App собранное приложение: хранилище, сервисы и маршруты
type App struct {
	Storage *sqlstore.Storage
	Tokens  *jwt.Service
	Router  *Router
}

// Option настраивает сборку приложения
type Option func(*options)

type options struct {
	mailer   mail.Sender
	resolver validation.Resolver
}

// WithMailer подменяет отправителя писем
func WithMailer(m mail.Sender) Option {
	return func(o *options) { o.mailer = m }
}

// WithResolver подменяет DNS resolver для проверки доменов email
func WithResolver(r validation.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// NewApp открывает хранилище и связывает компоненты API
func NewApp(ctx context.Context, logger *slog.Logger, cfg *config.Config, version string, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store, err := sqlstore.New(ctx, cfg.DB.Driver, cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	tokens, err := jwt.NewService(jwt.Config{
		AccessSecret:    []byte(cfg.JWTSecret),
		RefreshSecret:   []byte(cfg.JWTRefreshSecret),
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("jwt: %w", err)
	}

	mailer := o.mailer
	if mailer == nil {
		mailer, err = newMailer(logger, cfg)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	// nil интерфейс отключает проверку
	var authDomains auth.DomainChecker
	var guestDomains handlers.DomainChecker
	if cfg.CheckEmailDomain {
		checker := validation.NewDomainChecker(o.resolver)
		authDomains = checker
		guestDomains = checker
	}

	authService := auth.NewService(
		logger,
		store,
		crypto.NewHasher(cfg.BcryptCost),
		tokens,
		mailer,
		authDomains,
		auth.Config{AppURL: cfg.AppURL},
	)

	router := NewRouter(logger, cfg, tokens, Handlers{
		Auth:   handlers.NewAuthHandler(logger, authService),
		Events: handlers.NewEventHandler(logger, store),
		Guests: handlers.NewGuestHandler(logger, store, store, mailer, guestDomains),
		Health: handlers.NewHealthHandler(logger, store, version),
	})

	return &App{Storage: store, Tokens: tokens, Router: router}, nil
}

// Close освобождает ресурсы приложения
func (a *App) Close() error {
	a.Router.Close()
	return a.Storage.Close()
}

func newMailer(logger *slog.Logger, cfg *config.Config) (mail.Sender, error) {
	if !cfg.SMTPEnabled() {
		logger.Warn("SMTP_HOST is not set, emails will be logged instead of sent")
		return mail.NewLogSender(logger), nil
	}

	sender, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}
	return sender, nil
}
