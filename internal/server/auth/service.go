package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/eventz/internal/crypto"
	"github.com/iudanet/eventz/internal/models"
	"github.com/iudanet/eventz/internal/server/jwt"
	"github.com/iudanet/eventz/internal/server/mail"
	"github.com/iudanet/eventz/internal/server/storage"
	"github.com/iudanet/eventz/internal/validation"
)

// VerificationTTL срок действия ссылки подтверждения email
const VerificationTTL = 24 * time.Hour

var (
	// ErrUserExists email или username уже заняты
	ErrUserExists = errors.New("username or email already exists")
	// ErrInvalidVerificationToken токен неизвестен, просрочен или уже использован
	ErrInvalidVerificationToken = errors.New("invalid or expired verification token")
	// ErrInvalidCredentials неизвестный email или неверный пароль
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotVerified пароль верный, но email не подтвержден
	ErrEmailNotVerified = errors.New("please verify your email before logging in")
	// ErrInvalidRefreshToken refresh токен не прошел проверку (в том числе просрочен)
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// DomainChecker проверяет, что домен email принимает почту
type DomainChecker interface {
	Check(ctx context.Context, email string) error
}

// PasswordHasher хеширует и проверяет пароли
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Config параметры сервиса
type Config struct {
	// AppURL базовый адрес API для ссылки подтверждения
	AppURL string
}

// LoginResult результат успешного входа
type LoginResult struct {
	Tokens *jwt.TokenPair
	User   models.PublicUser
}

// Service реализует жизненный цикл аутентификации:
// регистрация, подтверждение email, вход и обновление токенов
type Service struct {
	logger  *slog.Logger
	users   storage.UserStorage
	hasher  PasswordHasher
	tokens  *jwt.Service
	mailer  mail.Sender
	domains DomainChecker // nil отключает DNS проверку
	now     func() time.Time
	cfg     Config
}

// NewService создает сервис аутентификации
func NewService(
	logger *slog.Logger,
	users storage.UserStorage,
	hasher PasswordHasher,
	tokens *jwt.Service,
	mailer mail.Sender,
	domains DomainChecker,
	cfg Config,
) *Service {
	return &Service{
		logger:  logger,
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		mailer:  mailer,
		domains: domains,
		now:     time.Now,
		cfg:     cfg,
	}
}

// Register регистрирует пользователя в состоянии "email не подтвержден"
// и отправляет письмо со ссылкой подтверждения.
// Ошибка отправки письма только логируется.
func (s *Service) Register(ctx context.Context, in validation.RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	fe := validation.FieldErrors{}
	if err := validation.ValidateRegister(in); err != nil {
		verrs, ok := validation.AsFieldErrors(err)
		if !ok {
			return nil, err
		}
		fe = verrs
	}

	// Домен проверяется только у синтаксически корректного email,
	// ошибка попадает в общий набор ошибок полей
	if _, invalid := fe["email"]; !invalid && s.domains != nil {
		if err := s.domains.Check(ctx, in.Email); err != nil {
			s.logger.WarnContext(ctx, "email domain check failed", slog.Any("error", err))
			fe.Add("email", "email domain does not exist or cannot receive mail")
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	exists, err := s.users.UserExists(ctx, in.Email, in.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	token, err := crypto.GenerateVerificationToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expires := now.Add(VerificationTTL)

	user := &models.User{
		ID:                       uuid.New().String(),
		Username:                 in.Username,
		Email:                    in.Email,
		PasswordHash:             hash,
		VerificationToken:        token,
		VerificationTokenExpires: &expires,
		CreatedAt:                now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username))

	s.sendVerification(ctx, user, token)

	return user, nil
}

// VerifyEmail потребляет токен подтверждения. Повторное использование невозможно.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidVerificationToken
	}

	user, err := s.users.ConsumeVerificationToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return nil, ErrInvalidVerificationToken
		}
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}

	s.logger.InfoContext(ctx, "email verified", slog.String("user_id", user.ID))
	return user, nil
}

// ResendVerification выпускает новый токен для неподтвержденного пользователя.
// Для неизвестных и уже подтвержденных адресов возвращает nil, не раскрывая разницу.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return validation.FieldErrors{"email": "email is required"}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user.EmailVerified {
		return nil
	}

	token, err := crypto.GenerateVerificationToken()
	if err != nil {
		return err
	}

	if err := s.users.SetVerificationToken(ctx, user.ID, token, s.now().Add(VerificationTTL)); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to set verification token: %w", err)
	}

	s.sendVerification(ctx, user, token)
	return nil
}

// Login проверяет учетные данные и выдает новую пару токенов.
// Состояние пользователя не меняется.
func (s *Service) Login(ctx context.Context, in validation.LoginInput) (*LoginResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateLogin(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return &LoginResult{Tokens: pair, User: user.Public()}, nil
}

// Refresh выдает новую пару токенов по действительному refresh токену.
// Оба токена обновляются, старый refresh не отзывается.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	if refreshToken == "" {
		return nil, validation.FieldErrors{"refreshToken": "refresh token required"}
	}

	claims, err := s.tokens.Verify(refreshToken, jwt.RefreshToken)
	if err != nil {
		s.logger.DebugContext(ctx, "refresh token rejected", slog.Any("error", err))
		return nil, ErrInvalidRefreshToken
	}

	pair, err := s.tokens.IssuePair(claims.UserID, claims.Email)
	if err != nil {
		return nil, err
	}

	return pair, nil
}

func (s *Service) sendVerification(ctx context.Context, user *models.User, token string) {
	link := strings.TrimRight(s.cfg.AppURL, "/") + "/api/auth/verify-email/" + token

	if err := s.mailer.SendVerification(ctx, user.Email, user.Username, link); err != nil {
		s.logger.ErrorContext(ctx, "failed to send verification email",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}
}
