package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired токен подписан верно, но срок действия истек
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidToken любая другая ошибка проверки токена
	ErrInvalidToken = errors.New("invalid token")
)

// Kind тип токена. Access и refresh подписываются разными секретами.
type Kind int

const (
	AccessToken Kind = iota
	RefreshToken
)

func (k Kind) String() string {
	if k == RefreshToken {
		return "refresh"
	}
	return "access"
}

// DefaultIssuer значение iss по умолчанию
const DefaultIssuer = "eventz"

// Config параметры выпуска токенов
type Config struct {
	Issuer          string
	AccessSecret    []byte
	RefreshSecret   []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Claims утверждения токена
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	gojwt.RegisteredClaims
}

// TokenPair пара токенов, выдаваемая при логине и refresh
type TokenPair struct {
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	AccessToken      string
	RefreshToken     string
}

// Service выпускает и проверяет JWT токены
type Service struct {
	now func() time.Time
	cfg Config
}

// Option настраивает Service
type Option func(*Service)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService создает сервис токенов.
// Секреты обязательны и должны различаться.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("jwt secrets must not be empty")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}

	s := &Service{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IssueAccessToken выпускает access токен
func (s *Service) IssueAccessToken(userID, email string) (string, time.Time, error) {
	return s.issue(AccessToken, userID, email)
}

// IssueRefreshToken выпускает refresh токен
func (s *Service) IssueRefreshToken(userID, email string) (string, time.Time, error) {
	return s.issue(RefreshToken, userID, email)
}

// IssuePair выпускает новую пару токенов. Сроки отсчитываются от текущего момента.
func (s *Service) IssuePair(userID, email string) (*TokenPair, error) {
	access, accessExp, err := s.IssueAccessToken(userID, email)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.IssueRefreshToken(userID, email)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Verify проверяет токен указанного типа.
// Возвращает ErrTokenExpired только для корректно подписанного просроченного токена,
// во всех остальных случаях ErrInvalidToken.
func (s *Service) Verify(tokenString string, kind Kind) (*Claims, error) {
	secret := s.secret(kind)

	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(s.cfg.Issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *gojwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) && !errors.Is(err, gojwt.ErrTokenSignatureInvalid) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.Subject != claims.UserID {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *Service) issue(kind Kind, userID, email string) (string, time.Time, error) {
	now := s.now()
	ttl := s.cfg.AccessTokenTTL
	if kind == RefreshToken {
		ttl = s.cfg.RefreshTokenTTL
	}
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(expiresAt),
		},
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret(kind))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return signed, expiresAt, nil
}

func (s *Service) secret(kind Kind) []byte {
	if kind == RefreshToken {
		return s.cfg.RefreshSecret
	}
	return s.cfg.AccessSecret
}
