package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/eventz/internal/models"
	"github.com/iudanet/eventz/internal/server/auth"
	"github.com/iudanet/eventz/internal/server/jwt"
	"github.com/iudanet/eventz/internal/validation"
	"github.com/iudanet/eventz/pkg/api"
)

// AuthService операции жизненного цикла аутентификации
type AuthService interface {
	Register(ctx context.Context, in validation.RegisterInput) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) (*models.User, error)
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, in validation.LoginInput) (*auth.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	responder
	service AuthService
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, service AuthService) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger},
		service:   service,
	}
}

// Register обрабатывает POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.Register(ctx, validation.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(ctx, w, "register", err)
		return
	}

	h.sendJSON(w, api.RegisterResponse{
		Message: "User registered successfully. Please check your email to verify your account.",
		User:    toAPIUser(user.Public()),
	}, http.StatusCreated)
}

// VerifyEmail обрабатывает GET /api/auth/verify-email/{token}
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.service.VerifyEmail(ctx, chi.URLParam(r, "token")); err != nil {
		h.handleError(ctx, w, "verify email", err)
		return
	}

	h.sendJSON(w, api.MessageResponse{
		Message: "Email verified successfully! You can now login.",
	}, http.StatusOK)
}

// ResendVerification обрабатывает POST /api/auth/resend-verification
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ResendVerificationRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResendVerification(ctx, req.Email); err != nil {
		h.handleError(ctx, w, "resend verification", err)
		return
	}

	h.sendJSON(w, api.MessageResponse{
		Message: "If the account exists and is not verified, a new verification email has been sent.",
	}, http.StatusOK)
}

// Login обрабатывает POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.service.Login(ctx, validation.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.handleError(ctx, w, "login", err)
		return
	}

	h.sendJSON(w, api.LoginResponse{
		Message:      "Login successful",
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         toAPIUser(res.User),
	}, http.StatusOK)
}

// Refresh обрабатывает POST /api/auth/refresh-token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RefreshRequest
	if !h.decode(w, r, &req) {
		return
	}

	pair, err := h.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.handleError(ctx, w, "refresh", err)
		return
	}

	h.sendJSON(w, api.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, http.StatusOK)
}

// handleError переводит ошибки сервиса в ответы API
func (h *AuthHandler) handleError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if fields, ok := validation.AsFieldErrors(err); ok {
		h.sendValidation(w, fields)
		return
	}

	switch {
	case errors.Is(err, auth.ErrUserExists):
		h.sendError(w, http.StatusBadRequest, api.KindValidation, "Username or email already exists")
	case errors.Is(err, auth.ErrInvalidVerificationToken):
		h.sendError(w, http.StatusBadRequest, api.KindValidation, "Invalid or expired verification token")
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.sendError(w, http.StatusUnauthorized, api.KindInvalidCredentials, "Invalid credentials")
	case errors.Is(err, auth.ErrEmailNotVerified):
		h.sendError(w, http.StatusUnauthorized, api.KindEmailNotVerified, "Please verify your email before logging in")
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		WriteError(w, http.StatusUnauthorized, api.ErrorResponse{
			Kind:    api.KindUnauthenticated,
			Code:    api.CodeInvalidToken,
			Message: "Invalid refresh token",
		})
	default:
		h.logger.ErrorContext(ctx, op+" failed", slog.Any("error", err))
		h.sendInternal(w)
	}
}

func toAPIUser(u models.PublicUser) api.User {
	return api.User{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
