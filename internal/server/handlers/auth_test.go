package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/eventz/internal/models"
	"github.com/iudanet/eventz/internal/server/auth"
	"github.com/iudanet/eventz/internal/server/jwt"
	"github.com/iudanet/eventz/internal/validation"
	"github.com/iudanet/eventz/pkg/api"
)

// mockAuthService is a mock implementation of AuthService for testing
type mockAuthService struct {
	registerErr error
	verifyErr   error
	resendErr   error
	loginErr    error
	refreshErr  error
	lastToken   string
}

func (m *mockAuthService) Register(_ context.Context, in validation.RegisterInput) (*models.User, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return &models.User{ID: "user-1", Username: in.Username, Email: in.Email, CreatedAt: time.Now()}, nil
}

func (m *mockAuthService) VerifyEmail(_ context.Context, token string) (*models.User, error) {
	m.lastToken = token
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return &models.User{ID: "user-1", EmailVerified: true}, nil
}

func (m *mockAuthService) ResendVerification(_ context.Context, _ string) error {
	return m.resendErr
}

func (m *mockAuthService) Login(_ context.Context, in validation.LoginInput) (*auth.LoginResult, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &auth.LoginResult{
		Tokens: &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
		User:   models.PublicUser{ID: "user-1", Username: "alice", Email: in.Email, EmailVerified: true},
	}, nil
}

func (m *mockAuthService) Refresh(_ context.Context, token string) (*jwt.TokenPair, error) {
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return &jwt.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// withURLParam добавляет chi параметр пути в запрос
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		serviceErr error
		name       string
		wantKind   api.Kind
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusCreated},
		{name: "validation", serviceErr: validation.FieldErrors{"password": "too short"}, wantStatus: http.StatusBadRequest, wantKind: api.KindValidation},
		{name: "duplicate", serviceErr: auth.ErrUserExists, wantStatus: http.StatusBadRequest, wantKind: api.KindValidation},
		{name: "storage failure", serviceErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantKind: api.KindServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(setupTestLogger(), &mockAuthService{registerErr: tt.serviceErr})

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, api.RegisterRequest{
				Username: "alice", Email: "alice@example.com", Password: "Secret123",
			}))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				var resp api.RegisterResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "alice", resp.User.Username)
				assert.False(t, resp.User.EmailVerified)
				return
			}
			assert.Equal(t, tt.wantKind, decodeError(t, rec).Kind)
		})
	}
}

func TestAuthHandler_Register_FieldErrors(t *testing.T) {
	h := NewAuthHandler(setupTestLogger(), &mockAuthService{
		registerErr: validation.FieldErrors{"email": "invalid email format", "password": "too short"},
	})

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, api.RegisterRequest{})))

	resp := decodeError(t, rec)
	assert.Equal(t, "invalid email format", resp.Fields["email"])
	assert.Equal(t, "too short", resp.Fields["password"])
}

func TestAuthHandler_InvalidJSON(t *testing.T) {
	h := NewAuthHandler(setupTestLogger(), &mockAuthService{})

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, api.KindValidation, decodeError(t, rec).Kind)
}

func TestAuthHandler_VerifyEmail(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockAuthService{}
		h := NewAuthHandler(setupTestLogger(), svc)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/auth/verify-email/abc", nil), "token", "abc")
		rec := httptest.NewRecorder()
		h.VerifyEmail(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "abc", svc.lastToken)

		var resp api.MessageResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Email verified successfully! You can now login.", resp.Message)
	})

	t.Run("invalid token", func(t *testing.T) {
		h := NewAuthHandler(setupTestLogger(), &mockAuthService{verifyErr: auth.ErrInvalidVerificationToken})

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/auth/verify-email/abc", nil), "token", "abc")
		rec := httptest.NewRecorder()
		h.VerifyEmail(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid or expired verification token", decodeError(t, rec).Message)
	})
}

func TestAuthHandler_ResendVerification(t *testing.T) {
	h := NewAuthHandler(setupTestLogger(), &mockAuthService{})

	rec := httptest.NewRecorder()
	h.ResendVerification(rec, httptest.NewRequest(http.MethodPost, "/api/auth/resend-verification",
		jsonBody(t, api.ResendVerificationRequest{Email: "alice@example.com"})))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		serviceErr error
		name       string
		wantKind   api.Kind
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "invalid credentials", serviceErr: auth.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantKind: api.KindInvalidCredentials},
		{name: "not verified", serviceErr: auth.ErrEmailNotVerified, wantStatus: http.StatusUnauthorized, wantKind: api.KindEmailNotVerified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(setupTestLogger(), &mockAuthService{loginErr: tt.serviceErr})

			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, api.LoginRequest{
				Email: "alice@example.com", Password: "Secret123",
			})))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var resp api.LoginResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "access", resp.AccessToken)
				assert.Equal(t, "refresh", resp.RefreshToken)
				assert.Equal(t, "alice", resp.User.Username)
				return
			}
			assert.Equal(t, tt.wantKind, decodeError(t, rec).Kind)
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := NewAuthHandler(setupTestLogger(), &mockAuthService{})

		rec := httptest.NewRecorder()
		h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token",
			jsonBody(t, api.RefreshRequest{RefreshToken: "refresh"})))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp api.TokenResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "access-2", resp.AccessToken)
		assert.Equal(t, "refresh-2", resp.RefreshToken)
	})

	t.Run("invalid", func(t *testing.T) {
		h := NewAuthHandler(setupTestLogger(), &mockAuthService{refreshErr: auth.ErrInvalidRefreshToken})

		rec := httptest.NewRecorder()
		h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token",
			jsonBody(t, api.RefreshRequest{RefreshToken: "bad"})))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, api.KindUnauthenticated, resp.Kind)
		assert.Equal(t, api.CodeInvalidToken, resp.Code)
	})

	t.Run("missing", func(t *testing.T) {
		h := NewAuthHandler(setupTestLogger(), &mockAuthService{
			refreshErr: validation.FieldErrors{"refreshToken": "refresh token required"},
		})

		rec := httptest.NewRecorder()
		h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", jsonBody(t, api.RefreshRequest{})))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
