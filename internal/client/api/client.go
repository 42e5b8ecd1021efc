package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/eventz/internal/client/session"
	"github.com/iudanet/eventz/pkg/api"
)

// Session то, что клиенту нужно от менеджера сессии
type Session interface {
	AccessToken() string
	RefreshToken() string
	UpdateTokens(ctx context.Context, pair api.TokenResponse) error
	Clear(ctx context.Context, reason session.EndReason) error
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	session    Session
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string, sess Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: sess,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.public(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// VerifyEmail подтверждает email одноразовым токеном
func (c *Client) VerifyEmail(ctx context.Context, token string) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.public(ctx, http.MethodGet, "/api/auth/verify-email/"+url.PathEscape(token), nil, &resp); err != nil {
		return nil, fmt.Errorf("verify email request failed: %w", err)
	}
	return &resp, nil
}

// ResendVerification запрашивает новое письмо подтверждения
func (c *Client) ResendVerification(ctx context.Context, email string) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	req := api.ResendVerificationRequest{Email: email}
	if err := c.public(ctx, http.MethodPost, "/api/auth/resend-verification", req, &resp); err != nil {
		return nil, fmt.Errorf("resend verification request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	if err := c.public(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Refresh обменивает refresh токен на новую пару
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	req := api.RefreshRequest{RefreshToken: refreshToken}
	if err := c.public(ctx, http.MethodPost, "/api/auth/refresh-token", req, &resp); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// CreateEvent создает мероприятие
func (c *Client) CreateEvent(ctx context.Context, req api.EventRequest) (*api.Event, error) {
	var resp api.EventResponse
	if err := c.protected(ctx, http.MethodPost, "/api/events", req, &resp); err != nil {
		return nil, fmt.Errorf("create event request failed: %w", err)
	}
	return &resp.Event, nil
}

// ListEvents возвращает мероприятия текущего пользователя
func (c *Client) ListEvents(ctx context.Context) ([]api.Event, error) {
	var resp api.EventsResponse
	if err := c.protected(ctx, http.MethodGet, "/api/events", nil, &resp); err != nil {
		return nil, fmt.Errorf("list events request failed: %w", err)
	}
	return resp.Events, nil
}

// ListUserEvents возвращает мероприятия пользователя по id
func (c *Client) ListUserEvents(ctx context.Context, userID string) ([]api.Event, error) {
	var resp api.EventsResponse
	if err := c.protected(ctx, http.MethodGet, "/api/events/user/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, fmt.Errorf("list user events request failed: %w", err)
	}
	return resp.Events, nil
}

// GetEvent возвращает мероприятие
func (c *Client) GetEvent(ctx context.Context, id string) (*api.Event, error) {
	var resp api.EventResponse
	if err := c.protected(ctx, http.MethodGet, "/api/events/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get event request failed: %w", err)
	}
	return &resp.Event, nil
}

// UpdateEvent изменяет мероприятие
func (c *Client) UpdateEvent(ctx context.Context, id string, req api.EventRequest) (*api.Event, error) {
	var resp api.EventResponse
	if err := c.protected(ctx, http.MethodPut, "/api/events/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, fmt.Errorf("update event request failed: %w", err)
	}
	return &resp.Event, nil
}

// DeleteEvent удаляет мероприятие вместе с гостями
func (c *Client) DeleteEvent(ctx context.Context, id string) (*api.Event, error) {
	var resp api.EventResponse
	if err := c.protected(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("delete event request failed: %w", err)
	}
	return &resp.Event, nil
}

// AddGuest добавляет гостя к мероприятию
func (c *Client) AddGuest(ctx context.Context, req api.GuestRequest) (*api.Guest, error) {
	var resp api.GuestResponse
	if err := c.protected(ctx, http.MethodPost, "/api/guests", req, &resp); err != nil {
		return nil, fmt.Errorf("add guest request failed: %w", err)
	}
	return &resp.Guest, nil
}

// ListGuests возвращает гостей мероприятия
func (c *Client) ListGuests(ctx context.Context, eventID string) ([]api.Guest, error) {
	var resp api.GuestsResponse
	if err := c.protected(ctx, http.MethodGet, "/api/guests/event/"+url.PathEscape(eventID), nil, &resp); err != nil {
		return nil, fmt.Errorf("list guests request failed: %w", err)
	}
	return resp.Guests, nil
}

// UpdateGuest изменяет гостя (имя, email, RSVP)
func (c *Client) UpdateGuest(ctx context.Context, id string, req api.GuestRequest) (*api.Guest, error) {
	var resp api.GuestResponse
	if err := c.protected(ctx, http.MethodPut, "/api/guests/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, fmt.Errorf("update guest request failed: %w", err)
	}
	return &resp.Guest, nil
}

// DeleteGuest удаляет гостя
func (c *Client) DeleteGuest(ctx context.Context, id string) (*api.Guest, error) {
	var resp api.GuestResponse
	if err := c.protected(ctx, http.MethodDelete, "/api/guests/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("delete guest request failed: %w", err)
	}
	return &resp.Guest, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.public(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// public запрос без токена и без refresh
func (c *Client) public(ctx context.Context, method, path string, body, result any) error {
	payload, err := marshalBody(body)
	if err != nil {
		return err
	}
	status, respBody, err := c.send(ctx, method, path, payload, "")
	if err != nil {
		return err
	}
	return decodeResponse(status, respBody, result)
}

// protected запрос с access токеном.
// На 401 выполняется ровно один refresh и один повтор запроса,
// на 403 сессия завершается.
func (c *Client) protected(ctx context.Context, method, path string, body, result any) error {
	payload, err := marshalBody(body)
	if err != nil {
		return err
	}

	status, respBody, err := c.send(ctx, method, path, payload, c.session.AccessToken())
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		if err := c.refresh(ctx, parseError(status, respBody)); err != nil {
			return err
		}
		status, respBody, err = c.send(ctx, method, path, payload, c.session.AccessToken())
		if err != nil {
			return err
		}
	}

	if status == http.StatusForbidden {
		apiErr := parseError(status, respBody)
		return c.endSession(ctx, session.ReasonForbidden, apiErr)
	}

	return decodeResponse(status, respBody, result)
}

// refresh обновляет пару токенов; при неудаче сессия очищается
func (c *Client) refresh(ctx context.Context, cause *api.Error) error {
	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		return c.endSession(ctx, session.ReasonExpired, fmt.Errorf("%w: %w", api.ErrSessionExpired, cause))
	}

	pair, err := c.Refresh(ctx, refreshToken)
	if err != nil {
		return c.endSession(ctx, session.ReasonExpired, fmt.Errorf("%w: %w", api.ErrSessionExpired, err))
	}

	if err := c.session.UpdateTokens(ctx, *pair); err != nil {
		return fmt.Errorf("failed to store refreshed tokens: %w", err)
	}
	return nil
}

// endSession очищает сессию и возвращает cause.
// Ошибка очистки добавляется к cause, исходная ошибка остается доступной для errors.Is/As.
func (c *Client) endSession(ctx context.Context, reason session.EndReason, cause error) error {
	if err := c.session.Clear(ctx, reason); err != nil {
		return errors.Join(cause, fmt.Errorf("failed to clear session: %w", err))
	}
	return cause
}

// send выполняет один HTTP запрос и читает тело ответа
func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func marshalBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return data, nil
}

func decodeResponse(status int, body []byte, result any) error {
	if status < 200 || status >= 300 {
		return parseError(status, body)
	}
	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// parseError разбирает тело ошибки в *api.Error.
// Если тело не в формате API (например, ответ прокси), kind выводится из статуса.
func parseError(status int, body []byte) *api.Error {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Kind == "" {
		return &api.Error{
			Status:  status,
			Kind:    kindForStatus(status),
			Message: strings.TrimSpace(string(body)),
		}
	}
	return &api.Error{
		Fields:  errResp.Fields,
		Kind:    errResp.Kind,
		Code:    errResp.Code,
		Message: errResp.Message,
		Status:  status,
	}
}

func kindForStatus(status int) api.Kind {
	switch status {
	case http.StatusBadRequest:
		return api.KindValidation
	case http.StatusUnauthorized:
		return api.KindUnauthenticated
	case http.StatusForbidden:
		return api.KindForbidden
	case http.StatusNotFound:
		return api.KindNotFound
	case http.StatusTooManyRequests:
		return api.KindRateLimited
	default:
		return api.KindServerError
	}
}
