package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iudanet/eventz/internal/client/storage"
	"github.com/iudanet/eventz/pkg/api"
)

// EndReason причина завершения сессии
type EndReason string

const (
	ReasonLogout    EndReason = "logout"
	ReasonExpired   EndReason = "expired"
	ReasonForbidden EndReason = "forbidden"
)

// Manager хранит текущего пользователя и пару токенов.
// Создается при старте клиента и передается в api.Client явно.
type Manager struct {
	store storage.SessionStorage
	data  *storage.SessionData
	hooks []func(EndReason)
	mu    sync.RWMutex
}

// NewManager создает менеджер поверх хранилища сессии
func NewManager(store storage.SessionStorage) *Manager {
	return &Manager{store: store}
}

// Load поднимает сохраненную сессию.
// Отсутствие сессии или неполная запись не ошибка: клиент просто не аутентифицирован.
func (m *Manager) Load(ctx context.Context) error {
	data, err := m.store.LoadSession(ctx)
	if err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		return fmt.Errorf("failed to load session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	if data.Complete() {
		m.data = data
	}
	return nil
}

// Start начинает новую сессию после логина
func (m *Manager) Start(ctx context.Context, user api.User, pair api.TokenResponse) error {
	data := &storage.SessionData{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
	if !data.Complete() {
		return errors.New("incomplete session: user and both tokens are required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.SaveSession(ctx, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	m.data = data
	return nil
}

// UpdateTokens заменяет пару токенов после refresh
func (m *Manager) UpdateTokens(ctx context.Context, pair api.TokenResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return errors.New("no active session")
	}
	data := &storage.SessionData{
		User:         m.data.User,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
	if !data.Complete() {
		return errors.New("incomplete token pair")
	}
	if err := m.store.SaveSession(ctx, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	m.data = data
	return nil
}

// Clear завершает сессию и вызывает обработчики OnEnd.
// Сессия в памяти сбрасывается даже если хранилище вернуло ошибку.
func (m *Manager) Clear(ctx context.Context, reason EndReason) error {
	m.mu.Lock()
	m.data = nil
	err := m.store.DeleteSession(ctx)
	hooks := make([]func(EndReason), len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.Unlock()

	for _, hook := range hooks {
		hook(reason)
	}

	if err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// OnEnd регистрирует обработчик завершения сессии (переход к логину)
func (m *Manager) OnEnd(fn func(EndReason)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return ""
	}
	return m.data.AccessToken
}

func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return ""
	}
	return m.data.RefreshToken
}

// User возвращает текущего пользователя, false если сессии нет
func (m *Manager) User() (api.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return api.User{}, false
	}
	return m.data.User, true
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data != nil
}
