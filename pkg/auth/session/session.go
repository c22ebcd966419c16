// Package session keeps a client-side view of the authenticated user. It
// wraps a persisted access token and exposes the identity decoded from it,
// so callers never have to touch raw JWT strings.
package session

import (
	"sync"

	"github.com/gearghar/gearghar-backend/pkg/auth"
	"github.com/gearghar/gearghar-backend/pkg/config"
	"github.com/gearghar/gearghar-backend/pkg/enums"
	"github.com/google/uuid"
)

// Identity is the subset of token claims surfaced to session consumers.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
}

// Store persists the access token across process restarts.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// MemoryStore is a process-local Store, used by tests and as the default
// when no durable storage is configured.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// Manager holds the current session state. All methods are safe for
// concurrent use.
type Manager struct {
	mu       sync.RWMutex
	cfg      config.JWTConfig
	store    Store
	token    string
	identity *Identity
}

func NewManager(cfg config.JWTConfig, store Store) *Manager {
	if store == nil {
		store = &MemoryStore{}
	}
	return &Manager{cfg: cfg, store: store}
}

// Restore loads the persisted token and rebuilds the session from it.
// An absent, expired, or tampered token leaves the session logged out
// without surfacing an error; only store failures are returned.
func (m *Manager) Restore() error {
	token, err := m.store.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	claims, err := auth.ParseAccessToken(m.cfg, token)
	if err != nil {
		return m.store.Clear()
	}

	m.mu.Lock()
	m.token = token
	m.identity = identityFromClaims(claims)
	m.mu.Unlock()
	return nil
}

// Login validates the freshly issued token, persists it, and activates the
// session.
func (m *Manager) Login(token string) (Identity, error) {
	claims, err := auth.ParseAccessToken(m.cfg, token)
	if err != nil {
		return Identity{}, err
	}
	if err := m.store.Save(token); err != nil {
		return Identity{}, err
	}

	id := identityFromClaims(claims)
	m.mu.Lock()
	m.token = token
	m.identity = id
	m.mu.Unlock()
	return *id, nil
}

// Logout clears the in-memory state and the persisted token.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.token = ""
	m.identity = nil
	m.mu.Unlock()
	return m.store.Clear()
}

// Token returns the raw access token, or empty when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Current returns the active identity, if any.
func (m *Manager) Current() (Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return Identity{}, false
	}
	return *m.identity, true
}

func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

func (m *Manager) IsAdmin() bool {
	id, ok := m.Current()
	return ok && id.Role == enums.UserRoleAdmin
}

func identityFromClaims(claims *auth.AccessTokenClaims) *Identity {
	return &Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}
}
