// Package credentials holds the persisted auth state: the access/refresh
// token pair and the cached user session for the signed-in pharmacy.
package credentials

import "sync"

// Session is the cached user record persisted alongside the token pair.
// It lets the app come back authenticated without a server round-trip.
type Session struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PharmacyID   string `json:"pharmacy_id"`
	PharmacyName string `json:"pharmacy_name"`
}

// Store is the persistent credential store. Implementations must be safe for
// concurrent use; any service call that receives a fresh token writes here.
type Store interface {
	// AccessToken returns the stored access token, or "" when signed out.
	AccessToken() string
	// RefreshToken returns the stored refresh token, or "".
	RefreshToken() string
	// SetTokens overwrites the token pair. An empty refresh token keeps the
	// previously stored one.
	SetTokens(access, refresh string) error
	// Session returns the cached session and whether one is present.
	Session() (Session, bool)
	// SetSession overwrites the cached session.
	SetSession(s Session) error
	// Clear removes all stored credentials. Clearing an empty store is a no-op.
	Clear() error
}

// MemoryStore keeps credentials in process memory. Useful for tests and for
// host applications that manage persistence themselves.
type MemoryStore struct {
	mu         sync.RWMutex
	access     string
	refresh    string
	session    Session
	hasSession bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

func (m *MemoryStore) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh
}

func (m *MemoryStore) SetTokens(access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	if refresh != "" {
		m.refresh = refresh
	}
	return nil
}

func (m *MemoryStore) Session() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, m.hasSession
}

func (m *MemoryStore) SetSession(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	m.hasSession = true
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	m.session = Session{}
	m.hasSession = false
	return nil
}
