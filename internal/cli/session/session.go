package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/edusnap-dev/edusnap/internal/logger"
)

// Role is the closed set of account roles the backend knows about.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleFaculty
}

// Session is the client-held record of authentication state. IsAuthenticated
// is true iff Token is non-empty and Role is set; all four fields are written
// together on login and cleared together on logout.
type Session struct {
	IsAuthenticated bool            `json:"isAuthenticated"`
	Role            Role            `json:"role,omitempty"`
	User            json.RawMessage `json:"user,omitempty"`
	Token           string          `json:"token,omitempty"`
}

// Empty returns the unauthenticated session.
func Empty() Session {
	return Session{}
}

// AuthAPI is the slice of the request client the manager drives during login
// and logout. The user payload is opaque to the session core; it is stored
// as returned by the backend.
type AuthAPI interface {
	Login(email, password string) (token string, user json.RawMessage, err error)
	Logout() error
}

// Manager owns the in-memory session and keeps the store in sync on every
// mutation. It is the single source of truth for authorization decisions:
// the request client reads the token from it and the command guard reads
// snapshots from it.
type Manager struct {
	mu      sync.RWMutex
	store   Store
	current Session
}

// NewManager rehydrates the session from the store. A missing or corrupt
// record silently yields the empty session; rehydration never fails.
func NewManager(store Store) *Manager {
	current, err := store.Load()
	if err != nil {
		log := logger.GetLogger()
		log.Debug().Err(err).Msg("Discarding unreadable session record")
		current = Empty()
	}
	return &Manager{store: store, current: current}
}

// Snapshot returns a copy of the current session. It never blocks on I/O.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token returns the current bearer token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

// Login authenticates against the backend and, on success, atomically sets
// all session fields and persists them. On failure the prior session state
// is left untouched.
//
// The stored role is the one asserted by the backend in the user payload
// when present; the role the user selected at login is only a fallback for
// backends that do not echo one.
func (m *Manager) Login(api AuthAPI, email, password string, requested Role) error {
	token, user, err := api.Login(email, password)
	if err != nil {
		return err
	}

	role := requested
	if backend := backendRole(user); backend.Valid() {
		role = backend
	}
	if !role.Valid() {
		return fmt.Errorf("login response carries no usable role (got %q)", role)
	}

	next := Session{
		IsAuthenticated: true,
		Role:            role,
		User:            user,
		Token:           token,
	}

	m.mu.Lock()
	m.current = next
	m.mu.Unlock()

	if err := m.store.Save(next); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Logout notifies the backend best-effort and unconditionally clears the
// session, both in memory and in the store. It never fails from the
// caller's perspective.
func (m *Manager) Logout(api AuthAPI) {
	if api != nil {
		if err := api.Logout(); err != nil {
			log := logger.GetLogger()
			log.Debug().Err(err).Msg("Backend logout notification failed")
		}
	}

	m.mu.Lock()
	m.current = Empty()
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		log := logger.GetLogger()
		log.Debug().Err(err).Msg("Failed to clear persisted session")
	}
}

// backendRole extracts the role field from the opaque user payload, if any.
func backendRole(user json.RawMessage) Role {
	if len(user) == 0 {
		return ""
	}
	var probe struct {
		Role Role `json:"role"`
	}
	if err := json.Unmarshal(user, &probe); err != nil {
		return ""
	}
	return probe.Role
}
