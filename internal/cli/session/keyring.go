package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "edusnap-cli"
	keyringKey     = "session"
)

// KeyringStore keeps the whole session record as one namespaced secret in
// the OS keychain/credential manager.
type KeyringStore struct{}

// NewKeyringStore creates a keyring-backed store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// Load retrieves the session record from the OS keyring. An absent secret
// is a normal logged-out state.
func (s *KeyringStore) Load() (Session, error) {
	data, err := keyring.Get(keyringService, keyringKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Empty(), nil
		}
		return Empty(), fmt.Errorf("failed to load session from keyring: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return Empty(), fmt.Errorf("failed to parse session from keyring: %w", err)
	}
	return sess, nil
}

// Save persists the session record in the OS keyring.
func (s *KeyringStore) Save(sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := keyring.Set(keyringService, keyringKey, string(data)); err != nil {
		return fmt.Errorf("failed to save session to keyring: %w", err)
	}
	return nil
}

// Clear removes the session record from the OS keyring.
func (s *KeyringStore) Clear() error {
	if err := keyring.Delete(keyringService, keyringKey); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already cleared
		}
		return fmt.Errorf("failed to delete session from keyring: %w", err)
	}
	return nil
}
