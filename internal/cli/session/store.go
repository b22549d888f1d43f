package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName   = "edusnap"
	sessionFileName = "session.json"
)

// Store persists the session record. Save runs on every mutation, Load once
// at startup. Load distinguishes "absent" (empty session, nil error) from
// "unreadable" (empty session, error) so callers can decide how loudly to
// recover; both collapse to logged-out.
type Store interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// Open returns the store for the configured backend: "keyring" for the OS
// credential manager, anything else (including empty) for the default JSON
// file under the user config directory.
func Open(backend string) (Store, error) {
	switch backend {
	case "keyring":
		return NewKeyringStore(), nil
	case "", "file":
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		return NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("unknown session storage backend %q (use \"file\" or \"keyring\")", backend)
	}
}

// DefaultPath returns the session file path, ~/.config/edusnap/session.json.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName, sessionFileName), nil
}

// FileStore keeps the session record in a JSON file readable only by the
// owning user.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted session. A missing file is a normal logged-out
// state, not an error.
func (s *FileStore) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return Empty(), fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Empty(), fmt.Errorf("failed to parse session file: %w", err)
	}
	return sess, nil
}

// Save writes the session record, creating the config directory if needed.
func (s *FileStore) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the session file. A file that is already gone is fine.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
