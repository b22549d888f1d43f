package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_LoadMissingFileIsLoggedOut(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error for missing file: %v", err)
	}
	if sess.IsAuthenticated || sess.Token != "" {
		t.Errorf("expected empty session, got %+v", sess)
	}
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	in := Session{
		IsAuthenticated: true,
		Role:            RoleFaculty,
		User:            json.RawMessage(`{"email":"a@b.edu","role":"faculty","name":"Alice"}`),
		Token:           "token-abc",
	}
	if err := store.Save(in); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	out, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if out.IsAuthenticated != in.IsAuthenticated || out.Role != in.Role || out.Token != in.Token {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
	if string(out.User) == "" {
		t.Error("expected user payload to survive the round trip")
	}
}

func TestFileStore_SaveCreatesDirectoryWithTightPerms(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "edusnap")
	path := filepath.Join(dir, "session.json")
	store := NewFileStore(path)

	if err := store.Save(Session{IsAuthenticated: true, Role: RoleAdmin, Token: "t"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected session file mode 0600, got %o", perm)
	}
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	store := NewFileStore(path)
	sess, err := store.Load()
	if err == nil {
		t.Fatal("expected error for corrupt session file")
	}
	if sess.IsAuthenticated {
		t.Error("corrupt file must still yield the empty session")
	}
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	if err := store.Save(Session{Token: "t", IsAuthenticated: true, Role: RoleAdmin}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected session file to be removed")
	}

	// Clearing again must not fail.
	if err := store.Clear(); err != nil {
		t.Errorf("second clear failed: %v", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open("redis"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestOpen_DefaultsToFile(t *testing.T) {
	store, err := Open("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Errorf("expected *FileStore, got %T", store)
	}
}
