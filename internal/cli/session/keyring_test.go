package session

import (
	"encoding/json"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeyringStore_RoundTrip(t *testing.T) {
	keyring.MockInit()

	store := NewKeyringStore()

	in := Session{
		IsAuthenticated: true,
		Role:            RoleAdmin,
		User:            json.RawMessage(`{"email":"admin@x.edu","role":"admin"}`),
		Token:           "keyring-token",
	}
	if err := store.Save(in); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	out, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if out.Token != in.Token || out.Role != in.Role || !out.IsAuthenticated {
		t.Errorf("round trip mismatch: got %+v", out)
	}
}

func TestKeyringStore_LoadAbsentIsLoggedOut(t *testing.T) {
	keyring.MockInit()

	store := NewKeyringStore()
	sess, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error for absent secret: %v", err)
	}
	if sess.IsAuthenticated {
		t.Errorf("expected empty session, got %+v", sess)
	}
}

func TestKeyringStore_ClearIsIdempotent(t *testing.T) {
	keyring.MockInit()

	store := NewKeyringStore()
	if err := store.Save(Session{Token: "t", IsAuthenticated: true, Role: RoleFaculty}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("second clear failed: %v", err)
	}

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("load after clear failed: %v", err)
	}
	if sess.IsAuthenticated {
		t.Error("expected empty session after clear")
	}
}
