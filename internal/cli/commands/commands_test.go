package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edusnap-dev/edusnap/internal/cli/authz"
	"github.com/edusnap-dev/edusnap/internal/cli/client"
	"github.com/edusnap-dev/edusnap/internal/cli/config"
	"github.com/edusnap-dev/edusnap/internal/cli/session"
)

// testEnv builds an env wired to a temp-dir session store and the given
// backend URL, capturing command output in a buffer.
func testEnv(t *testing.T, serverURL string) (*env, *bytes.Buffer) {
	t.Helper()

	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	sessions := session.NewManager(store)

	var out bytes.Buffer
	return &env{
		cfg:      &config.Config{ServerURL: serverURL},
		sessions: sessions,
		api:      client.New(serverURL, sessions),
		out:      &out,
	}, &out
}

// loginAs seeds the env's session without touching the network.
func loginAs(t *testing.T, e *env, role session.Role) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"token": "test-token",
			"user":  map[string]string{"email": "u@x.edu", "role": string(role), "name": "Test User"},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	api := client.New(server.URL, nil)
	if err := e.sessions.Login(api, "u@x.edu", "pw", role); err != nil {
		t.Fatalf("seed login failed: %v", err)
	}
}

func TestGuard_NotLoggedIn(t *testing.T) {
	err := guard(session.Empty(), authz.RouteAdminDashboard)
	if err == nil {
		t.Fatal("expected error for logged-out session")
	}
	if !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("expected login hint, got %q", err.Error())
	}
}

func TestGuard_WrongRole(t *testing.T) {
	sess := session.Session{IsAuthenticated: true, Role: session.RoleFaculty, Token: "t"}
	err := guard(sess, authz.RouteAdminFaculty)
	if err == nil {
		t.Fatal("expected error for role mismatch")
	}
	if !strings.Contains(err.Error(), "requires the admin role") {
		t.Errorf("expected role hint, got %q", err.Error())
	}
}

func TestGuard_Allow(t *testing.T) {
	sess := session.Session{IsAuthenticated: true, Role: session.RoleAdmin, Token: "t"}
	if err := guard(sess, authz.RouteAdminReports); err != nil {
		t.Errorf("expected nil for matching role, got %v", err)
	}
}

func TestRunLogin_SuccessPersistsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"token":"token-abc","user":{"email":"a@b.edu","role":"admin","name":"Alice"}}`))
	}))
	defer server.Close()

	e, out := testEnv(t, server.URL)
	if err := runLogin(e, "a@b.edu", "secret", "faculty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess := e.sessions.Snapshot()
	if !sess.IsAuthenticated || sess.Token != "token-abc" {
		t.Errorf("expected authenticated session, got %+v", sess)
	}
	// Backend said admin; the selected faculty role is only a fallback.
	if sess.Role != session.RoleAdmin {
		t.Errorf("expected backend role to win, got %q", sess.Role)
	}
	if !strings.Contains(out.String(), "Login successful") {
		t.Errorf("expected success output, got %q", out.String())
	}
}

func TestRunLogin_RejectedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid credentials"}`))
	}))
	defer server.Close()

	e, _ := testEnv(t, server.URL)
	err := runLogin(e, "a@b.edu", "wrong", "faculty")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid credentials") {
		t.Errorf("expected backend detail in error, got %q", err.Error())
	}
	if e.sessions.Snapshot().IsAuthenticated {
		t.Error("failed login must not leave session state")
	}
}

func TestRunLogin_MissingEmail(t *testing.T) {
	t.Setenv("EDUSNAP_EMAIL", "")
	t.Setenv("EDUSNAP_PASSWORD", "")

	e, _ := testEnv(t, "http://127.0.0.1:0")
	err := runLogin(e, "", "pw", "faculty")
	if err == nil {
		t.Fatal("expected error when email is missing")
	}
	if !strings.Contains(err.Error(), "email is required") {
		t.Errorf("unexpected error: %q", err.Error())
	}
}

func TestRunLogin_UnknownRole(t *testing.T) {
	e, _ := testEnv(t, "http://127.0.0.1:0")
	err := runLogin(e, "a@b.edu", "pw", "superuser")
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
	if !strings.Contains(err.Error(), "unknown role") {
		t.Errorf("unexpected error: %q", err.Error())
	}
}

func TestRunLogout_ClearsSessionEvenWhenBackendIsDown(t *testing.T) {
	// Point the API at a dead address; logout must still succeed.
	e, out := testEnv(t, "http://127.0.0.1:0")
	loginAs(t, e, session.RoleFaculty)

	if err := runLogout(e); err != nil {
		t.Fatalf("logout must never fail, got %v", err)
	}
	if e.sessions.Snapshot().IsAuthenticated {
		t.Error("expected session to be cleared")
	}
	if !strings.Contains(out.String(), "Logged out") {
		t.Errorf("expected logout confirmation, got %q", out.String())
	}
}

func TestRunWhoami_LoggedOut(t *testing.T) {
	e, out := testEnv(t, "http://127.0.0.1:0")
	if err := runWhoami(e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Not logged in.") {
		t.Errorf("expected logged-out message, got %q", out.String())
	}
}

func TestRunWhoami_LoggedIn(t *testing.T) {
	e, out := testEnv(t, "http://backend:8000")
	loginAs(t, e, session.RoleAdmin)

	if err := runWhoami(e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Test User (u@x.edu)") {
		t.Errorf("expected user line, got %q", got)
	}
	if !strings.Contains(got, "Role:   admin") {
		t.Errorf("expected role line, got %q", got)
	}
	if !strings.Contains(got, "Server: http://backend:8000") {
		t.Errorf("expected server line, got %q", got)
	}
}

func TestRunDashboard_RequiresAdmin(t *testing.T) {
	e, _ := testEnv(t, "http://127.0.0.1:0")
	loginAs(t, e, session.RoleFaculty)

	err := runDashboard(e)
	if err == nil {
		t.Fatal("expected guard error for faculty on admin route")
	}
	if !strings.Contains(err.Error(), "requires the admin role") {
		t.Errorf("unexpected error: %q", err.Error())
	}
}

func TestRunFacultyList_Table(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/faculty" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":"1","name":"Alice","email":"alice@x.edu","department":"CSE","year":"3"}]`))
	}))
	defer server.Close()

	e, out := testEnv(t, server.URL)
	loginAs(t, e, session.RoleAdmin)

	if err := runFacultyList(e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "NAME") || !strings.Contains(got, "alice@x.edu") {
		t.Errorf("expected faculty table, got %q", got)
	}
}

func TestRunReports_DispatchesByRole(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	e, _ := testEnv(t, server.URL)
	loginAs(t, e, session.RoleAdmin)
	if err := runReports(e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/api/reports/admin" {
		t.Errorf("expected admin report path for admin, got %q", path)
	}

	e2, _ := testEnv(t, server.URL)
	loginAs(t, e2, session.RoleFaculty)
	if err := runReports(e2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/api/reports/faculty" {
		t.Errorf("expected faculty report path for faculty, got %q", path)
	}
}

func TestRunReports_LoggedOut(t *testing.T) {
	e, _ := testEnv(t, "http://127.0.0.1:0")
	err := runReports(e)
	if err == nil {
		t.Fatal("expected error for logged-out session")
	}
	if !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("unexpected error: %q", err.Error())
	}
}
