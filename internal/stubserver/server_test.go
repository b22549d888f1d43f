package stubserver_test

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edusnap-dev/edusnap/internal/cli/client"
	"github.com/edusnap-dev/edusnap/internal/cli/session"
	"github.com/edusnap-dev/edusnap/internal/models"
	"github.com/edusnap-dev/edusnap/internal/stubserver"
)

// startStub boots an in-memory stub backend with one admin and one faculty
// account and returns its base URL.
func startStub(t *testing.T) string {
	t.Helper()

	srv, err := stubserver.New(":memory:", zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, srv.SeedUser("admin@test.edu", "adminpass", "Test Admin", models.RoleAdmin))
	require.NoError(t, srv.SeedUser("faculty@test.edu", "facultypass", "Test Faculty", models.RoleFaculty))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

// newSession builds a temp-dir-backed session manager and a client reading
// its token.
func newSession(t *testing.T, baseURL string) (*session.Manager, *client.Client) {
	t.Helper()

	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	mgr := session.NewManager(store)
	return mgr, client.New(baseURL, mgr)
}

func TestEndToEnd_AdminFlow(t *testing.T) {
	baseURL := startStub(t)
	sessions, api := newSession(t, baseURL)

	// Login: backend asserts the admin role regardless of the selection.
	require.NoError(t, sessions.Login(api, "admin@test.edu", "adminpass", session.RoleFaculty))
	require.Equal(t, session.RoleAdmin, sessions.Snapshot().Role)
	require.NotEmpty(t, sessions.Token())

	// Empty deployment: all counts start at zero.
	stats, err := api.Dashboard()
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalStudents)

	// Add a faculty account and see it listed.
	added, err := api.AddFaculty(client.AddFacultyRequest{
		Username:   "bob",
		Name:       "Bob",
		Email:      "bob@test.edu",
		Department: "CSE",
		Year:       "3",
		Password:   "bobpass123",
	})
	require.NoError(t, err)
	require.Contains(t, added.Message, "Bob")
	require.NotEmpty(t, added.ID)

	faculty, err := api.ListFaculty()
	require.NoError(t, err)
	emails := make([]string, 0, len(faculty))
	for _, f := range faculty {
		emails = append(emails, f.Email)
	}
	require.Contains(t, emails, "bob@test.edu")

	// Duplicate usernames are rejected with the backend's detail message.
	_, err = api.AddFaculty(client.AddFacultyRequest{
		Username: "bob",
		Name:     "Bob Again",
		Email:    "bob2@test.edu",
		Password: "bobpass123",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Username already exists")

	// Deleting re-verifies the target account's password.
	_, err = api.DeleteFaculty("bob@test.edu", "wrongpass")
	require.Error(t, err)

	deleted, err := api.DeleteFaculty("bob@test.edu", "bobpass123")
	require.NoError(t, err)
	require.Contains(t, deleted.Message, "deleted")

	// Admin cannot reach faculty-only endpoints.
	_, err = api.Results()
	require.Error(t, err)
	apiErr, ok := err.(*client.ApiError)
	require.True(t, ok)
	require.Equal(t, 403, apiErr.Status)

	// Logout invalidates nothing server-side (stateless JWT) but clears the
	// local session, after which requests go out unauthenticated.
	sessions.Logout(api)
	require.Empty(t, sessions.Token())
	_, err = api.Dashboard()
	require.Error(t, err)
}

func TestEndToEnd_FacultyFlow(t *testing.T) {
	baseURL := startStub(t)
	sessions, api := newSession(t, baseURL)

	require.NoError(t, sessions.Login(api, "faculty@test.edu", "facultypass", session.RoleFaculty))
	require.Equal(t, session.RoleFaculty, sessions.Snapshot().Role)

	// Register two students.
	for _, s := range []struct{ name, roll string }{
		{"Alice", "CS-001"},
		{"Bob", "CS-002"},
	} {
		resp, err := api.AddStudent(client.AddStudentRequest{
			Name:       s.name,
			RollNo:     s.roll,
			Department: "CSE",
			Semester:   "5",
		}, bytes.NewReader([]byte("png-bytes")), s.name+".png")
		require.NoError(t, err)
		require.NotEmpty(t, resp.StudentID)
	}

	// Duplicate roll numbers are rejected.
	_, err := api.AddStudent(client.AddStudentRequest{
		Name:       "Alice Again",
		RollNo:     "CS-001",
		Department: "CSE",
		Semester:   "5",
	}, bytes.NewReader([]byte("png-bytes")), "again.png")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Roll number already exists")

	// Nothing to download before the first upload.
	var discard bytes.Buffer
	_, err = api.DownloadReport("csv", &discard)
	require.Error(t, err)

	// Upload a classroom image; both registered students come back present.
	result, err := api.UploadAttendance(client.UploadAttendanceRequest{
		Department: "CSE",
		Year:       "3",
		Course:     "B.Tech",
		Subject:    "Databases",
	}, bytes.NewReader([]byte("jpeg-bytes")), "class.jpg")
	require.NoError(t, err)
	require.Equal(t, 2, result.PresentCount)
	require.ElementsMatch(t, []string{"Alice", "Bob"}, result.PresentStudents)
	require.Equal(t, "Test Faculty", result.MarkedBy)
	require.NotEmpty(t, result.OutputImage)

	// Results reflect the upload.
	results, err := api.Results()
	require.NoError(t, err)
	require.Equal(t, result.OutputImage, results.Image)
	require.Len(t, results.Students, 2)

	image, err := api.LatestImage()
	require.NoError(t, err)
	require.Equal(t, result.OutputImage, image)

	// Reports now carry one row per subject/day.
	rows, err := api.FacultyReports()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Databases", rows[0].Subject)

	// Both report formats download.
	var csvBuf bytes.Buffer
	n, err := api.DownloadReport("csv", &csvBuf)
	require.NoError(t, err)
	require.Greater(t, n, int64(0))
	require.Contains(t, csvBuf.String(), "CS-001")

	var pdfBuf bytes.Buffer
	_, err = api.DownloadReport("pdf", &pdfBuf)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdfBuf.Bytes(), []byte("%PDF")))

	// Faculty cannot reach admin endpoints.
	_, err = api.Dashboard()
	require.Error(t, err)
}

func TestEndToEnd_LoginFailures(t *testing.T) {
	baseURL := startStub(t)
	sessions, api := newSession(t, baseURL)

	err := sessions.Login(api, "admin@test.edu", "wrongpass", session.RoleAdmin)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid email or password")
	require.False(t, sessions.Snapshot().IsAuthenticated)

	err = sessions.Login(api, "ghost@test.edu", "whatever", session.RoleAdmin)
	require.Error(t, err)
	require.False(t, sessions.Snapshot().IsAuthenticated)
}

func TestEndToEnd_SessionSurvivesRestart(t *testing.T) {
	baseURL := startStub(t)

	sessionPath := filepath.Join(t.TempDir(), "session.json")
	store := session.NewFileStore(sessionPath)

	first := session.NewManager(store)
	api := client.New(baseURL, first)
	require.NoError(t, first.Login(api, "faculty@test.edu", "facultypass", session.RoleFaculty))

	// A fresh manager over the same file picks the session back up and its
	// token still authenticates.
	second := session.NewManager(session.NewFileStore(sessionPath))
	require.True(t, second.Snapshot().IsAuthenticated)

	api2 := client.New(baseURL, second)
	_, err := api2.Results()
	require.NoError(t, err)
}
