package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/edusnap-dev/edusnap/internal/logger"
)

// TokenSource provides the current bearer token, or "" when logged out. The
// session manager implements it; the client holds no credential state of
// its own.
type TokenSource interface {
	Token() string
}

var validate = validator.New()

// Client is the HTTP client for the EduSnap API. Every call is a single
// best-effort round trip: no retries, no caching. Errors come back as
// *ApiError (or *AuthError from Login) with a display-ready message.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New creates a new API client. tokens may be nil for a client that only
// ever hits unauthenticated endpoints.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		tokens:     tokens,
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// newRequest builds a request with the standard headers: a per-request ID,
// the given Content-Type (empty means none, used for multipart and GET),
// and the bearer token when the session holds one. An empty token means no
// Authorization header at all.
func (c *Client) newRequest(method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Request-ID", ulid.Make().String())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// do executes the request and decodes a 2xx JSON body into out (ignored
// when out is nil). Non-2xx responses become a single *ApiError.
func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	log := logger.GetLogger()
	log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doJSON marshals in (when non-nil) and performs a JSON round trip.
func (c *Client) doJSON(method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(method, path, body, "application/json")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// doMultipart sends a multipart form with one file part plus plain fields.
// The multipart writer supplies the Content-Type (with boundary); the
// bearer token is attached exactly as for JSON calls.
func (c *Client) doMultipart(path string, fields map[string]string, fileField, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write form field: %w", err)
		}
	}

	part, err := w.CreateFormFile(fileField, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read upload file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := c.newRequest(http.MethodPost, path, &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// loginRequest is the unauthenticated login body. The backend does not
// accept a role here; role assignment happens server-side.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// loginResponse is the login payload: a bearer token plus an opaque user
// profile that the session stores as-is.
type loginResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Login authenticates with email and password. All failures — rejected
// credentials, transport errors, malformed responses — come back as a
// single *AuthError.
func (c *Client) Login(email, password string) (string, json.RawMessage, error) {
	req := loginRequest{Email: email, Password: password}
	if err := validate.Struct(req); err != nil {
		return "", nil, &AuthError{Message: "a valid email and a password are required", Err: err}
	}

	var resp loginResponse
	if err := c.doJSON(http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return "", nil, &AuthError{Message: err.Error(), Err: err}
	}
	if resp.Token == "" {
		return "", nil, &AuthError{Message: "login response carried no token"}
	}
	return resp.Token, resp.User, nil
}

// Logout notifies the backend that the session is over. Callers treat this
// as fire-and-forget; the session is cleared locally regardless.
func (c *Client) Logout() error {
	return c.doJSON(http.MethodPost, "/api/auth/logout", nil, nil)
}

// AddFacultyRequest holds the fields for a new faculty account
type AddFacultyRequest struct {
	Username   string `json:"username" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Password   string `json:"password" validate:"required,min=6"`
}

// MessageResponse is the generic acknowledgement shape used by mutating
// endpoints.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// AddFaculty creates a faculty account (admin only)
func (c *Client) AddFaculty(req AddFacultyRequest) (*MessageResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid faculty details: %w", err)
	}

	var resp MessageResponse
	if err := c.doJSON(http.MethodPost, "/api/admin/add-faculty", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteFaculty removes a faculty account after re-verifying its password
// (admin only)
func (c *Client) DeleteFaculty(email, password string) (*MessageResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var resp MessageResponse
	if err := c.doJSON(http.MethodDelete, "/api/admin/delete-faculty", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Faculty represents a faculty account as listed by the backend
type Faculty struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Year       string `json:"year"`
}

// ListFaculty returns all faculty accounts (admin only)
func (c *Client) ListFaculty() ([]Faculty, error) {
	var resp []Faculty
	if err := c.doJSON(http.MethodGet, "/api/admin/faculty", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DashboardStats is the admin overview
type DashboardStats struct {
	TotalStudents          int `json:"totalStudents"`
	TotalFaculty           int `json:"totalFaculty"`
	TotalAttendanceRecords int `json:"totalAttendanceRecords"`
}

// Dashboard returns the admin counts overview (admin only)
func (c *Client) Dashboard() (*DashboardStats, error) {
	var resp DashboardStats
	if err := c.doJSON(http.MethodGet, "/api/admin/dashboard", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddStudentRequest holds the multipart fields for student registration.
// The enrollment photo travels separately as the image part.
type AddStudentRequest struct {
	Name       string `validate:"required"`
	RollNo     string `validate:"required"`
	Department string `validate:"required"`
	Semester   string `validate:"required"`
}

// AddStudentResponse acknowledges a successful enrollment
type AddStudentResponse struct {
	Message   string `json:"message"`
	StudentID string `json:"student_id"`
}

// AddStudent registers a student with an enrollment photo
func (c *Client) AddStudent(req AddStudentRequest, image io.Reader, filename string) (*AddStudentResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid student details: %w", err)
	}

	fields := map[string]string{
		"name":       req.Name,
		"roll_no":    req.RollNo,
		"department": req.Department,
		"semester":   req.Semester,
	}

	var resp AddStudentResponse
	if err := c.doMultipart("/api/students/add", fields, "image", filename, image, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadAttendanceRequest holds the multipart fields for an attendance
// upload; the classroom image travels as the file part.
type UploadAttendanceRequest struct {
	Department string `validate:"required"`
	Year       string `validate:"required"`
	Course     string `validate:"required"`
	Subject    string `validate:"required"`
}

// UploadResult is the detection outcome for one uploaded classroom image
type UploadResult struct {
	Message         string   `json:"message"`
	Subject         string   `json:"subject"`
	Course          string   `json:"course"`
	MarkedBy        string   `json:"marked_by"`
	Date            string   `json:"date"`
	PresentCount    int      `json:"present_count"`
	PresentStudents []string `json:"present_students"`
	OutputImage     string   `json:"output_image"`
	CSVReport       string   `json:"csv_report"`
	PDFReport       string   `json:"pdf_report"`
}

// UploadAttendance submits a classroom image for attendance detection
// (faculty only)
func (c *Client) UploadAttendance(req UploadAttendanceRequest, file io.Reader, filename string) (*UploadResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid attendance details: %w", err)
	}

	fields := map[string]string{
		"department": req.Department,
		"year":       req.Year,
		"course":     req.Course,
		"subject":    req.Subject,
	}

	var resp UploadResult
	if err := c.doMultipart("/api/attendance/upload", fields, "file", filename, file, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResultStudent is one recognized student in the latest detection results
type ResultStudent struct {
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
}

// AttendanceResults pairs the latest annotated image reference with the
// recognized students.
type AttendanceResults struct {
	Image    string          `json:"image"`
	Students []ResultStudent `json:"students"`
}

// Results returns the latest detection results (faculty only)
func (c *Client) Results() (*AttendanceResults, error) {
	var resp AttendanceResults
	if err := c.doJSON(http.MethodGet, "/api/attendance/results", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LatestImage returns the filename of the latest annotated attendance
// image, or "" when none exists yet.
func (c *Client) LatestImage() (string, error) {
	var resp struct {
		Image string `json:"image"`
	}
	if err := c.doJSON(http.MethodGet, "/api/attendance/latest-image", nil, &resp); err != nil {
		return "", err
	}
	return resp.Image, nil
}

// DownloadReport streams the latest report in the given format ("csv" or
// "pdf") into w and returns the number of bytes written.
func (c *Client) DownloadReport(format string, w io.Writer) (int64, error) {
	if format != "csv" && format != "pdf" {
		return 0, fmt.Errorf("unsupported report format %q (use csv or pdf)", format)
	}

	req, err := c.newRequest(http.MethodGet, "/api/attendance/download/latest/"+format, nil, "")
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, decodeError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to write report: %w", err)
	}
	return n, nil
}

// AdminReportRow is one admin-facing report row
type AdminReportRow struct {
	Course     string `json:"course"`
	Attendance string `json:"attendance"`
	Date       string `json:"date"`
}

// AdminReports returns the admin-facing report rows (admin only)
func (c *Client) AdminReports() ([]AdminReportRow, error) {
	var resp []AdminReportRow
	if err := c.doJSON(http.MethodGet, "/api/reports/admin", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// FacultyReportRow is one faculty-facing report row
type FacultyReportRow struct {
	Subject    string `json:"subject"`
	Attendance string `json:"attendance"`
	Date       string `json:"date"`
}

// FacultyReports returns the rows for the calling faculty member's own
// uploads (faculty only)
func (c *Client) FacultyReports() ([]FacultyReportRow, error) {
	var resp []FacultyReportRow
	if err := c.doJSON(http.MethodGet, "/api/reports/faculty", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
