package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ApiError is the single error shape for non-2xx responses from the backend.
// Message is the backend's detail field when one can be parsed, otherwise a
// synthesized "HTTP <status>".
type ApiError struct {
	Status  int
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

// AuthError marks a failed login: rejected credentials, a network failure,
// or a malformed response. Login failures never leave partial session state.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// errorBodyLimit caps how much of an error body is read. Error envelopes
// are small; anything larger is not one.
const errorBodyLimit = 1 << 20

// decodeError turns a non-2xx response into an ApiError. The backend's
// envelope is {"detail": "<message>"}; an unparseable body maps to
// "HTTP <status>".
func decodeError(resp *http.Response) *ApiError {
	apiErr := &ApiError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("HTTP %d", resp.StatusCode),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		apiErr.Message = envelope.Detail
	}
	return apiErr
}
