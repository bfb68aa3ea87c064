package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// requestTimeout bounds every backend call to prevent hanging requests.
const requestTimeout = 30 * time.Second

// Meta carries pagination metadata from list endpoints.
type Meta struct {
	Page       int `json:"page,omitempty"`
	Limit      int `json:"limit,omitempty"`
	Total      int `json:"total,omitempty"`
	TotalPages int `json:"totalPages,omitempty"`
}

// Response is the normalized result of every backend call. Transport
// failures, non-JSON responses and backend errors are all folded into this
// shape; callers never see a panic or a raw *http.Response.
type Response struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data,omitempty"`
	Meta       *Meta           `json:"meta,omitempty"`

	// Err holds the structured backend error when the backend returned its
	// error envelope, for logging and support correlation.
	Err *APIError `json:"-"`
}

// APIError is the structured error payload from the backend's error
// envelope. On transport-level failures a synthetic one is built with a
// locally generated trace ID so log correlation still works.
type APIError struct {
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	StatusCode int             `json:"-"`
	Details    json.RawMessage `json:"details,omitempty"`
	TraceID    string          `json:"traceId"`
	Timestamp  string          `json:"timestamp"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s (status %d, trace %s): %s", e.Code, e.StatusCode, e.TraceID, e.Message)
}

// Client performs authenticated JSON calls against the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// envelope mirrors the backend's response wire format, covering both the
// success shape and the error shape.
type envelope struct {
	Success    *bool           `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Meta       *Meta           `json:"meta"`
	Error      *APIError       `json:"error"`
}

// Get performs an authenticated GET request.
func (c *Client) Get(endpoint, token string) *Response {
	return c.Do(http.MethodGet, endpoint, nil, token)
}

// Post performs an authenticated POST request with a JSON body.
func (c *Client) Post(endpoint string, body any, token string) *Response {
	return c.Do(http.MethodPost, endpoint, body, token)
}

// Put performs an authenticated PUT request with a JSON body.
func (c *Client) Put(endpoint string, body any, token string) *Response {
	return c.Do(http.MethodPut, endpoint, body, token)
}

// Patch performs an authenticated PATCH request with a JSON body.
func (c *Client) Patch(endpoint string, body any, token string) *Response {
	return c.Do(http.MethodPatch, endpoint, body, token)
}

// Delete performs an authenticated DELETE request.
func (c *Client) Delete(endpoint, token string) *Response {
	return c.Do(http.MethodDelete, endpoint, nil, token)
}

// Do executes a request against the backend and normalizes the outcome.
func (c *Client) Do(method, endpoint string, body any, token string) *Response {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return transportFailure(0, "Invalid request payload")
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return transportFailure(0, "Invalid request")
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var urlErr interface{ Timeout() bool }
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return transportFailure(0, "Request timed out")
		}
		return transportFailure(0, "Network error - unable to reach the server")
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return transportFailure(resp.StatusCode, "Server returned non-JSON response")
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(resp.StatusCode, "Failed to read server response")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return transportFailure(http.StatusInternalServerError, "Invalid response from server")
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	failed := !ok || (env.Success != nil && !*env.Success)

	if failed {
		if env.Error != nil {
			env.Error.StatusCode = statusOr(env.StatusCode, resp.StatusCode)
			return &Response{
				Success:    false,
				StatusCode: env.Error.StatusCode,
				Message:    env.Error.Message,
				Err:        env.Error,
			}
		}

		message := env.Message
		if message == "" {
			message = "Request failed"
		}
		return &Response{
			Success:    false,
			StatusCode: statusOr(env.StatusCode, resp.StatusCode),
			Message:    message,
		}
	}

	return &Response{
		Success:    true,
		StatusCode: statusOr(env.StatusCode, resp.StatusCode),
		Message:    env.Message,
		Data:       env.Data,
		Meta:       env.Meta,
	}
}

// DecodeData unmarshals the response payload into out. Returns the
// response's APIError (or a synthetic one) when the response is a failure.
func DecodeData(resp *Response, out any) error {
	if !resp.Success {
		if resp.Err != nil {
			return resp.Err
		}
		return &APIError{
			Code:       "REQUEST_FAILED",
			Message:    resp.Message,
			StatusCode: resp.StatusCode,
			TraceID:    uuid.NewString(),
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		}
	}
	if len(resp.Data) == 0 {
		return nil
	}
	return json.Unmarshal(resp.Data, out)
}

func transportFailure(statusCode int, message string) *Response {
	return &Response{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Err: &APIError{
			Code:       "TRANSPORT_ERROR",
			Message:    message,
			StatusCode: statusCode,
			TraceID:    uuid.NewString(),
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		},
	}
}

func statusOr(primary, fallback int) int {
	if primary != 0 {
		return primary
	}
	return fallback
}
