package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Error wraps an upstream failure. Message carries the backend's own wording
// when one was returned so callers can surface it verbatim.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("upstream %s: status %d", e.Op, e.StatusCode)
}

// Envelope is the common shape of upstream responses.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Session identifies the homeowner a call acts for. Cookie is the raw session
// cookie forwarded to the upstream backend.
type Session struct {
	HomeownerID int64
	Cookie      string
}

// Client talks to the marketplace backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Client for the given base URL, e.g.
// "http://host/buildhub/backend/api".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, sess Session, req *http.Request, op string, out interface{}) error {
	if sess.Cookie != "" {
		req.Header.Set("Cookie", sess.Cookie)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return &Error{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var env Envelope
		_ = json.Unmarshal(body, &env)
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return &Error{Op: op, StatusCode: resp.StatusCode, Message: "malformed response"}
		}
	}

	// Responses carry their own success flag even on HTTP 200.
	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && !env.Success {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: env.Message}
	}

	return nil
}

func (c *Client) get(ctx context.Context, sess Session, endpoint string, query url.Values, out interface{}) error {
	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return &Error{Op: endpoint, Message: err.Error()}
	}
	return c.do(ctx, sess, req, endpoint, out)
}

func (c *Client) postJSON(ctx context.Context, sess Session, endpoint string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Op: endpoint, Message: err.Error()}
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return &Error{Op: endpoint, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, sess, req, endpoint, out)
}

func (c *Client) postMultipart(ctx context.Context, sess Session, endpoint string, build func(w *multipart.Writer) error, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := build(w); err != nil {
		return &Error{Op: endpoint, Message: err.Error()}
	}
	if err := w.Close(); err != nil {
		return &Error{Op: endpoint, Message: err.Error()}
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/"+endpoint, &buf)
	if err != nil {
		return &Error{Op: endpoint, Message: err.Error()}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(ctx, sess, req, endpoint, out)
}
